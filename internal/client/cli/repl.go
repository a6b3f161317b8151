package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. Commands that
// address one record take its id as the first argument.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	AddNote(ctx context.Context) error
	Notes(ctx context.Context) error
	ShowNote(ctx context.Context, id string) error
	EditNote(ctx context.Context, id string) error
	DeleteNote(ctx context.Context, id string) error
	AddPassword(ctx context.Context) error
	Passwords(ctx context.Context) error
	ShowPassword(ctx context.Context, id string) error
	DeletePassword(ctx context.Context, id string) error
	Export(ctx context.Context) error
	Logout(ctx context.Context) error
}

var (
	guestHelp = "Available commands: register, login, help, exit"
	userHelp  = "Available commands: whoami, addnote, notes, shownote <id>, editnote <id>, delnote <id>, " +
		"addpass, passwords, showpass <id>, delpass <id>, export, logout, help, exit"
)

// errorText turns an error into a line for the user.
func errorText(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "Error: server unavailable, try again later"
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		return "Error: " + apiErr.Detail
	default:
		return "Error: " + err.Error()
	}
}

// runREPL reads commands from reader until EOF or "exit"/"quit". Errors from
// commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		arg := func() string {
			if len(args) == 0 {
				return ""
			}
			return args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register", "login":
		default:
			if !a.isLoggedIn() {
				if _, known := userCommands[cmd]; known {
					printlnFn("Please login first")
				} else {
					printlnFn("Unknown command:", cmd)
				}
				continue
			}
		}

		switch cmd {
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "addnote":
			err = a.AddNote(ctx)
		case "notes":
			err = a.Notes(ctx)
		case "shownote":
			err = a.ShowNote(ctx, arg())
		case "editnote":
			err = a.EditNote(ctx, arg())
		case "delnote":
			err = a.DeleteNote(ctx, arg())
		case "addpass":
			err = a.AddPassword(ctx)
		case "passwords":
			err = a.Passwords(ctx)
		case "showpass":
			err = a.ShowPassword(ctx, arg())
		case "delpass":
			err = a.DeletePassword(ctx, arg())
		case "export":
			err = a.Export(ctx)
		case "logout":
			err = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn(errorText(err))
		}
	}
}

var userCommands = map[string]struct{}{
	"whoami": {}, "addnote": {}, "notes": {}, "shownote": {}, "editnote": {}, "delnote": {},
	"addpass": {}, "passwords": {}, "showpass": {}, "delpass": {}, "export": {}, "logout": {},
}
