package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var errEmptyInput = errors.New("value may not be empty")

const exportsDir = "exports"

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// idArg returns the id given on the command line or asks for one.
func (a *App) idArg(arg, prompt string) (int64, error) {
	if arg == "" {
		var err error
		if arg, err = getSimpleText(a.reader, prompt, a.out); err != nil {
			return 0, err
		}
	}
	return parseID(arg)
}

func (a *App) required(prompt string) (string, error) {
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errEmptyInput
	}
	return v, nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// Register asks for a username and a master password (twice). The master
// password never leaves this process.
func (a *App) Register(ctx context.Context) error {
	userName, err := a.required("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return errEmptyInput
	}

	confirm, err := getPassword(a.out, "Repeat master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	if err := a.auth.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can now login.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, err := a.required("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	keys, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.forgetKeys()
	a.keys = keys
	a.userName = userName
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the token and wipes the keys from memory.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout()
	a.forgetKeys()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.auth.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d, registered %s)\n", u.Username, u.ID, formatTime(u.CreatedAt))
	return nil
}

func (a *App) AddNote(ctx context.Context) error {
	title, err := a.required("Enter title")
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		return errEmptyInput
	}

	n, err := a.vault.AddNote(ctx, a.keys.Enc, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d saved\n", n.ID)
	return nil
}

func (a *App) Notes(ctx context.Context) error {
	notes, err := a.vault.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCREATED")
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, n.Title, formatTime(n.CreatedAt))
	}
	return tw.Flush()
}

func (a *App) ShowNote(ctx context.Context, arg string) error {
	id, err := a.idArg(arg, "Enter note id")
	if err != nil {
		return err
	}
	n, err := a.vault.ShowNote(ctx, a.keys.Enc, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "# %s\n%s\n", n.Title, n.Content)
	return nil
}

// EditNote keeps a field when its prompt is answered with an empty line.
func (a *App) EditNote(ctx context.Context, arg string) error {
	id, err := a.idArg(arg, "Enter note id")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "New text (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}

	var titlePtr, contentPtr *string
	if title != "" {
		titlePtr = &title
	}
	if content != "" {
		contentPtr = &content
	}
	if titlePtr == nil && contentPtr == nil {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	n, err := a.vault.EditNote(ctx, a.keys.Enc, id, titlePtr, contentPtr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d updated\n", n.ID)
	return nil
}

func (a *App) DeleteNote(ctx context.Context, arg string) error {
	id, err := a.idArg(arg, "Enter note id")
	if err != nil {
		return err
	}
	if err := a.vault.DeleteNote(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d deleted\n", id)
	return nil
}

func (a *App) AddPassword(ctx context.Context) error {
	site, err := a.required("Enter website")
	if err != nil {
		return err
	}
	userName, err := a.required("Enter account username")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter account password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return errEmptyInput
	}
	notes, err := getSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	e, err := a.vault.AddPassword(ctx, a.keys.Enc, site, userName, string(password), notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password entry %d saved\n", e.ID)
	return nil
}

func (a *App) Passwords(ctx context.Context) error {
	entries, err := a.vault.ListPasswords(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No password entries")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWEBSITE\tUSERNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.ID, e.WebsiteURL, e.Username)
	}
	return tw.Flush()
}

func (a *App) ShowPassword(ctx context.Context, arg string) error {
	id, err := a.idArg(arg, "Enter password entry id")
	if err != nil {
		return err
	}
	e, err := a.vault.ShowPassword(ctx, a.keys.Enc, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Website:  %s\nUsername: %s\nPassword: %s\n", e.WebsiteURL, e.Username, e.Password)
	if e.Notes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", e.Notes)
	}
	return nil
}

func (a *App) DeletePassword(ctx context.Context, arg string) error {
	id, err := a.idArg(arg, "Enter password entry id")
	if err != nil {
		return err
	}
	if err := a.vault.DeletePassword(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password entry %d deleted\n", id)
	return nil
}

// Export asks the server to archive the vault and prints the download link.
// The archive holds ciphertext only.
func (a *App) Export(ctx context.Context) error {
	res, err := a.vault.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Export ready: %s\nLink expires at %s\n", res.URL, formatTime(res.ExpiresAt))

	answer, err := getSimpleText(a.reader, "Download to ./"+exportsDir+" now? [y/N]", a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		return nil
	}

	dir, err := filex.EnsureSubDir(exportsDir)
	if err != nil {
		return err
	}
	saved, err := a.vault.DownloadExport(ctx, res, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", saved)
	return nil
}
