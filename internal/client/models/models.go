// Package models defines the client-side view of the notekeeper API: wire
// shapes as the server sends them and decrypted views shown to the user.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Note is a note as stored on the server; EncryptedContent is ciphertext.
type Note struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	EncryptedContent string     `json:"encrypted_content"`
	OwnerID          int64      `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type NoteInput struct {
	Title            string `json:"title"`
	EncryptedContent string `json:"encrypted_content"`
}

// NoteUpdate sends only the fields that are set.
type NoteUpdate struct {
	Title            *string `json:"title,omitempty"`
	EncryptedContent *string `json:"encrypted_content,omitempty"`
}

// PasswordEntry is a credential as stored on the server. EncryptedPassword
// and Notes are ciphertext.
type PasswordEntry struct {
	ID                int64      `json:"id"`
	WebsiteURL        string     `json:"website_url"`
	Username          string     `json:"username"`
	EncryptedPassword string     `json:"encrypted_password"`
	Notes             *string    `json:"notes"`
	OwnerID           int64      `json:"owner_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type PasswordInput struct {
	WebsiteURL        string  `json:"website_url"`
	Username          string  `json:"username"`
	EncryptedPassword string  `json:"encrypted_password"`
	Notes             *string `json:"notes,omitempty"`
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NoteView is a decrypted note.
type NoteView struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// PasswordView is a decrypted credential.
type PasswordView struct {
	ID         int64
	WebsiteURL string
	Username   string
	Password   string
	Notes      string
	CreatedAt  time.Time
}
