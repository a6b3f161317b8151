package models

import (
	"errors"
	"time"
)

// PasswordEntry is an owned credential record. Every field except the owner
// is opaque to the server; Notes may be absent.
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

type PasswordEntryCreate struct {
	WebsiteURL        string  `json:"website_url" validate:"required"`
	Username          string  `json:"username" validate:"required"`
	EncryptedPassword string  `json:"encrypted_password" validate:"required"`
	Notes             *string `json:"notes"`
}

type PasswordEntryPatch struct {
	WebsiteURL        Field[string] `json:"website_url"`
	Username          Field[string] `json:"username"`
	EncryptedPassword Field[string] `json:"encrypted_password"`
	Notes             Field[string] `json:"notes"`
}

func (p PasswordEntryPatch) Empty() bool {
	return !p.WebsiteURL.Set && !p.Username.Set && !p.EncryptedPassword.Set && !p.Notes.Set
}

// Validate rejects nulls everywhere except Notes.
func (p PasswordEntryPatch) Validate() error {
	switch {
	case p.WebsiteURL.Null:
		return errors.New("website_url: may not be null")
	case p.Username.Null:
		return errors.New("username: may not be null")
	case p.EncryptedPassword.Null:
		return errors.New("encrypted_password: may not be null")
	}
	return nil
}
