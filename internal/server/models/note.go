package models

import (
	"errors"
	"time"
)

// Note is an owned text record. Title and EncryptedContent are opaque to the
// server.
type Note struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	EncryptedContent string     `json:"encrypted_content"`
	OwnerID          int64      `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type NoteCreate struct {
	Title            string `json:"title" validate:"required"`
	EncryptedContent string `json:"encrypted_content" validate:"required"`
}

type NotePatch struct {
	Title            Field[string] `json:"title"`
	EncryptedContent Field[string] `json:"encrypted_content"`
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return !p.Title.Set && !p.EncryptedContent.Set
}

// Validate rejects nulls for columns that cannot hold them.
func (p NotePatch) Validate() error {
	if p.Title.Null {
		return errors.New("title: may not be null")
	}
	if p.EncryptedContent.Null {
		return errors.New("encrypted_content: may not be null")
	}
	return nil
}
