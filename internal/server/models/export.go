package models

import "time"

// Export is the archive written to object storage for one owner.
type Export struct {
	Username  string           `json:"username"`
	CreatedAt time.Time        `json:"created_at"`
	Notes     []*Note          `json:"notes"`
	Passwords []*PasswordEntry `json:"passwords"`
}

// ExportResult tells the caller where the archive can be downloaded.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
