// Package models defines the server-side records and the request shapes the
// services accept.
package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserCreate is the registration payload.
type UserCreate struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}
