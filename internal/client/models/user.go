// Package models defines the client-side domain records exchanged with the
// TapMap API.
package models

import "time"

// AccountKind distinguishes regular patrons from business accounts.
type AccountKind string

const (
	AccountUser     AccountKind = "user"
	AccountBusiness AccountKind = "business"
)

// User is the identity record returned by the API.
//
// ID and Kind never change after creation; Email is immutable in the
// profile-update flow (the server ignores attempts to change it).
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	BirthDate string      `json:"birthDate,omitempty"`
	PhotoURL  string      `json:"photoUrl,omitempty"`
	Kind      AccountKind `json:"accountType"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy. The session layer hands out copies so callers
// can never observe a user record mid-update.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
