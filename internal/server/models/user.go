// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record. PasswordHash never leaves the server.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author is the public projection of a User embedded in posts and comments.
type Author struct {
	ID       string
	Name     string
	UserName string
}

// Author returns the public projection of u.
func (u *User) Author() Author {
	return Author{ID: u.ID, Name: u.Name, UserName: u.UserName}
}
