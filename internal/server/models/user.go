// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Password holds the hash, never the plain text.
type User struct {
	ID          string     `json:"userid"`
	Email       string     `json:"email"`
	UserName    string     `json:"username"`
	Password    string     `json:"-"`
	Attempts    int        `json:"-"`
	BanDateTime *time.Time `json:"-"`
}

// Stats summarizes the user base.
type Stats struct {
	UserCount       int `json:"userCount"`
	ActiveUserCount int `json:"activeUserCount"`
}
