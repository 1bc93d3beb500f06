package models

import "time"

// SessionToken is a revocable session bound to one user.
type SessionToken struct {
	ID        int64
	Token     string
	UserID    string
	CreatedAt time.Time
}
