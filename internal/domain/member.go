package domain

import "time"

// Member is a chapter member who can sign in and own trips.
// PasswordHash never leaves the service layer.
type Member struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// AuthToken is a signed bearer credential issued to a member.
type AuthToken struct {
	Value     string
	ExpiresAt time.Time
}
