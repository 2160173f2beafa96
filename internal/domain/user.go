package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the token identity of the user.
func (u *User) Identity() Identity {
	return Identity{SubjectID: u.ID, Role: u.Role}
}
