package models

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	DOB          *string
	Gender       *string
	Avatar       *string
	CreatedAt    time.Time
}

// Identity is the subset of a user embedded in session tokens and
// returned from credential checks. It never carries the password hash.
type Identity struct {
	ID    string
	Name  string
	Email string
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
