package users

import "time"

// User represents a registered vehicle owner.
type User struct {
	Idx          int64
	ID           string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries the id/password pair supplied on registration and login.
type Credentials struct {
	ID       string
	Password string
}
