package users

import "time"

// User is a registered account. PasswordHash is a bcrypt hash, never the
// raw password.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
