package domain

import "time"

// User is a stored credential record. PasswordHash never leaves the
// repository/service boundary; handlers and clients only ever see PublicUser.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	EmailConfirmedAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicUser is the identity view returned by signup and login.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the single currently-authenticated identity.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public strips the credential down to its exposable fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
