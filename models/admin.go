package models

// AdminUser holds the argon2-encoded password, never the plaintext.
// The JSON tag keeps it out of API responses; persistence uses an
// explicit envelope (see repositories.storedAdmin).
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// MaxAdmins caps the admin collection, seed admin included.
const MaxAdmins = 4
