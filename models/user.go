package models

import "time"

// User — профиль пользователя, один к одному с записью Identity.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	TeamID    *int      `json:"team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the credential record owned by the identity provider.
// Its ID is the session subject and matches the profile ID.
type Identity struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
