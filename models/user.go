package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleKassenwart UserRole = "kassenwart"
	RoleTrainer    UserRole = "trainer"
)

// IsPrivileged reports whether the role may see and mutate records owned by
// other users (bills, travel reports, payment status).
func (r UserRole) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleKassenwart
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleKassenwart, RoleTrainer:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	TrainerID    *int      `json:"trainer_id,omitempty"`
	Banned       bool      `json:"banned"`
	BanReason    *string   `json:"ban_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Trainer *Trainer `json:"trainer,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
