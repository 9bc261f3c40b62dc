package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// IsStaff reports whether the role may act on other users' requests.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID           string    `json:"id"`
	Matricule    string    `json:"matricule"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	Phone        string    `json:"phone,omitempty"`
	BirthInfo    string    `json:"birth_info,omitempty"`
	Position     string    `json:"position,omitempty"`
	Role         Role      `json:"role"`
	LevelID      *int64    `json:"level_id,omitempty"`
	Active       bool      `json:"active"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is first name followed by last name, used in notification
// and email texts.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
