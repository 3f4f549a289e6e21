package models

import "time"

// UserRole represents the available roles.
type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// UserStatus represents account states.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusPending  UserStatus = "pending"
)

// User represents a profile stored in the user_profiles table.
type User struct {
	UserID       string     `db:"user_id" json:"user_id"`
	Names        string     `db:"names" json:"names"`
	LastName1    string     `db:"last_name_1" json:"last_name_1"`
	LastName2    *string    `db:"last_name_2" json:"last_name_2,omitempty"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	AreaID       *int64     `db:"area_id" json:"area_id,omitempty"`
	CampusID     *int64     `db:"campus_id" json:"campus_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins the name components the way the log writer records them.
func (u *User) FullName() string {
	name := u.Names + " " + u.LastName1
	if u.LastName2 != nil && *u.LastName2 != "" {
		name += " " + *u.LastName2
	}
	return name
}
