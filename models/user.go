package models

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// DefaultRoles are seeded at startup when missing.
var DefaultRoles = []string{RoleUser, RoleAdmin}

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:20;uniqueIndex;not null"`
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:50;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:120;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Roles   []Role `json:"roles,omitempty" gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
	Quizzes []Quiz `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// RoleNames flattens the user's roles into their names.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
