package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a caller role tag.
type Role string

const (
	RoleDirector Role = "DIRECTOR"
	RoleSupport  Role = "SUPPORT"
	RoleDriver   Role = "DRIVER"
)

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleDirector, RoleSupport, RoleDriver:
		return true
	default:
		return false
	}
}

// User represents a user in the system
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    primitive.ObjectID `bson:"company_id" json:"company_id"`
	Username     string             `bson:"username" json:"username" validate:"required,min=3,max=50"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Roles        []Role             `bson:"roles" json:"roles"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FullName  string `json:"full_name"`
	CompanyID string `json:"company_id" validate:"required"`
	Roles     []Role `json:"roles" validate:"required,min=1"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	CompanyID string `json:"company_id"`
	Roles     []Role `json:"roles"`
	Exp       int64  `json:"exp"`
}
