package model

import "time"

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User represents a registered account. Every other entity is owned by a user.
type User struct {
	Base
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender       string     `json:"gender,omitempty" db:"gender"`
}

// RegisterRequest represents registration parameters
type RegisterRequest struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=6"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `json:"gender" binding:"omitempty,oneof=male female other"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest applies only the fields that are present.
type UpdateProfileRequest struct {
	Name        *string    `json:"name"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      *string    `json:"gender" binding:"omitempty,oneof=male female other"`
}
