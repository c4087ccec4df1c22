package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMemberColor is the display color assigned when none is chosen.
const DefaultMemberColor = "bg-pink-500"

// FamilyMember is a profile managed by its owning user. Medical files may
// reference a member; absence of the reference means the file is the owner's.
type FamilyMember struct {
	Base
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Relation     string    `json:"relation" db:"relation"`
	Color        string    `json:"color" db:"color"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
}

type CreateFamilyMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation" binding:"required"`
	Color    string `json:"color"`
}

type UpdateFamilyMemberRequest struct {
	Name     *string `json:"name"`
	Relation *string `json:"relation"`
	Color    *string `json:"color"`
}
