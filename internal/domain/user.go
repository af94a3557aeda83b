package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of platform roles.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleWriter Role = "Writer"
	RoleReader Role = "Reader"
)

// Level positions the role in the hierarchy; higher means more privilege.
// Unknown roles rank below Reader.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleWriter:
		return 1
	case RoleReader:
		return 0
	default:
		return -1
	}
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	return r.Level() >= 0
}

// AtLeast compares hierarchy positions, never display labels.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// ParseRole canonicalizes a role string supplied by a client or a token claim.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// User is the platform identity. Created at registration, mutated only by
// admin role changes.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary aggregates identity counts for the dashboard.
type UserSummary struct {
	Total            int64 `json:"total"`
	ActiveLast30Days int64 `json:"activeLast30Days"`
	NewLast30Days    int64 `json:"newLast30Days"`
}

// RoleCount is one row of the users-by-role aggregate.
type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}
