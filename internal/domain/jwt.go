package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// CoachClaims are the claims carried by tokens allowed to write content.
type CoachClaims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Roles allowed to write exercises and trainings.
const (
	RoleCoach = "coach"
	RoleAdmin = "admin"
)
