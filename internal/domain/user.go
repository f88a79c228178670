package domain

import "time"

// User is an account owner. Every khata and entry is scoped to exactly
// one user; there is no sharing or cross-user visibility.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
