package domain

import (
	"errors"
	"time"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("project not found")
	ErrIntegrity  = errors.New("project integrity check failed")
	ErrStore      = errors.New("project store failure")
)

// Project is a user's project as stored and served. OwnerID is set once at
// creation from the session and never taken from a request body.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Envelope is the JSON body of every project response.
type Envelope struct {
	Success bool     `json:"success"`
	Project *Project `json:"project,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type CreateInput struct {
	Name        string
	Description string
}

// UpdateInput carries a partial update; nil fields are left as stored.
type UpdateInput struct {
	ID          string
	Name        *string
	Description *string
}

// Empty reports whether the update would change nothing.
func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Description == nil
}
