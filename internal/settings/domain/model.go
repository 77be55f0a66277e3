package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("settings not found")
	ErrInvalidTheme = errors.New("invalid theme")
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Settings holds a user's dashboard preferences.
// The session user id is the primary identifier.
type Settings struct {
	UserID      string                 `json:"userId"`
	Email       string                 `json:"email"`
	DisplayName *string                `json:"displayName,omitempty"`
	Theme       string                 `json:"theme"`
	Preferences map[string]interface{} `json:"preferences"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// UpdateSettingsRequest represents data for updating settings. Nil fields
// are left as stored; Preferences are merged key by key.
type UpdateSettingsRequest struct {
	DisplayName *string
	Theme       *string
	Preferences map[string]interface{}
}

// Envelope is the JSON body of every settings response.
type Envelope struct {
	Success  bool      `json:"success"`
	Settings *Settings `json:"settings,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Defaults returns the settings of a user who never saved any.
func Defaults(userID, email string) *Settings {
	return &Settings{
		UserID:      userID,
		Email:       email,
		Theme:       ThemeSystem,
		Preferences: make(map[string]interface{}),
	}
}

func ValidTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}
