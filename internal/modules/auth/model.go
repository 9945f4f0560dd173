// README: Identity/session provider types and session-change events.
package auth

import (
	"errors"
	"time"
)

type EventType string

const (
	EventSignedIn         EventType = "SIGNED_IN"
	EventSignedOut        EventType = "SIGNED_OUT"
	EventPasswordRecovery EventType = "PASSWORD_RECOVERY"
	EventUserUpdated      EventType = "USER_UPDATED"
)

// Event is a session-change notification.
type Event struct {
	Type  EventType `json:"type"`
	UID   string    `json:"uid,omitempty"`
	Email string    `json:"email,omitempty"`
	At    time.Time `json:"at"`
}

// Session is what a successful sign-in hands the client.
type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

var (
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnavailable        = errors.New("identity provider unavailable")
)

const minPasswordLen = 6
