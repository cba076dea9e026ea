package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SiteName represents a launch site identifier as it appears in the dataset
type SiteName string

// String returns the string representation
func (s SiteName) String() string {
	return string(s)
}

// BoosterCategory represents a booster version category
type BoosterCategory string

// String returns the string representation
func (c BoosterCategory) String() string {
	return string(c)
}

// SessionID identifies one dashboard session (one set of selector values)
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new random SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Validate checks that the session ID is a well-formed UUID
func (id SessionID) Validate() error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "invalid session ID", goerr.V("id", id))
	}
	return nil
}
