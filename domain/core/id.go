package core

import (
	"strings"

	"github.com/google/uuid"
)

// LoadID identifies one load of the two source tables
type LoadID string

// NewLoadID creates a new time-ordered identifier (UUID v7, v4 as fallback)
func NewLoadID() LoadID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return LoadID(id.String())
}

// String returns the string representation
func (id LoadID) String() string {
	return string(id)
}

// Short returns the last 8 characters, enough to tell loads apart in the sidebar
func (id LoadID) Short() string {
	s := string(id)
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}

// IsEmpty checks if the ID is empty
func (id LoadID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}
