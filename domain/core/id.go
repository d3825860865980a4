package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SnapshotID identifies one persisted load of a dataset
type SnapshotID ID

func (id SnapshotID) String() string { return ID(id).String() }

// NewSnapshotID creates a time-ordered snapshot identifier
func NewSnapshotID() SnapshotID {
	return SnapshotID(NewID())
}

// ParseSnapshotID validates a snapshot identifier coming from a request
func ParseSnapshotID(s string) (SnapshotID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("snapshot ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid snapshot ID %q: %w", s, err)
	}
	return SnapshotID(s), nil
}
