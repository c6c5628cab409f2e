package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new time-ordered identifier. IDs generated later
// compare greater, which keeps bid and proxy rows in insertion order.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
