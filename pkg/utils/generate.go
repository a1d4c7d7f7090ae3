package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDString returns a random (v4) UUID, used for booking and request ids.
func GenerateUUIDString() string {
	return uuid.New().String()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}
