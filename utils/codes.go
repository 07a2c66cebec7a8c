package utils

import (
	"crypto/rand"
	"fmt"
)

// confirmationAlphabet is uppercase alphanumeric. Codes are not guaranteed
// globally unique; collisions are practically improbable at 8 characters, and
// callers needing strict uniqueness add a repository-level constraint.
const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ConfirmationCodeLength is the length of generated booking confirmation codes.
const ConfirmationCodeLength = 8

// GenerateConfirmationCode returns a secure random 8-character uppercase
// alphanumeric booking code.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, ConfirmationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}
	return string(buf), nil
}
