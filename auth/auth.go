// Copyright (c) 2025 Biovote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrInvalidPassword = errors.New("invalid admin password")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CheckAdminPassword compares the submitted password against the configured
// credential in constant time.
func CheckAdminPassword(submitted, configured string) error {
	if configured == "" {
		return ErrInvalidPassword
	}
	if !hmac.Equal([]byte(submitted), []byte(configured)) {
		return ErrInvalidPassword
	}
	return nil
}
