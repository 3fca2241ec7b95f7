// Package id generates identifiers used across the server.
package id

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// guestAlphabet matches the base36 digits of the identifiers the web client
// used to mint in localStorage, so old and new guests look alike.
const guestAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Generate creates a prefixed NanoID, e.g. "sse-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// GuestIdentifier returns a reaction pseudo-identity of the form
// guest_<unix millis>_<9 base36 chars>.
func GuestIdentifier(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(guestAlphabet, 9)
	if err != nil {
		return "", fmt.Errorf("generate guest suffix: %w", err)
	}
	return "guest_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix, nil
}

// Row returns a new primary key for a backend row.
func Row() string {
	return uuid.NewString()
}
