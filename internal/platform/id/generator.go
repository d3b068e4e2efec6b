// Package id generates the opaque public identifiers handed out at player
// registration.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 32-character hex ids from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(raw), nil
}
