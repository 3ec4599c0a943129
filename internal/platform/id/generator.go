package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque run identifiers for audit reports.
type Generator interface {
	NewRunID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewRunID returns "run-" plus 24 hex chars of entropy.
func (g *RandomGenerator) NewRunID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return "run-" + hex.EncodeToString(buf), nil
}
