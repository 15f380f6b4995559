package keygen

import "github.com/google/uuid"

// UUIDGenerator issues opaque unique keys for ledger entities.
type UUIDGenerator struct{}

// New constructs the generator.
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a fresh UUID string.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
