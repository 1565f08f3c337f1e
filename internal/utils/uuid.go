package utils

import "github.com/google/uuid"

// UUIDGenerator produces batch and conflict identifiers. UUIDv7 is
// preferred because its time-ordered prefix keeps index pages warm;
// a random UUIDv4 is the fallback when the system clock misbehaves.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
