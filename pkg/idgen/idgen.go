// Package idgen provides ID generators for memory entries.
//
// Backends assign an ID through a Generator when an entry is stored without
// one. Three schemes are available: snowflake (the default, time-ordered
// 64-bit IDs rendered in decimal), uuid (random v4) and nanoid (21-character
// URL-safe).
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Scheme names an ID generation scheme.
type Scheme string

const (
	SchemeSnowflake Scheme = "snowflake"
	SchemeUUID      Scheme = "uuid"
	SchemeNanoID    Scheme = "nanoid"
)

// Generator produces unique entry IDs. Implementations are safe for
// concurrent use.
type Generator interface {
	NewID() string
}

// New returns a generator for the scheme.
//
// Parameters:
//   - scheme: The ID scheme; empty means SchemeSnowflake
//   - node: The snowflake node number (0-1023), ignored by other schemes
//
// Returns an error for an unknown scheme or an out-of-range node.
func New(scheme Scheme, node int64) (Generator, error) {
	switch scheme {
	case "", SchemeSnowflake:
		return NewSnowflake(node)
	case SchemeUUID:
		return UUID{}, nil
	case SchemeNanoID:
		return NanoID{}, nil
	default:
		return nil, fmt.Errorf("idgen: unknown scheme %q", scheme)
	}
}

// Default returns a snowflake generator on node 1.
func Default() Generator {
	g, err := NewSnowflake(1)
	if err != nil {
		// Node 1 is always in range.
		panic(err)
	}
	return g
}

// Snowflake generates time-ordered snowflake IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a snowflake generator for the given node.
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("idgen: snowflake node: %w", err)
	}
	return &Snowflake{node: n}, nil
}

// NewID returns the next snowflake ID in decimal form.
func (s *Snowflake) NewID() string {
	return s.node.Generate().String()
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// NanoID generates 21-character nanoids.
type NanoID struct{}

// NewID returns a new nanoid, falling back to a UUID if the system random
// source fails.
func (NanoID) NewID() string {
	id, err := gonanoid.New()
	if err != nil {
		return uuid.NewString()
	}
	return id
}
