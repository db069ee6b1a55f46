package todo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator supplies task identifiers. Implementations must not repeat an
// id within the lifetime of a store.
type IDGenerator interface {
	NextID() string
}

// SequentialIDs yields T001, T002, ... using a monotonic counter.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequentialIDs returns a counter-backed generator. An empty prefix
// defaults to "T".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "T"
	}
	return &SequentialIDs{prefix: prefix, next: 1}
}

// NextID returns the next id in sequence.
func (g *SequentialIDs) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s%03d", g.prefix, g.next)
	g.next++
	return id
}

// UUIDs yields random version 4 UUID strings.
type UUIDs struct{}

// NewUUIDs returns a UUID-backed generator.
func NewUUIDs() UUIDs { return UUIDs{} }

// NextID returns a fresh UUID.
func (UUIDs) NextID() string {
	return uuid.NewString()
}

// NewIDGenerator returns the generator for an id style name:
// "sequential" (default) or "uuid".
func NewIDGenerator(style, prefix string) (IDGenerator, error) {
	switch style {
	case "", "sequential":
		return NewSequentialIDs(prefix), nil
	case "uuid":
		return NewUUIDs(), nil
	default:
		return nil, fmt.Errorf("unknown id style %q, must be one of: sequential, uuid", style)
	}
}
