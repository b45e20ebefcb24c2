package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for tables, columns and indexes. A generator
// belongs to a single parse call.
type IDGenerator interface {
	NewID(kind string) string
}

const (
	IDsSequential = "sequential"
	IDsUUID       = "uuid"
)

// NewIDGenerator returns a fresh generator of the named kind. An empty kind is sequential.
func NewIDGenerator(kind string) (IDGenerator, error) {
	switch kind {
	case "", IDsSequential:
		return &SequentialIDs{}, nil
	case IDsUUID:
		return UUIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown ID generator %q (expected %s or %s)", kind, IDsSequential, IDsUUID)
	}
}

// SequentialIDs numbers each kind from 1: table_1, column_1, column_2, ...
type SequentialIDs struct {
	counters map[string]int
}

func (s *SequentialIDs) NewID(kind string) string {
	if s.counters == nil {
		s.counters = map[string]int{}
	}
	s.counters[kind]++
	return fmt.Sprintf("%s_%d", kind, s.counters[kind])
}

type UUIDs struct{}

func (UUIDs) NewID(string) string {
	return uuid.NewString()
}
