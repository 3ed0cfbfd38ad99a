package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates prefix-tagged ULID IDs, e.g. "ord_01J...". The
// prefix makes an id self-describing in logs and support conversations.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new prefixed ULID.
func (g *ULIDGenerator) Generate(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}
