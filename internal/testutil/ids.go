package testutil

// FixedIDGenerator generates the same id every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// a locally generated session id appears byte-identical across runs.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed id generator.
//
// If id is empty, Generate() returns "test-session-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
//
// Implements wizard.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
