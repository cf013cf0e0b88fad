package shortener

import (
	"context"
	"fmt"
	"sync"
)

// SequenceGenerator is a deterministic generator for tests. It yields the
// configured codes in order and repeats the last one once they run out; with
// no codes configured it yields test0001, test0002, ...
type SequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

// NewSequenceGenerator creates a sequence generator
func NewSequenceGenerator(codes ...string) *SequenceGenerator {
	return &SequenceGenerator{codes: codes}
}

// GenerateShortCode returns the next code of the sequence
func (g *SequenceGenerator) GenerateShortCode(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if len(g.codes) == 0 {
		return fmt.Sprintf("test%04d", g.calls), nil
	}
	i := g.calls - 1
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	return g.codes[i], nil
}

// Calls returns how many codes were generated
func (g *SequenceGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Type returns the generator type
func (g *SequenceGenerator) Type() string {
	return "sequence"
}

// Close performs cleanup
func (g *SequenceGenerator) Close() error {
	return nil
}

var _ Generator = (*SequenceGenerator)(nil)
