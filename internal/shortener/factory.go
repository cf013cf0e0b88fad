package shortener

import (
	"fmt"
	"log/slog"

	"github.com/joshdurbin/minilink/internal/metrics"
)

// NewGenerator creates the random code generator described by config
func NewGenerator(config Config) (Generator, error) {
	if config.CodeLength < 1 {
		return nil, fmt.Errorf("code length must be positive, got %d", config.CodeLength)
	}

	return NewRandomGenerator(config.CodeLength), nil
}

// NewAllocatorFromConfig wires a random generator into an allocator
func NewAllocatorFromConfig(config Config, store CodeStore, m *metrics.Metrics, logger *slog.Logger) (*Allocator, error) {
	if store == nil {
		return nil, fmt.Errorf("code store required for allocator")
	}
	if config.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", config.MaxAttempts)
	}

	generator, err := NewGenerator(config)
	if err != nil {
		return nil, err
	}

	return NewAllocator(generator, store, config.MaxAttempts, m, logger), nil
}
