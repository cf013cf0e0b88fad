package shortener

import (
	"context"
	"testing"
)

func TestNewGenerator(t *testing.T) {
	testCases := []struct {
		name           string
		config         Config
		expectedType   string
		expectedLength int
		shouldError    bool
	}{
		{
			name:           "Default config",
			config:         DefaultConfig(),
			expectedType:   TypeRandom,
			expectedLength: 7,
		},
		{
			name:           "Longer codes",
			config:         Config{CodeLength: 12, MaxAttempts: 3},
			expectedType:   TypeRandom,
			expectedLength: 12,
		},
		{
			name:        "Zero length",
			config:      Config{CodeLength: 0, MaxAttempts: 3},
			shouldError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			generator, err := NewGenerator(tc.config)

			if tc.shouldError {
				if err == nil {
					t.Error("Expected error, got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewGenerator failed: %v", err)
			}
			defer generator.Close()

			if generator.Type() != tc.expectedType {
				t.Errorf("Expected generator type %s, got %s", tc.expectedType, generator.Type())
			}

			code, err := generator.GenerateShortCode(context.Background())
			if err != nil {
				t.Fatalf("GenerateShortCode failed: %v", err)
			}
			if len(code) != tc.expectedLength {
				t.Errorf("Expected code length %d, got %d", tc.expectedLength, len(code))
			}
		})
	}
}

func TestNewAllocatorFromConfig(t *testing.T) {
	store := newFakeStore()

	allocator, err := NewAllocatorFromConfig(DefaultConfig(), store, nil, nil)
	if err != nil {
		t.Fatalf("NewAllocatorFromConfig failed: %v", err)
	}
	defer allocator.Close()

	if allocator.MaxAttempts() != DefaultMaxAttempts {
		t.Errorf("Expected %d attempts, got %d", DefaultMaxAttempts, allocator.MaxAttempts())
	}

	t.Run("Without store fails", func(t *testing.T) {
		if _, err := NewAllocatorFromConfig(DefaultConfig(), nil, nil, nil); err == nil {
			t.Error("Expected error when creating allocator without store")
		}
	})

	t.Run("Without attempts fails", func(t *testing.T) {
		if _, err := NewAllocatorFromConfig(Config{CodeLength: 7}, store, nil, nil); err == nil {
			t.Error("Expected error when max attempts is zero")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CodeLength != 7 {
		t.Errorf("Expected default code length 7, got %d", config.CodeLength)
	}
	if config.MaxAttempts != 10 {
		t.Errorf("Expected default max attempts 10, got %d", config.MaxAttempts)
	}
}
