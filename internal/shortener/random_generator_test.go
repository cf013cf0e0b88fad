package shortener

import (
	"context"
	"strings"
	"testing"
)

func TestRandomGenerator_GenerateShortCode(t *testing.T) {
	generator := NewRandomGenerator(DefaultCodeLength)
	defer generator.Close()

	ctx := context.Background()

	codes := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := generator.GenerateShortCode(ctx)
		if err != nil {
			t.Fatalf("GenerateShortCode failed: %v", err)
		}

		if len(code) != DefaultCodeLength {
			t.Errorf("Expected code length %d, got %d for code %s", DefaultCodeLength, len(code), code)
		}

		for _, char := range code {
			if !strings.ContainsRune(Alphabet, char) {
				t.Errorf("Code %s contains invalid character %c", code, char)
			}
		}

		// 62^7 possibilities make a repeat in 1000 draws practically impossible
		if codes[code] {
			t.Errorf("Duplicate code generated: %s", code)
		}
		codes[code] = true
	}
}

func TestRandomGenerator_UsesWholeAlphabet(t *testing.T) {
	generator := NewRandomGenerator(DefaultCodeLength)

	seen := make(map[rune]bool)
	for i := 0; i < 2000; i++ {
		code, err := generator.GenerateShortCode(context.Background())
		if err != nil {
			t.Fatalf("GenerateShortCode failed: %v", err)
		}
		for _, char := range code {
			seen[char] = true
		}
	}

	// 14000 draws over 62 symbols leave each one unseen with negligible probability
	if len(seen) != len(Alphabet) {
		t.Errorf("Expected all %d symbols to appear, saw %d", len(Alphabet), len(seen))
	}
}

func TestRandomGenerator_CanceledContext(t *testing.T) {
	generator := NewRandomGenerator(DefaultCodeLength)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := generator.GenerateShortCode(ctx); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestRandomGenerator_Type(t *testing.T) {
	generator := NewRandomGenerator(DefaultCodeLength)

	if generator.Type() != TypeRandom {
		t.Errorf("Expected type %q, got %q", TypeRandom, generator.Type())
	}
	if generator.Length() != DefaultCodeLength {
		t.Errorf("Expected length %d, got %d", DefaultCodeLength, generator.Length())
	}
}

func TestAlphabet(t *testing.T) {
	if len(Alphabet) != 62 {
		t.Fatalf("Expected 62 symbols, got %d", len(Alphabet))
	}

	seen := make(map[rune]bool)
	for _, char := range Alphabet {
		if seen[char] {
			t.Errorf("Duplicate symbol %c", char)
		}
		seen[char] = true
	}
}

func TestSequenceGenerator(t *testing.T) {
	ctx := context.Background()

	numbered := NewSequenceGenerator()
	for _, want := range []string{"test0001", "test0002"} {
		code, _ := numbered.GenerateShortCode(ctx)
		if code != want {
			t.Errorf("Expected %s, got %s", want, code)
		}
	}

	fixed := NewSequenceGenerator("one", "two")
	for _, want := range []string{"one", "two", "two"} {
		code, _ := fixed.GenerateShortCode(ctx)
		if code != want {
			t.Errorf("Expected %s, got %s", want, code)
		}
	}
	if fixed.Calls() != 3 {
		t.Errorf("Expected 3 calls, got %d", fixed.Calls())
	}
}
