package shortener

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the set of symbols random codes are drawn from
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// RandomGenerator draws each symbol uniformly from Alphabet using crypto/rand
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator producing codes of the given length
func NewRandomGenerator(length int) *RandomGenerator {
	return &RandomGenerator{length: length}
}

// GenerateShortCode returns a random candidate code
func (g *RandomGenerator) GenerateShortCode(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	code := make([]byte, g.length)
	for i := range code {
		// rand.Int samples uniformly in [0, 62), so there is no modulo bias
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		code[i] = Alphabet[n.Int64()]
	}

	return string(code), nil
}

// Length returns the length of generated codes
func (g *RandomGenerator) Length() int {
	return g.length
}

// Type returns the generator type
func (g *RandomGenerator) Type() string {
	return TypeRandom
}

// Close performs cleanup
func (g *RandomGenerator) Close() error {
	return nil
}

// Ensure RandomGenerator implements Generator interface
var _ Generator = (*RandomGenerator)(nil)
