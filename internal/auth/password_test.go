package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	hasher := NewHasher(1000)

	encoded, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$pbkdf2-sha256$1000$"))
	assert.NotContains(t, encoded, "correct horse")

	ok, err := hasher.Verify("correct horse", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong horse", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsDiffer(t *testing.T) {
	hasher := NewHasher(1000)

	first, err := hasher.Hash("password123")
	require.NoError(t, err)
	second, err := hasher.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_DefaultIterations(t *testing.T) {
	hasher := NewHasher(0)
	assert.Equal(t, DefaultIterations, hasher.iterations)
}

func TestHasher_VerifyUsesEncodedIterations(t *testing.T) {
	encoded, err := NewHasher(500).Hash("password123")
	require.NoError(t, err)

	// A hasher configured differently still verifies older hashes
	ok, err := NewHasher(2000).Verify("password123", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_VerifyMalformed(t *testing.T) {
	hasher := NewHasher(1000)

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "plaintext", encoded: "password123"},
		{name: "wrong scheme", encoded: "$bcrypt$1000$c2FsdA$aGFzaA"},
		{name: "bad iterations", encoded: "$pbkdf2-sha256$abc$c2FsdA$aGFzaA"},
		{name: "zero iterations", encoded: "$pbkdf2-sha256$0$c2FsdA$aGFzaA"},
		{name: "bad salt", encoded: "$pbkdf2-sha256$1000$!!!$aGFzaA"},
		{name: "empty checksum", encoded: "$pbkdf2-sha256$1000$c2FsdA$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Verify("password123", tt.encoded)
			assert.Error(t, err)
			assert.False(t, ok)
		})
	}
}
