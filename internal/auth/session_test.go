package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshdurbin/minilink/internal/domain"
)

func TestSessions_IssueAndVerify(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sessions, err := NewSessions("test-secret", time.Hour, func() time.Time { return now })
	require.NoError(t, err)

	token, expiresAt, err := sessions.Issue(&domain.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	userID, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSessions_Expired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	sessions, err := NewSessions("test-secret", time.Hour, clock)
	require.NoError(t, err)

	token, _, err := sessions.Issue(&domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, IsExpired(err))
}

func TestSessions_WrongSecret(t *testing.T) {
	issuer, err := NewSessions("secret-one", time.Hour, nil)
	require.NoError(t, err)
	verifier, err := NewSessions("secret-two", time.Hour, nil)
	require.NoError(t, err)

	token, _, err := issuer.Issue(&domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, IsExpired(err))
}

func TestSessions_RejectsOtherAlgorithms(t *testing.T) {
	sessions, err := NewSessions("test-secret", time.Hour, nil)
	require.NoError(t, err)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = sessions.Verify(unsigned)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessions_Garbage(t *testing.T) {
	sessions, err := NewSessions("test-secret", time.Hour, nil)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := sessions.Verify(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "token %q", token)
	}
}

func TestSessions_BadSubject(t *testing.T) {
	sessions, err := NewSessions("test-secret", time.Hour, nil)
	require.NoError(t, err)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewSessions(t *testing.T) {
	_, err := NewSessions("", time.Hour, nil)
	assert.Error(t, err)

	sessions, err := NewSessions("secret", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, sessions.TTL())
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, UserID(ctx))

	ctx = WithUserID(ctx, 7)
	id := UserID(ctx)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)
}
