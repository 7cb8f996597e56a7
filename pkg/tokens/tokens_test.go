package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() Identity {
	return Identity{
		ID:    uuid.NewString(),
		Email: "sommelier@example.com",
		Name:  "Sommelier",
		Role:  "user",
	}
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	id := testIdentity()

	token, exp, err := iss.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.Equal(t, id.ID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultTTL, NewIssuer([]byte("s"), 0).TTL())
}

func TestIssuer_VerifyExpired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := iss.Issue(testIdentity())
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestIssuer_VerifyRejects(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	token, _, err := iss.Issue(testIdentity())
	require.NoError(t, err)

	other := NewIssuer([]byte("other-secret"), time.Hour)
	foreign, _, err := other.Issue(testIdentity())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "tampered signature", token: tampered},
		{name: "foreign secret", token: foreign},
		{name: "alg none", token: unsigned},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := iss.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
