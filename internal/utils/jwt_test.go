package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthToken("secret", 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	uid, err := VerifyAuthToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestVerifyAuthTokenRejects(t *testing.T) {
	t.Parallel()

	valid, err := NewAuthToken("secret", 7, time.Hour)
	require.NoError(t, err)
	expired, err := NewAuthToken("secret", 7, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "other-secret", valid.Token},
		{"expired", "secret", expired.Token},
		{"garbage", "secret", "not.a.jwt"},
		{"empty", "secret", ""},
		{"tampered", "secret", valid.Token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uid, err := VerifyAuthToken(tt.secret, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Zero(t, uid)
		})
	}
}

func TestNewAccountToken(t *testing.T) {
	t.Parallel()

	raw, hash, err := NewAccountToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashAccountToken(raw), hash)
	assert.NotEqual(t, raw, hash)

	raw2, _, err := NewAccountToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}
