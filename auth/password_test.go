package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestNewHasher_CostBounds(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{"default", DefaultCost, false},
		{"min", bcrypt.MinCost, false},
		{"max", bcrypt.MaxCost, false},
		{"too low", bcrypt.MinCost - 1, true},
		{"too high", bcrypt.MaxCost + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHasher(tt.cost)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, h)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	h := newTestHasher(t)

	for _, pw := range []string{"hunter2", "correct horse battery staple", "ünïcødé", " "} {
		hashed, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hashed)
		assert.True(t, h.Verify(pw, hashed), "password %q should verify", pw)
		assert.False(t, h.Verify(pw+"x", hashed))
	}
}

func TestHasher_DifferentPasswordsDoNotVerify(t *testing.T) {
	h := newTestHasher(t)

	hashed, err := h.Hash("alpha")
	require.NoError(t, err)
	assert.False(t, h.Verify("beta", hashed))
	assert.False(t, h.Verify("", hashed))
}

func TestHasher_SaltedOutput(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same-password", first))
	assert.True(t, h.Verify("same-password", second))
}

func TestHasher_UsesConfiguredCost(t *testing.T) {
	h, err := NewHasher(DefaultCost)
	require.NoError(t, err)

	hashed, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHasher_MalformedHashNeverMatches(t *testing.T) {
	h := newTestHasher(t)

	for _, stored := range []string{"", "plaintext", "$2a$04$short", "hunter2"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("hunter2", stored), "stored %q", stored)
		})
	}
}
