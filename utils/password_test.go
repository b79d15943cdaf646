package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	stored, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Secret1", stored))
	assert.False(t, CheckPasswordHash("Secret2", stored))
	assert.False(t, CheckPasswordHash("", stored))
}

func TestHashPasswordStoredFormat(t *testing.T) {
	stored, err := HashPassword("Sporting@2020")
	require.NoError(t, err)

	hashPart, saltPart, ok := strings.Cut(stored, ".")
	require.True(t, ok, "stored form must be hash.salt")
	assert.Len(t, hashPart, scryptKeyLen*2)
	assert.Len(t, saltPart, saltLen*2)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("same-password", first))
	assert.True(t, CheckPasswordHash("same-password", second))
}

func TestCheckPasswordHashMalformedStored(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"deadbeef.",
		".deadbeef",
		"zz.zz",
		"deadbeef.salt-not-hex",
	}
	for _, stored := range cases {
		assert.False(t, CheckPasswordHash("anything", stored), "stored=%q", stored)
	}
}
