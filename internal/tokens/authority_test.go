package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint_LengthAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := Mint()
		require.NoError(t, err)
		assert.Len(t, token, tokenBytes*2) // hex кодирование
		assert.False(t, seen[token], "duplicate token minted")
		seen[token] = true
	}
}

func TestMintTriple_AllDistinct(t *testing.T) {
	triple, err := MintTriple()
	require.NoError(t, err)

	assert.NotEmpty(t, triple.Confirm)
	assert.NotEmpty(t, triple.Cancel)
	assert.NotEmpty(t, triple.Reschedule)

	assert.NotEqual(t, triple.Confirm, triple.Cancel)
	assert.NotEqual(t, triple.Confirm, triple.Reschedule)
	assert.NotEqual(t, triple.Cancel, triple.Reschedule)
}

func TestMatches(t *testing.T) {
	token, err := Mint()
	require.NoError(t, err)

	assert.True(t, Matches(token, token))
	assert.False(t, Matches(token, token+"x"))
	assert.False(t, Matches("", token))
	assert.False(t, Matches(token, ""))

	// Токен другого перехода не подходит
	other, err := Mint()
	require.NoError(t, err)
	assert.False(t, Matches(other, token))
}
