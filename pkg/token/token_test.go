package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		require.NoError(t, err)

		// 32 bytes of entropy, base64url, no padding.
		assert.Len(t, tok, 43)
		assert.NotContains(t, tok, "=")
		assert.False(t, seen[tok], "tokens must not repeat")
		seen[tok] = true
	}
}
