package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClaims(t *testing.T) {
	ident, err := FromClaims("uid-1", map[string]any{
		"email":   "ana@example.com",
		"name":    "Ana",
		"picture": "https://img/ana.png",
	})
	require.NoError(t, err)
	assert.Equal(t, &Identity{UID: "uid-1", Email: "ana@example.com", Name: "Ana", Picture: "https://img/ana.png"}, ident)

	ident, err = FromClaims("uid-2", map[string]any{"email": "bob@example.com"})
	require.NoError(t, err)
	assert.Empty(t, ident.Name)

	_, err = FromClaims("uid-3", map[string]any{"phone_number": "+15550100"})
	assert.ErrorIs(t, err, ErrNoEmail)

	_, err = FromClaims("uid-4", map[string]any{"email": 42})
	assert.ErrorIs(t, err, ErrNoEmail)
}
