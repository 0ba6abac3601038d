package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist(t *testing.T) {
	list := NewAllowlist([]int64{42, 7})

	assert.True(t, list.Allowed(42))
	assert.True(t, list.Allowed(7))
	assert.False(t, list.Allowed(8))
	assert.NoError(t, list.Check(7))
	assert.ErrorIs(t, list.Check(8), ErrUnauthorized)
}

func TestEmptyAllowlistRejectsEveryone(t *testing.T) {
	assert.False(t, NewAllowlist(nil).Allowed(0))

	var list *Allowlist
	assert.False(t, list.Allowed(42))
}
