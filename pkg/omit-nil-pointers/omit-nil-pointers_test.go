package omitnilpointers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOmitNilPointers(t *testing.T) {
	volume := 40
	var muted *bool

	got := OmitNilPointers(map[string]any{
		"volume":     &volume,
		"muted":      muted,
		"nothing":    nil,
		"updated_at": int64(12),
	})

	assert.Equal(t, map[string]any{
		"volume":     40,
		"updated_at": int64(12),
	}, got)
}
