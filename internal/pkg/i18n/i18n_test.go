package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	require.NoError(t, Init("en"))

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"id-ID,id;q=0.9,en;q=0.8", "id"},
		{"en-US", "en"},
		{"fr-FR", "en"},
		{"not a header;;", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.header), "header %q", tt.header)
	}
}

func TestT(t *testing.T) {
	require.NoError(t, Init("en"))

	ctx := context.Background()
	assert.Equal(t, "already checked in today", T(ctx, "already_checked_in", "x"))
	assert.Equal(t, "sudah melakukan check-in hari ini", T(WithLocale(ctx, "id"), "already_checked_in", "x"))
	assert.Equal(t, "fallback", T(ctx, "no_such_message", "fallback"))
}
