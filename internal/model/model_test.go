package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Electronics", "electronics"},
		{"Home & Garden", "home--garden"},
		{"  Trimmed  ", "trimmed"},
		{"Ya_Existe Slug", "ya-existe-slug"},
		{"UPPER lower 123", "upper-lower-123"},
		{"---just-dashes---", "just-dashes"},
		{"señal", "seal"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestPageQueryDefaults(t *testing.T) {
	var p PageQuery
	require.False(t, p.Requested())
	require.Equal(t, 10, p.NormLimit())
	require.Equal(t, 0, p.Offset())

	p = PageQuery{Page: 3, Limit: 10}
	require.True(t, p.Requested())
	require.Equal(t, 20, p.Offset())

	p = PageQuery{Page: 1, Limit: 500}
	require.Equal(t, 100, p.NormLimit())
}
