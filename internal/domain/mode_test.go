package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	require.Equal(t, ModeDark, Toggle(ModeLight))
	require.Equal(t, ModeLight, Toggle(ModeDark))
	require.Equal(t, ModeLight, Toggle(Toggle(ModeLight)))
	require.Equal(t, ModeLight, Toggle(Mode("sepia")))
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"light", ModeLight, true},
		{"dark", ModeDark, true},
		{"", "", false},
		{"Dark", "", false},
		{" light", "", false},
		{"blue", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.in)
		require.Equal(t, tc.ok, ok, "in=%q", tc.in)
		require.Equal(t, tc.want, got, "in=%q", tc.in)
	}
}
