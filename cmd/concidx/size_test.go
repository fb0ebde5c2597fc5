package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSizeUnits(t *testing.T) {
	cases := map[string]int{
		"64B":    64,
		"4KB":    4 * 1024,
		"1MB":    1024 * 1024,
		"1.5MB":  int(1.5 * 1024 * 1024),
		"2gb":    2 * 1024 * 1024 * 1024,
		"  8 KB": 8 * 1024,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestParseSizeRejectsUnknownUnit(t *testing.T) {
	_, err := parseSize("64TB")
	require.ErrorIs(t, err, ErrBadSize)
}

func TestParseSizeRejectsMissingMagnitude(t *testing.T) {
	_, err := parseSize("KB")
	require.ErrorIs(t, err, ErrBadSize)
}

func TestParseSizeRejectsNegative(t *testing.T) {
	_, err := parseSize("-1KB")
	require.ErrorIs(t, err, ErrBadSize)
}
