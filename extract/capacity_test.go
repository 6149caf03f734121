package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCapacity(t *testing.T) {
	const MiB = 1024 * 1024

	tests := []struct {
		name          string
		required      uint64
		margin        uint64
		available     uint64
		wantOK        bool
		wantAvailable uint64
	}{
		{
			name:          "short once the margin is added",
			required:      500 * MiB,
			margin:        100 * MiB,
			available:     550 * MiB,
			wantOK:        false,
			wantAvailable: 550 * MiB,
		},
		{
			name:          "exactly enough",
			required:      500 * MiB,
			margin:        100 * MiB,
			available:     600 * MiB,
			wantOK:        true,
			wantAvailable: 600 * MiB,
		},
		{
			name:          "declared size near the uint64 limit",
			required:      math.MaxUint64 - 50*MiB,
			margin:        100 * MiB,
			available:     550 * MiB,
			wantOK:        false,
			wantAvailable: 550 * MiB,
		},
		{
			name:          "margin near the uint64 limit",
			required:      500 * MiB,
			margin:        math.MaxUint64 - 50*MiB,
			available:     550 * MiB,
			wantOK:        false,
			wantAvailable: 550 * MiB,
		},
		{
			name:          "empty archive",
			margin:        100 * MiB,
			available:     100 * MiB,
			wantOK:        true,
			wantAvailable: 100 * MiB,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, available, err := HasCapacity("/unused", tt.required, tt.margin, func(string) (uint64, error) {
				return tt.available, nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAvailable, available)
		})
	}
}

func TestHasCapacity_error(t *testing.T) {
	want := errors.New("boom")
	ok, _, err := HasCapacity("/unused", 0, 0, func(string) (uint64, error) {
		return 0, want
	})
	assert.False(t, ok)
	assert.ErrorIs(t, err, want)
}

func TestDiskFree(t *testing.T) {
	available, err := DiskFree(t.TempDir())
	if errors.Is(err, errors.ErrUnsupported) {
		t.Skip(err)
	}

	require.NoError(t, err)
	assert.Positive(t, available)

	_, err = DiskFree("/definitely/does/not/exist")
	assert.Error(t, err)
}

func TestAddSat(t *testing.T) {
	assert.Equal(t, uint64(3), addSat(1, 2))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64, 0))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64-1, 2))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64, math.MaxUint64))
}
