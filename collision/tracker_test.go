package collision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTracker_Check(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		first  string
		second string
		want   Status
	}{
		{
			name:   "size: different sizes conflict",
			method: MethodSize,
			first:  "AAAAAAAAAA",
			second: "BBBB",
			want:   Conflicting,
		},
		{
			// documented imprecision: same size is assumed identical without looking at content.
			name:   "size: same size different content is identical",
			method: MethodSize,
			first:  "AAAAAAAAAA",
			second: "BBBBBBBBBB",
			want:   Identical,
		},
		{
			name:   "hash-fast: same content is identical",
			method: MethodFast,
			first:  "AAAAAAAAAA",
			second: "AAAAAAAAAA",
			want:   Identical,
		},
		{
			name:   "hash-fast: same size different content conflicts",
			method: MethodFast,
			first:  "AAAAAAAAAA",
			second: "BBBBBBBBBB",
			want:   Conflicting,
		},
		{
			name:   "hash-sha256: same content is identical",
			method: MethodSHA256,
			first:  "hello",
			second: "hello",
			want:   Identical,
		},
		{
			name:   "hash-sha256: same size different content conflicts",
			method: MethodSHA256,
			first:  "hello",
			second: "world",
			want:   Conflicting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dir := context.Background(), t.TempDir()

			tracker, err := NewTracker(tt.method)
			require.NoError(t, err)

			status, err := tracker.Check(ctx, "data/x.txt", writeFile(t, dir, "first", tt.first))
			require.NoError(t, err)
			assert.Equal(t, New, status)

			status, err = tracker.Check(ctx, "data/x.txt", writeFile(t, dir, "second", tt.second))
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)

			// the first record is never replaced by Check.
			rec, ok := tracker.Lookup("data/x.txt")
			require.True(t, ok)
			assert.Equal(t, int64(len(tt.first)), rec.Size)
		})
	}
}

func TestTracker_Check_fingerprintPolicy(t *testing.T) {
	ctx, dir := context.Background(), t.TempDir()
	name := writeFile(t, dir, "a", "content")

	tracker, err := NewTracker(MethodSize)
	require.NoError(t, err)
	_, err = tracker.Check(ctx, "a", name)
	require.NoError(t, err)
	rec, _ := tracker.Lookup("a")
	assert.Equal(t, "", rec.Fingerprint)

	tracker, err = NewTracker(MethodSHA256)
	require.NoError(t, err)
	_, err = tracker.Check(ctx, "a", name)
	require.NoError(t, err)
	rec, _ = tracker.Lookup("a")
	assert.Equal(t, "sha256-ed7002b439e9ac845f22357d822bac1444730fbdb6016d3ec9432297b9ec9f73", rec.Fingerprint)

	tracker, err = NewTracker(MethodFast)
	require.NoError(t, err)
	_, err = tracker.Check(ctx, "a", name)
	require.NoError(t, err)
	rec, _ = tracker.Lookup("a")
	assert.Regexp(t, `^xxh64-[0-9a-f]{16}$`, rec.Fingerprint)
}

func TestTracker_Check_adoptsFilesOnDisk(t *testing.T) {
	ctx, root, staging := context.Background(), t.TempDir(), t.TempDir()
	writeFile(t, root, "data/x.txt", "AAAAAAAAAA")

	tracker, err := NewTracker(MethodFast, func(opts *Options) {
		opts.Root = root
	})
	require.NoError(t, err)

	status, err := tracker.Check(ctx, "data/x.txt", writeFile(t, staging, "same", "AAAAAAAAAA"))
	require.NoError(t, err)
	assert.Equal(t, Identical, status)

	status, err = tracker.Check(ctx, "data/x.txt", writeFile(t, staging, "other", "BBBBBBBBBB"))
	require.NoError(t, err)
	assert.Equal(t, Conflicting, status)

	// a directory where a file wants to go is always a conflict.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0755))
	status, err = tracker.Check(ctx, "dir", writeFile(t, staging, "f", "x"))
	require.NoError(t, err)
	assert.Equal(t, Conflicting, status)
}

func TestTracker_RegisterForgetReserve(t *testing.T) {
	ctx, root := context.Background(), t.TempDir()

	tracker, err := NewTracker(MethodFast, func(opts *Options) {
		opts.Root = root
	})
	require.NoError(t, err)

	name := writeFile(t, root, "data/x.txt", "AAAAAAAAAA")
	status, err := tracker.Check(ctx, "data/x.txt", name)
	require.NoError(t, err)
	assert.Equal(t, Identical, status, "the file is adopted from disk first")

	alt, err := tracker.Reserve("data/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "data/x-1.txt", alt)

	// the reservation holds even though nothing is on disk yet.
	alt2, err := tracker.Reserve("data/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "data/x-2.txt", alt2)
	tracker.Forget(alt2)

	_, ok := tracker.Lookup(alt)
	assert.False(t, ok)

	require.NoError(t, tracker.Register(ctx, alt, writeFile(t, root, alt, "BBBBBBBBBB")))
	rec, ok := tracker.Lookup(alt)
	require.True(t, ok)
	assert.Equal(t, int64(10), rec.Size)
	assert.Equal(t, 2, tracker.Len())

	tracker.Forget(alt)
	_, ok = tracker.Lookup(alt)
	assert.False(t, ok)
	assert.Equal(t, 1, tracker.Len())
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"size", "hash-sha256", "hash-fast"} {
		m, err := ParseMethod(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}

	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodFast, m)

	_, err = ParseMethod("md5")
	assert.Error(t, err)

	var flagged Method
	require.NoError(t, flagged.UnmarshalFlag("size"))
	assert.Equal(t, MethodSize, flagged)
}
