package massunpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRightWithSuffix(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		n      int
		suffix string
		want   string
	}{
		{name: "short", text: "abc", n: 5, suffix: "...", want: "abc"},
		{name: "exact", text: "abcde", n: 5, suffix: "...", want: "abcde"},
		{name: "truncated", text: "abcdefgh", n: 5, suffix: "...", want: "abcde..."},
		{name: "multibyte is not split", text: "привет", n: 3, want: "пр"},
		{name: "zero", text: "abc", n: 0, suffix: "...", want: "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRightWithSuffix(tt.text, tt.n, tt.suffix))
		})
	}

	assert.Equal(t, "ab", TruncateRight("abc", 2))
}
