package massunpack

// TruncateRight keeps the runes of text that start within its first n bytes.
func TruncateRight(text string, n int) string {
	return TruncateRightWithSuffix(text, n, "")
}

// TruncateRightWithSuffix keeps the runes of text that start within its first n bytes and only appends the suffix if
// truncation happens.
//
// A multibyte rune is never split so the result may be a few bytes longer than n plus the suffix.
func TruncateRightWithSuffix(text string, n int, suffix string) string {
	if len(text) <= n {
		return text
	}
	if n <= 0 {
		return suffix
	}

	rs := make([]rune, 0, n)
	for i, r := range text {
		if i >= n {
			break
		}

		rs = append(rs, r)
	}

	return string(rs) + suffix
}
