// Package filename turns raw ZIP entry names into text.
//
// ZIP archives created by legacy tools often store names in the code page of the machine that created them without
// setting the UTF-8 flag, while other tools double-encode UTF-8 names as if they were Latin-1. Decode recovers a
// best-effort name from either case and never fails: bytes that no candidate encoding accepts are turned into a
// synthesized ASCII name instead.
package filename

import (
	"bytes"
	"encoding/hex"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// UnknownPrefix prefixes the names synthesized for undecodable bytes.
const UnknownPrefix = "unknown_"

// Name is the result of Decode.
type Name struct {
	// Text is the decoded name.
	Text string
	// Encoding is the name of the candidate encoding that was used, or empty if no candidate was usable and Text was
	// synthesized from the raw bytes.
	Encoding string
	// Repaired is true if mojibake repair changed the text.
	Repaired bool
}

// Candidate is an encoding that Decode may try.
type Candidate struct {
	Name string
	// Decoding is nil for UTF-8.
	Decoding encoding.Encoding
	// Cyrillic marks code pages that decode most byte strings into plausible Cyrillic text, so that the first
	// plausible one is not necessarily right. Decode compares them with CyrillicScore.
	Cyrillic bool
}

// Candidates are tried by Decode in this order.
var Candidates = []Candidate{
	{Name: "utf-8"},
	{Name: "cp866", Decoding: charmap.CodePage866, Cyrillic: true},
	{Name: "cp1251", Decoding: charmap.Windows1251, Cyrillic: true},
	{Name: "latin1", Decoding: charmap.ISO8859_1},
}

// Decode decodes the raw name of an archive entry.
//
// The Candidates are tried in order, the first one that decodes raw without error into a Plausible string wins. If
// that candidate is Cyrillic, the later Cyrillic candidates are decoded as well and the one with the highest
// CyrillicScore wins instead, ties going to the earlier candidate. If UTF-8 wins, RepairMojibake is applied to the
// result. If no candidate wins, the name is synthesized from the hex digest of raw with UnknownPrefix and
// Name.Encoding is empty.
//
// Lowercase CP1251 names made only of the letters а to п remain ambiguous: CP866 reads the same bytes as the letters
// р to я, and CP866 is preferred.
func Decode(raw []byte) Name {
	for i, c := range Candidates {
		text, ok := c.accept(raw)
		if !ok {
			continue
		}

		if c.Cyrillic {
			best := CyrillicScore(text)
			for _, rival := range Candidates[i+1:] {
				if !rival.Cyrillic {
					continue
				}

				if t, ok := rival.accept(raw); ok {
					if score := CyrillicScore(t); score > best {
						c, text, best = rival, t, score
					}
				}
			}
		}

		if c.Decoding != nil {
			return Name{Text: text, Encoding: c.Name}
		}

		fixed, repaired := RepairMojibake(text)
		return Name{Text: fixed, Encoding: c.Name, Repaired: repaired}
	}

	return Name{Text: Synthesize(raw)}
}

// accept decodes raw and checks that the result is Plausible.
func (c Candidate) accept(raw []byte) (string, bool) {
	text, ok := c.decode(raw)
	return text, ok && Plausible(text)
}

func (c Candidate) decode(raw []byte) (string, bool) {
	if c.Decoding == nil {
		return string(raw), utf8.Valid(raw)
	}

	b, err := c.Decoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}

	// charmap decoders map bytes that are undefined in the code page to U+FFFD instead of returning an error.
	if !utf8.Valid(b) || bytes.ContainsRune(b, utf8.RuneError) {
		return "", false
	}

	return string(b), true
}

// CyrillicScore rates how much s looks like Russian text: each letter of the modern Russian alphabet (А to я, Ё, ё)
// counts for one point and every other non-ASCII rune costs one point. ASCII runes are neutral.
func CyrillicScore(s string) (score int) {
	for _, r := range s {
		switch {
		case r >= 'А' && r <= 'я', r == 'Ё', r == 'ё':
			score++
		case r >= utf8.RuneSelf:
			score--
		}
	}

	return
}

// Synthesize returns a deterministic ASCII name for raw bytes that could not be decoded.
func Synthesize(raw []byte) string {
	h := hex.EncodeToString(raw)
	if len(h) > 32 {
		h = h[:32]
	}

	return UnknownPrefix + h
}

// RepairMojibake undoes UTF-8 text that was wrongly decoded as Latin-1.
//
// The text is re-encoded to Latin-1 bytes which are then decoded as UTF-8. If the re-encoding fails because the text
// has a rune at or above U+0100, or if the bytes are not valid UTF-8, the original text is returned unchanged along
// with false.
func RepairMojibake(s string) (string, bool) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil || !utf8.Valid(b) {
		return s, false
	}

	if fixed := string(b); fixed != s {
		return fixed, true
	}

	return s, false
}

// Plausible reports whether the decoded text looks like a real file name.
//
// The text must contain no NUL and no box-drawing or block-element runes (U+2500 to U+259F, which single-byte DOS
// code pages produce when fed bytes from another code page), and it must either be entirely printable or contain at
// least one non-ASCII rune.
func Plausible(s string) bool {
	printable, nonASCII := true, false
	for _, r := range s {
		switch {
		case r == 0:
			return false
		case r >= 0x2500 && r <= 0x259F:
			return false
		case r >= utf8.RuneSelf:
			nonASCII = true
		}

		if !unicode.IsPrint(r) {
			printable = false
		}
	}

	return printable || nonASCII
}
