package collision

import (
	"fmt"
)

// Method selects how two files at the same relative path are compared.
type Method string

const (
	// MethodSize compares only file sizes: two files of the same size are assumed identical.
	MethodSize Method = "size"
	// MethodSHA256 compares sizes then SHA-256 digests.
	MethodSHA256 Method = "hash-sha256"
	// MethodFast compares sizes then xxHash64 digests.
	MethodFast Method = "hash-fast"
)

// DefaultMethod is the Method used when none is specified.
const DefaultMethod = MethodFast

// Methods lists all valid methods.
var Methods = []Method{MethodSize, MethodSHA256, MethodFast}

// ParseMethod parses the string form of a Method.
//
// An empty string returns DefaultMethod.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case "":
		return DefaultMethod, nil
	case MethodSize, MethodSHA256, MethodFast:
		return m, nil
	default:
		return "", fmt.Errorf(`unknown collision method "%s", must be one of %v`, s, Methods)
	}
}

// UnmarshalFlag implements go-flags' Unmarshaler.
func (m *Method) UnmarshalFlag(value string) (err error) {
	*m, err = ParseMethod(value)
	return
}

func (m Method) String() string {
	return string(m)
}
