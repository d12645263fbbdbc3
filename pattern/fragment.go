package pattern

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseFragment converts a user-supplied fragment string into bytes.
//
// Strings starting with "0x" are hex-decoded. Strings containing
// "\x" escapes (e.g., "\x41\x61\x30\x61") are hex-decoded after
// the escape characters, quotes, and whitespace are removed.
// Anything else is used as-is.
func ParseFragment(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: fragment is empty", ErrInvalidFragment)
	}

	switch {
	case strings.HasPrefix(s, "0x"):
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to hex decode fragment - %v",
				ErrInvalidFragment, err)
		}

		return b, nil
	case strings.Contains(s, `\x`):
		hexASCII := strings.Map(func(r rune) rune {
			switch r {
			case 'x', '\\', '"', '\'', '\n', '\t', ' ':
				return -1
			}

			return r
		}, s)

		b, err := hex.DecodeString(hexASCII)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to hex decode escaped fragment - %v",
				ErrInvalidFragment, err)
		}

		return b, nil
	default:
		return []byte(s), nil
	}
}

// Reverse returns a copy of b with the byte order reversed.
// This is useful for converting a little endian register value
// into the byte order it had in memory.
func Reverse(b []byte) []byte {
	bLen := len(b)
	temp := make([]byte, bLen)

	for i := range b {
		temp[bLen-1-i] = b[i]
	}

	return temp
}

// Match describes where a fragment was found.
type Match struct {
	// Index is the offset of the fragment.
	Index int

	// Len is the number of fragment bytes that matched. It can be
	// less than the original fragment length when shortening was
	// required to find it.
	Len int
}

// End returns the offset of the byte after the match.
func (o Match) End() int {
	return o.Index + o.Len
}

func (o Match) String() string {
	return fmt.Sprintf("%d:%d (%d bytes)", o.Index, o.End(), o.Len)
}

// Locate finds fragment in haystack using a plain substring search.
//
// If shorten is true and the fragment is not found, the last byte
// of the fragment is removed and the search is repeated until only
// one byte remains.
func Locate(haystack []byte, fragment []byte, shorten bool) (Match, error) {
	if len(fragment) == 0 {
		return Match{}, fmt.Errorf("%w: fragment is empty", ErrInvalidFragment)
	}

	for {
		index := bytes.Index(haystack, fragment)
		if index >= 0 {
			return Match{
				Index: index,
				Len:   len(fragment),
			}, nil
		}

		if !shorten || len(fragment) == 1 {
			break
		}

		fragment = fragment[0 : len(fragment)-1]
	}

	return Match{}, fmt.Errorf("%w (hexdump of fragment:\n%s)",
		ErrNotFound, strings.TrimSpace(hex.Dump(fragment)))
}
