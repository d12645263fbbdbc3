package pattern

import (
	"bytes"
	"fmt"
)

// The pattern is a sequence of 4-byte blocks. Each block is an
// uppercase letter, a literal 'a', a digit, and a lowercase letter.
// Blocks are enumerated with the uppercase letter changing slowest
// and the lowercase letter changing fastest:
//
//	Aa0a Aa0b ... Aa0z Aa1a ... Aa9z Ba0a ... Za9z
const (
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	fillerChar = 'a'

	// BlockSize is the size of a single pattern block in bytes.
	BlockSize = 4

	// NumBlocks is the number of unique blocks in the pattern.
	NumBlocks = len(upperChars) * len(digitChars) * len(lowerChars)

	// MaxLen is the size of the longest pattern that can be
	// generated before blocks would start repeating.
	MaxLen = NumBlocks * BlockSize
)

// GenerateOrExit calls Generate and calls DefaultExitFn if an error occurs.
func GenerateOrExit(length int) []byte {
	p, err := Generate(length)
	if err != nil {
		DefaultExitFn(fmt.Errorf("pattern.cyclic: failed to generate pattern of size %d - %w",
			length, err))
	}

	return p
}

// Generate returns the first length bytes of the cyclic pattern.
//
// length must be within 0 and MaxLen (inclusive). ErrInvalidLength
// is returned for negative values and ErrOutOfRange for values
// greater than MaxLen.
func Generate(length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	if length > MaxLen {
		return nil, fmt.Errorf("%w: %d (max: %d)", ErrOutOfRange, length, MaxLen)
	}

	result := make([]byte, length)

	fill(result, 0)

	return result, nil
}

// Offset returns the absolute offset of fragment within the pattern.
//
// The fragment must contain at least one complete, aligned block.
// Any fragment of 2*BlockSize bytes or more satisfies this no matter
// where it was cut from.
func Offset(fragment []byte) (int, error) {
	fragmentLen := len(fragment)
	if fragmentLen < BlockSize {
		return 0, fmt.Errorf("%w: got %d bytes", ErrFragmentTooShort, fragmentLen)
	}

	// Only an aligned window can decode as a block: the byte that
	// follows an uppercase letter is never uppercase itself.
	for phase := 0; phase < BlockSize && phase+BlockSize <= fragmentLen; phase++ {
		index, ok := blockIndex(fragment[phase : phase+BlockSize])
		if !ok {
			continue
		}

		offset := index*BlockSize - phase
		if offset < 0 || offset+fragmentLen > MaxLen {
			continue
		}

		expected := make([]byte, fragmentLen)
		fill(expected, offset)

		if bytes.Equal(expected, fragment) {
			return offset, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrNotFound, fragment)
}

// BlockOffset decodes a single aligned block and returns its
// absolute offset within the pattern.
func BlockOffset(block []byte) (int, error) {
	if len(block) != BlockSize {
		return 0, fmt.Errorf("%w: got %d bytes", ErrFragmentTooShort, len(block))
	}

	index, ok := blockIndex(block)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a pattern block", ErrNotFound, block)
	}

	return index * BlockSize, nil
}

// fill writes the pattern bytes starting at the absolute
// offset into dst.
func fill(dst []byte, offset int) {
	var block [BlockSize]byte

	for i := 0; i < len(dst); {
		pos := offset + i

		putBlock(block[:], pos/BlockSize)

		i += copy(dst[i:], block[pos%BlockSize:])
	}
}

func putBlock(dst []byte, index int) {
	dst[0] = upperChars[index/(len(digitChars)*len(lowerChars))]
	dst[1] = fillerChar
	dst[2] = digitChars[(index/len(lowerChars))%len(digitChars)]
	dst[3] = lowerChars[index%len(lowerChars)]
}

func blockIndex(block []byte) (int, bool) {
	u, f, d, l := block[0], block[1], block[2], block[3]

	switch {
	case u < 'A' || u > 'Z':
		return 0, false
	case f != fillerChar:
		return 0, false
	case d < '0' || d > '9':
		return 0, false
	case l < 'a' || l > 'z':
		return 0, false
	}

	return int(u-'A')*len(digitChars)*len(lowerChars) +
		int(d-'0')*len(lowerChars) +
		int(l-'a'), true
}
