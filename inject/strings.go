package inject

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultStrings are the injection strings planted by the fuzzer.
// The order matters: Search reports the first string that is found.
var DefaultStrings = []string{
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	"<script>console.error('XNU Image Fuzzer');</script>",
	"' OR ''='",
	"%d %s %d %s",
	"XNU Image Fuzzer",
	"123456; DROP TABLE users",
	"!@#$%^&*()_+=",
	"..//..//..//win",
	"\x00\x00\x00",
	`<?xml version="1.0"?><!DOCTYPE replace [<!ENTITY example "XNUImageFuzzer"> ]><userInfo><firstName>XNUImageFuzzer<&example;></firstName></userInfo>`,
}

// Match describes an injection string found in extracted data.
type Match struct {
	// String is the injection string.
	String string

	// BitOffset is the index of the string's first bit
	// among the extracted bits.
	BitOffset int

	// BitLen is the number of bits the string occupies.
	BitLen int
}

// Search looks for each of needles in data, in order, and returns
// the first one that is found.
func Search(data []byte, needles []string) (Match, bool) {
	for _, needle := range needles {
		if len(needle) == 0 {
			continue
		}

		index := bytes.Index(data, []byte(needle))
		if index < 0 {
			continue
		}

		return Match{
			String:    needle,
			BitOffset: index * 8,
			BitLen:    len(needle) * 8,
		}, true
	}

	return Match{}, false
}

// LoadStrings reads one injection string per line from r.
// Blank lines are skipped. Lines wrapped in double quotes
// are unquoted using Go syntax, which allows strings such
// as "\x00\x00\x00".
func LoadStrings(r io.Reader) ([]string, error) {
	var result []string

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		str := scanner.Text()
		if len(strings.TrimSpace(str)) == 0 {
			continue
		}

		if len(str) >= 2 && strings.HasPrefix(str, `"`) && strings.HasSuffix(str, `"`) {
			unquoted, err := strconv.Unquote(str)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote line %d - %w", line, err)
			}

			str = unquoted
		}

		result = append(result, str)
	}

	err := scanner.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}
