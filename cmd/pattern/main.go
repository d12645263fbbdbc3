// pattern generates cyclic pattern strings and finds the offset of
// pattern fragments. Useful for understanding how a fuzzed input
// overwrites process state (e.g., finding which offset of an input
// ended up in the program counter after a crash).
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/cli/v2"
	log "github.com/schollz/logger"
	"github.com/xsscx/xnuimagetools/pattern"
)

const (
	appName = "pattern"

	// visualContext is the number of pattern bytes shown
	// on either side of a match.
	visualContext = 16
)

func main() {
	err := newApp(os.Stdout).Run(os.Args)
	if err != nil {
		log.Errorf("fatal: %s", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      appName,
		Usage:     "generate cyclic patterns and find fragment offsets",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.SetLevel("debug")
			} else {
				log.SetLevel("info")
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "write a pattern string to stdout",
				ArgsUsage: "LENGTH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "hex",
						Usage: "hex encode the pattern",
					},
					&cli.BoolFlag{
						Name:    "no-newline",
						Aliases: []string{"n"},
						Usage:   "do not append a new line character to the output",
					},
				},
				Action: create,
			},
			{
				Name:      "offset",
				Usage:     "find the offset of a fragment in the pattern",
				ArgsUsage: "FRAGMENT (raw, 0x-prefixed hex, or \\x-escaped hex)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "reverse",
						Aliases: []string{"r"},
						Usage:   "reverse the fragment's endianness",
					},
					&cli.BoolFlag{
						Name:  "retry",
						Usage: "repeatedly try shortening the fragment if it is not found in the pattern",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "only output the range without any visualization",
					},
					&cli.IntFlag{
						Name:  "length",
						Value: pattern.MaxLen,
						Usage: "length of the pattern the fragment came from",
					},
				},
				Action: offset,
			},
		},
	}
}

func create(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("please specify the pattern length")
	}

	length, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to parse pattern length - %w", err)
	}

	p, err := pattern.Generate(length)
	if err != nil {
		return err
	}

	log.Debugf("generated %d byte pattern", len(p))

	out := string(p)
	if c.Bool("hex") {
		out = hex.EncodeToString(p)
	}

	if !c.Bool("no-newline") {
		out += "\n"
	}

	_, err = io.WriteString(c.App.Writer, out)

	return err
}

func offset(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("please specify a fragment string")
	}

	fragment, err := pattern.ParseFragment(c.Args().First())
	if err != nil {
		return err
	}

	if c.Bool("reverse") {
		fragment = pattern.Reverse(fragment)
	}

	p, err := pattern.Generate(c.Int("length"))
	if err != nil {
		return err
	}

	match, err := findFragment(p, fragment, c.Bool("retry"))
	if err != nil {
		return err
	}

	w := c.App.Writer

	if c.Bool("quiet") {
		_, err = fmt.Fprintln(w, match.String())
		return err
	}

	start := match.Index - visualContext
	if start < 0 {
		start = 0
	}

	end := match.End() + visualContext
	if end > len(p) {
		end = len(p)
	}

	spaces := strings.Repeat(" ", match.Index-start)

	_, err = fmt.Fprintf(w, "%s\n%s%s\n%s%s\n",
		p[start:end],
		spaces, strings.Repeat("^", match.Len),
		spaces, match.String())

	return err
}

// findFragment decodes the fragment's offset directly, and falls
// back to a substring search when the fragment does not contain
// a complete block.
func findFragment(p []byte, fragment []byte, shorten bool) (pattern.Match, error) {
	index, err := pattern.Offset(fragment)
	if err == nil && index+len(fragment) <= len(p) {
		return pattern.Match{
			Index: index,
			Len:   len(fragment),
		}, nil
	}

	log.Debugf("failed to decode fragment (%v), searching the pattern instead", err)

	return pattern.Locate(p, fragment, shorten)
}
