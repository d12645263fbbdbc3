package main

import (
	"fmt"
	"io"

	"github.com/valyala/fastjson"
	"github.com/xsscx/xnuimagetools/inject"
)

func writeText(w io.Writer, results []inject.Result) error {
	for _, result := range results {
		_, err := fmt.Fprintf(w, "Injection string found in %s (%s, bit %d): %q.",
			result.Path, result.Position, result.Match.BitOffset, result.Match.String)
		if err != nil {
			return err
		}

		if result.HighlightPath != "" {
			_, err = fmt.Fprintf(w, " Highlighted image saved to %s", result.HighlightPath)
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintln(w)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, results []inject.Result) error {
	var arena fastjson.Arena

	findings := arena.NewArray()

	for i, result := range results {
		finding := arena.NewObject()
		finding.Set("file", arena.NewString(result.Path))
		finding.Set("bits", arena.NewString(result.Position.String()))
		finding.Set("string", arena.NewString(result.Match.String))
		finding.Set("bit_offset", arena.NewNumberInt(result.Match.BitOffset))
		finding.Set("bit_length", arena.NewNumberInt(result.Match.BitLen))

		if result.HighlightPath != "" {
			finding.Set("highlighted", arena.NewString(result.HighlightPath))
		}

		findings.SetArrayItem(i, finding)
	}

	_, err := w.Write(append(findings.MarshalTo(nil), '\n'))

	return err
}
