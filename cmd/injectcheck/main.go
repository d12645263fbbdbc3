// injectcheck searches fuzzed images for injection strings hidden in
// the least or most significant bits of their color channels, and
// saves copies of matching images with the carrying pixels painted red.
package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	stdlog "log"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/cli/v2"
	log "github.com/schollz/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/xsscx/xnuimagetools/inject"
	"golang.org/x/term"
)

const (
	appName = "injectcheck"

	bothPositions = "both"
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
		Usage:     "find injection strings hidden in fuzzed images",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "directory containing the images to check",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "directory to save highlighted images to (nothing is saved if empty)",
			},
			&cli.StringFlag{
				Name:  "bit",
				Value: bothPositions,
				Usage: "bit plane to check ('lsb', 'msb', or '" + bothPositions + "')",
			},
			&cli.StringFlag{
				Name:  "size",
				Value: "1024x1024",
				Usage: "size of highlighted images as WIDTHxHEIGHT ('0' keeps the original size)",
			},
			&cli.StringFlag{
				Name:  "strings",
				Usage: "file containing one injection string per line (replaces the built-in list)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "write findings as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "do not display a progress bar",
			},
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
		Action: check,
	}
}

func check(c *cli.Context) error {
	positions, err := parsePositions(c.String("bit"))
	if err != nil {
		return err
	}

	size, err := parseSize(c.String("size"))
	if err != nil {
		return err
	}

	var injectStrings []string
	if stringsPath := c.String("strings"); stringsPath != "" {
		injectStrings, err = loadStrings(stringsPath)
		if err != nil {
			return err
		}

		log.Debugf("loaded %d injection strings from %q", len(injectStrings), stringsPath)
	}

	dir := c.String("dir")

	paths, err := inject.ListImages(dir)
	if err != nil {
		return fmt.Errorf("failed to list images - %w", err)
	}

	var bar *progressbar.ProgressBar
	if !c.Bool("no-progress") && term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(len(paths)*len(positions),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("checking images"),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish())
	}

	var all []inject.Result
	for _, pos := range positions {
		scanner := inject.Scanner{
			Strings:    injectStrings,
			Position:   pos,
			OutputDir:  c.String("out"),
			OutputSize: size,
			OptOnFileFn: func(string) {
				if bar != nil {
					_ = bar.Add(1)
				}
			},
		}

		if c.Bool("debug") {
			scanner.OptLogger = stdlog.New(os.Stderr, "["+pos.String()+"] ", 0)
		}

		results, err := scanner.ScanFiles(paths)
		if err != nil {
			return err
		}

		all = append(all, results...)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	log.Debugf("checked %d images, %d findings", len(paths), len(all))

	if c.Bool("json") {
		return writeJSON(c.App.Writer, all)
	}

	return writeText(c.App.Writer, all)
}

func parsePositions(s string) ([]inject.BitPosition, error) {
	if strings.EqualFold(s, bothPositions) {
		return []inject.BitPosition{inject.LSB, inject.MSB}, nil
	}

	pos, err := inject.ParseBitPosition(s)
	if err != nil {
		return nil, err
	}

	return []inject.BitPosition{pos}, nil
}

func parseSize(s string) (image.Point, error) {
	if s == "" || s == "0" {
		return image.Point{}, nil
	}

	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid size %q - expected WIDTHxHEIGHT", s)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to parse width - %w", err)
	}

	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to parse height - %w", err)
	}

	if width <= 0 || height <= 0 {
		return image.Point{}, errors.New("width and height must be greater than zero")
	}

	return image.Pt(width, height), nil
}

func loadStrings(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	injectStrings, err := inject.LoadStrings(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load injection strings from %q - %w", filePath, err)
	}

	if len(injectStrings) == 0 {
		return nil, fmt.Errorf("no injection strings found in %q", filePath)
	}

	return injectStrings, nil
}
