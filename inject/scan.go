package inject

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
)

// Scanner checks images for injection strings hidden in one
// of their bit planes.
type Scanner struct {
	// Strings are the injection strings to look for.
	// DefaultStrings is used if nil.
	Strings []string

	// Position is the bit plane to extract.
	Position BitPosition

	// OutputDir is where highlighted copies of matching images
	// are saved. Nothing is saved if it is empty.
	OutputDir string

	// OutputSize optionally resizes highlighted images.
	OutputSize image.Point

	// OptLogger logs skipped files and findings if specified.
	OptLogger *log.Logger

	// OptOnFileFn is called after each file is checked.
	OptOnFileFn func(filePath string)
}

// Result describes an image that contains an injection string.
type Result struct {
	Path          string
	Position      BitPosition
	Match         Match
	HighlightPath string
}

// ListImages returns the paths of the supported images in dir,
// sorted by file name. Subdirectories are not searched.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsSupported(entry.Name()) {
			continue
		}

		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

// ScanDir checks every supported image in dir.
func (o *Scanner) ScanDir(dir string) ([]Result, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list images in %q - %w", dir, err)
	}

	return o.ScanFiles(paths)
}

// ScanFiles checks each of the images in paths. Images that cannot
// be decoded are skipped, since fuzzed images are often corrupt.
// Any other error stops the scan.
func (o *Scanner) ScanFiles(paths []string) ([]Result, error) {
	var results []Result
	for _, filePath := range paths {
		result, found, err := o.CheckFile(filePath)
		if o.OptOnFileFn != nil {
			o.OptOnFileFn(filePath)
		}

		switch {
		case errors.Is(err, ErrDecode):
			o.logf("skipping %q - %s", filePath, err)
			continue
		case err != nil:
			return results, err
		case found:
			results = append(results, result)
		}
	}

	return results, nil
}

// CheckFile decodes the image at filePath and searches it for
// injection strings. If one is found and OutputDir is set,
// a highlighted copy is saved.
//
// ErrDecode is returned if the file is not a decodable image.
func (o *Scanner) CheckFile(filePath string) (Result, bool, error) {
	img, _, err := DecodeFile(filePath)
	if err != nil {
		return Result{}, false, err
	}

	result, found := o.CheckImage(img)
	if !found {
		return Result{}, false, nil
	}

	result.Path = filePath

	o.logf("injection string found in %q (%s, bit %d): %q",
		filePath, o.Position, result.Match.BitOffset, result.Match.String)

	if o.OutputDir == "" {
		return result, true, nil
	}

	err = os.MkdirAll(o.OutputDir, 0o755)
	if err != nil {
		return result, true, fmt.Errorf("failed to create output directory - %w", err)
	}

	result.HighlightPath = filepath.Join(o.OutputDir,
		"highlighted_"+o.Position.String()+"_"+filepath.Base(filePath))

	err = EncodeFile(result.HighlightPath, Highlight(img, result.Match, o.OutputSize))
	if err != nil {
		return result, true, err
	}

	return result, true, nil
}

// CheckImage searches an already-decoded image for injection strings.
// The returned Result's Path fields are empty.
func (o *Scanner) CheckImage(img image.Image) (Result, bool) {
	needles := o.Strings
	if needles == nil {
		needles = DefaultStrings
	}

	match, found := Search(PackBits(ExtractBits(img, o.Position)), needles)
	if !found {
		return Result{}, false
	}

	return Result{
		Position: o.Position,
		Match:    match,
	}, true
}

func (o *Scanner) logf(format string, v ...interface{}) {
	if o.OptLogger != nil {
		o.OptLogger.Printf(format, v...)
	}
}
