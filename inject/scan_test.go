package inject

import (
	"bytes"
	"image"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, filePath string, secret string, pos BitPosition) {
	t.Helper()

	img := newWhiteImage(32, 32)
	if secret != "" {
		require.NoError(t, Embed(img, []byte(secret), pos, 64))
	}

	require.NoError(t, EncodeFile(filePath, img))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.PNG"))
	assert.True(t, IsSupported("dir/b.jpeg"))
	assert.True(t, IsSupported("c.jp2"))
	assert.False(t, IsSupported("d.txt"))
	assert.False(t, IsSupported("png"))
}

func TestEncodeDecodeFile_Lossless(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.png", "b.bmp", "c.tiff", "d.jp2", "e.j2k"} {
		t.Run(name, func(t *testing.T) {
			filePath := filepath.Join(dir, name)
			writeImage(t, filePath, "XNU Image Fuzzer", LSB)

			scanner := Scanner{Position: LSB}

			result, found, err := scanner.CheckFile(filePath)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "XNU Image Fuzzer", result.Match.String)
			assert.Equal(t, 64, result.Match.BitOffset)
			assert.Equal(t, filePath, result.Path)
			assert.Empty(t, result.HighlightPath)
		})
	}
}

func TestScanner_ScanDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "compare")

	writeImage(t, filepath.Join(dir, "1-clean.png"), "", LSB)
	writeImage(t, filepath.Join(dir, "2-lsb.png"), "123456; DROP TABLE users", LSB)
	writeImage(t, filepath.Join(dir, "3-msb.png"), "..//..//..//win", MSB)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "4-corrupt.png"), []byte("not a png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	logs := bytes.NewBuffer(nil)
	var checked []string

	scanner := Scanner{
		Position:   LSB,
		OutputDir:  outDir,
		OutputSize: image.Pt(64, 64),
		OptLogger:  log.New(logs, "", 0),
		OptOnFileFn: func(filePath string) {
			checked = append(checked, filepath.Base(filePath))
		},
	}

	results, err := scanner.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, []string{"1-clean.png", "2-lsb.png", "3-msb.png", "4-corrupt.png"}, checked)
	assert.Equal(t, "123456; DROP TABLE users", results[0].Match.String)
	assert.Equal(t, filepath.Join(outDir, "highlighted_lsb_2-lsb.png"), results[0].HighlightPath)
	assert.Contains(t, logs.String(), "skipping")

	highlighted, format, err := DecodeFile(results[0].HighlightPath)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 64, 64), highlighted.Bounds())

	scanner.Position = MSB
	scanner.OptOnFileFn = nil

	results, err = scanner.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "..//..//..//win", results[0].Match.String)
	assert.Equal(t, filepath.Join(outDir, "highlighted_msb_3-msb.png"), results[0].HighlightPath)
}

func TestScanner_CustomStrings(t *testing.T) {
	img := newWhiteImage(8, 8)
	require.NoError(t, Embed(img, []byte("crash"), LSB, 0))

	scanner := Scanner{
		Strings: []string{"crash"},
	}

	result, found := scanner.CheckImage(img)
	require.True(t, found)
	assert.Equal(t, "crash", result.Match.String)
	assert.Equal(t, LSB, result.Position)

	scanner.Strings = []string{"nope"}
	_, found = scanner.CheckImage(img)
	assert.False(t, found)
}

func TestListImages_MissingDir(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestScanner_ScanDir_JPEG2000(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "compare")

	writeImage(t, filepath.Join(dir, "fuzzed.jp2"), "!@#$%^&*()_+=", LSB)

	scanner := Scanner{
		Position:  LSB,
		OutputDir: outDir,
	}

	results, err := scanner.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "!@#$%^&*()_+=", results[0].Match.String)
	assert.Equal(t, filepath.Join(outDir, "highlighted_lsb_fuzzed.jp2"), results[0].HighlightPath)

	highlighted, format, err := DecodeFile(results[0].HighlightPath)
	require.NoError(t, err)
	assert.Equal(t, "jp2", format)
	assert.Equal(t, image.Rect(0, 0, 32, 32), highlighted.Bounds())
}

func TestScanner_CheckFile_Errors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o600))

	scanner := Scanner{}

	_, found, err := scanner.CheckFile(corrupt)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrDecode)

	_, _, err = scanner.CheckFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestScanner_ScanFiles(t *testing.T) {
	dir := t.TempDir()
	lsbPath := filepath.Join(dir, "lsb.png")
	corruptPath := filepath.Join(dir, "corrupt.png")

	writeImage(t, lsbPath, "XNU Image Fuzzer", LSB)
	require.NoError(t, os.WriteFile(corruptPath, []byte("not a png"), 0o600))

	logs := bytes.NewBuffer(nil)
	scanner := Scanner{
		Position:  LSB,
		OptLogger: log.New(logs, "", 0),
	}

	// Only the listed files are checked, and a corrupt
	// image does not stop the scan.
	results, err := scanner.ScanFiles([]string{corruptPath, lsbPath})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, lsbPath, results[0].Path)
	assert.Contains(t, logs.String(), "skipping")

	// A file that cannot be opened is reported rather than skipped.
	results, err = scanner.ScanFiles([]string{lsbPath, filepath.Join(dir, "missing.png")})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)
	assert.Len(t, results, 1)
}
