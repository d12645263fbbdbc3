package inject

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrDecode is returned when a file's contents cannot be decoded
// as an image.
var ErrDecode = errors.New("failed to decode image")

// SupportedExtensions lists the (lowercase) file extensions of
// images that can be checked.
var SupportedExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".bmp",
	".tif",
	".tiff",
	".jp2",
	".j2k",
}

// IsSupported returns true if name has one of SupportedExtensions.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))

	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}

	return false
}

// DecodeFile decodes the image at filePath. The format is detected
// from the file's contents rather than its name.
func DecodeFile(filePath string) (image.Image, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w %q - %v", ErrDecode, filePath, err)
	}

	return img, format, nil
}

// EncodeFile writes img to filePath in the format implied by
// the file's extension. Unknown extensions are written as PNG.
func EncodeFile(filePath string, img image.Image) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}

	err = encode(f, strings.ToLower(filepath.Ext(filePath)), img)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode image %q - %w", filePath, err)
	}

	return f.Close()
}

func encode(w io.Writer, ext string, img image.Image) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	case ".jp2", ".j2k":
		opts := jpeg2000.DefaultOptions()
		opts.Lossless = true
		if ext == ".j2k" {
			opts.Format = jpeg2000.FormatJ2K
		}

		return jpeg2000.Encode(w, img, opts)
	default:
		return png.Encode(w, img)
	}
}
