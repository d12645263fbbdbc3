package inject

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
)

// BitPosition selects the bit plane of each color channel
// that carries hidden data.
type BitPosition int

const (
	// LSB selects the least significant bit of each channel.
	LSB BitPosition = iota

	// MSB selects the most significant bit of each channel.
	MSB
)

var (
	// ErrUnknownBitPosition is returned when a bit position name
	// is not recognized.
	ErrUnknownBitPosition = errors.New("unknown bit position")

	// ErrCapacity is returned when data does not fit in an image.
	ErrCapacity = errors.New("data exceeds image capacity")
)

// channelsPerPixel is the number of channels that carry data.
// Alpha is ignored.
const channelsPerPixel = 3

// ParseBitPosition converts "lsb" or "msb" (case-insensitive)
// into a BitPosition.
func ParseBitPosition(s string) (BitPosition, error) {
	switch strings.ToLower(s) {
	case "lsb":
		return LSB, nil
	case "msb":
		return MSB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBitPosition, s)
	}
}

func (o BitPosition) String() string {
	switch o {
	case LSB:
		return "lsb"
	case MSB:
		return "msb"
	default:
		return fmt.Sprintf("BitPosition(%d)", int(o))
	}
}

func (o BitPosition) shift() uint {
	if o == MSB {
		return 7
	}

	return 0
}

// ExtractBits returns one bit (as a 0 or 1 byte) for each of the
// red, green, and blue channels of every pixel in img. Pixels are
// visited row by row.
func ExtractBits(img image.Image, pos BitPosition) []byte {
	b := img.Bounds()
	shift := pos.shift()
	bits := make([]byte, 0, b.Dx()*b.Dy()*channelsPerPixel)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

			bits = append(bits,
				(c.R>>shift)&1,
				(c.G>>shift)&1,
				(c.B>>shift)&1)
		}
	}

	return bits
}

// PackBits groups bits into bytes, most significant bit first.
// A trailing group of less than 8 bits is dropped.
func PackBits(bits []byte) []byte {
	result := make([]byte, len(bits)/8)

	for i := range result {
		var b byte
		for _, bit := range bits[i*8 : i*8+8] {
			b = b<<1 | bit&1
		}

		result[i] = b
	}

	return result
}

// Embed writes data into the bit plane of img selected by pos,
// starting at the channel bit startBit. It is the inverse of
// ExtractBits and PackBits.
func Embed(img draw.Image, data []byte, pos BitPosition, startBit int) error {
	b := img.Bounds()
	capacity := b.Dx() * b.Dy() * channelsPerPixel
	numBits := len(data) * 8

	if startBit < 0 || startBit+numBits > capacity {
		return fmt.Errorf("%w: bits %d to %d requested, image holds %d",
			ErrCapacity, startBit, startBit+numBits, capacity)
	}

	shift := pos.shift()
	mask := uint8(1) << shift

	for i := 0; i < numBits; i++ {
		bit := (data[i/8] >> (7 - uint(i%8))) & 1

		channelIndex := startBit + i
		pixel := channelIndex / channelsPerPixel
		x := b.Min.X + pixel%b.Dx()
		y := b.Min.Y + pixel/b.Dx()

		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

		var channel *uint8
		switch channelIndex % channelsPerPixel {
		case 0:
			channel = &c.R
		case 1:
			channel = &c.G
		default:
			channel = &c.B
		}

		*channel = *channel&^mask | bit<<shift

		img.Set(x, y, c)
	}

	return nil
}
