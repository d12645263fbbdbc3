package pattern

import (
	"fmt"
	"io"
	"log"
	"strconv"
)

// Cyclic writes the cyclic pattern in chunks. Each call to WriteToN
// continues where the previous call left off.
//
// A Cyclic is not safe for concurrent use.
type Cyclic struct {
	// OptLogger logs the pattern string if specified.
	OptLogger *log.Logger
	pos       int
	numCalls  int
}

// WriteToNOrExit calls WriteToN and calls DefaultExitFn if an error occurs.
func (o *Cyclic) WriteToNOrExit(w io.Writer, n int) {
	err := o.WriteToN(w, n)
	if err != nil {
		DefaultExitFn(fmt.Errorf("pattern.cyclic: failed to write pattern string number %d of size %d - %w",
			o.numCalls, n, err))
	}
}

// WriteToN writes the next n bytes of the pattern to w.
//
// ErrOutOfRange is returned, and nothing is written, if the
// write would go past MaxLen bytes in total.
func (o *Cyclic) WriteToN(w io.Writer, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: n is less than or equal to zero", ErrInvalidLength)
	}

	if o.pos+n > MaxLen {
		return fmt.Errorf("%w: %d bytes already written, %d requested (max: %d)",
			ErrOutOfRange, o.pos, n, MaxLen)
	}

	chunk := make([]byte, n)
	fill(chunk, o.pos)

	if o.OptLogger != nil {
		o.OptLogger.Println("pattern string "+
			strconv.Itoa(o.numCalls)+":",
			string(chunk))
	}

	_, err := w.Write(chunk)
	if err != nil {
		return err
	}

	o.pos += n
	o.numCalls++

	return nil
}

// Pos returns the offset of the next byte WriteToN will write.
func (o *Cyclic) Pos() int {
	return o.pos
}

// Reset rewinds the writer to the start of the pattern.
func (o *Cyclic) Reset() {
	o.pos = 0
	o.numCalls = 0
}
