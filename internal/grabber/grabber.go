package grabber

import (
	"fmt"
	"time"

	"github.com/aerolens/tagtracker/internal/pixel"
)

// Frame is one planar YUV 4:2:0 frame from a source. The sequence
// number and timestamp travel with the frame instead of living in
// globals, so multiple sources can run side by side.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Seq    uint32
	Time   time.Time
}

// Source is anything that can deliver frames over time: the real
// grabber, a file replay, a synthetic pattern. Next returns io.EOF
// when a finite source is exhausted.
type Source interface {
	Next() (Frame, error)
}

// Validate checks a frame's declared dimensions against its buffer
// before it is handed to the converter.
func Validate(f Frame) error {
	if f.Width <= 0 || f.Height <= 0 || f.Width%2 != 0 || f.Height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimensions, f.Width, f.Height)
	}
	if len(f.Data) != pixel.YUV420Size(f.Width, f.Height) {
		return fmt.Errorf("%w: got %d bytes, want %d",
			pixel.ErrShortBuffer, len(f.Data), pixel.YUV420Size(f.Width, f.Height))
	}
	return nil
}
