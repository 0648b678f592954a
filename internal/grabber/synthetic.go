package grabber

import (
	"time"

	"github.com/aerolens/tagtracker/internal/pixel"
)

// SyntheticSource generates a mid-gray frame with a dark square that
// drifts across the image, so the pipeline can be exercised with no
// hardware and no capture file at all.
type SyntheticSource struct {
	width  int
	height int
	seq    uint32
}

func NewSyntheticSource(width, height int) *SyntheticSource {
	return &SyntheticSource{width: width, height: height}
}

func (s *SyntheticSource) Next() (Frame, error) {
	buf := make([]byte, pixel.YUV420Size(s.width, s.height))
	for i := range buf {
		buf[i] = 128
	}

	// Square of side h/8, sliding one pixel per frame, wrapping. Tall
	// narrow frames can make the square as wide as the image; clamp it
	// so the travel range never collapses to zero or below.
	side := s.height / 8
	if side > s.width {
		side = s.width
	}
	var x0, y0 int
	if s.width > side {
		x0 = int(s.seq) % (s.width - side)
	}
	if s.height > side {
		y0 = (int(s.seq) * 2 / 3) % (s.height - side)
	}
	for row := y0; row < y0+side; row++ {
		for col := x0; col < x0+side; col++ {
			buf[row*s.width+col] = 16
		}
	}

	s.seq++
	return Frame{
		Data:   buf,
		Width:  s.width,
		Height: s.height,
		Seq:    s.seq,
		Time:   time.Now(),
	}, nil
}
