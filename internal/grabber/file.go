package grabber

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aerolens/tagtracker/internal/pixel"
)

// FileSource replays raw planar YUV 4:2:0 frames from a capture file.
// The file is a plain concatenation of frames of the configured size,
// which is what the grabber's record tool writes.
type FileSource struct {
	f      *os.File
	width  int
	height int
	loop   bool
	seq    uint32
}

// NewFileSource opens a raw capture for replay. With loop set, the
// source rewinds at end of file instead of returning io.EOF.
func NewFileSource(path string, width, height int, loop bool) (*FileSource, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimensions, width, height)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &FileSource{f: f, width: width, height: height, loop: loop}, nil
}

// Next reads the next frame. A trailing partial frame is treated as
// end of file.
func (s *FileSource) Next() (Frame, error) {
	buf := make([]byte, pixel.YUV420Size(s.width, s.height))
	_, err := io.ReadFull(s.f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		if !s.loop {
			return Frame{}, io.EOF
		}
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			return Frame{}, fmt.Errorf("rewind capture file: %w", err)
		}
		if _, err := io.ReadFull(s.f, buf); err != nil {
			// Empty or truncated file; nothing to loop over.
			return Frame{}, io.EOF
		}
	} else if err != nil {
		return Frame{}, fmt.Errorf("read capture file: %w", err)
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

func (s *FileSource) Close() error {
	return s.f.Close()
}
