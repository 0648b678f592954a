package grabber

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aerolens/tagtracker/internal/pixel"
)

func writeCapture(t *testing.T, frames int, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.yuv")

	var data []byte
	for i := 0; i < frames; i++ {
		frame := make([]byte, pixel.YUV420Size(width, height))
		for j := range frame {
			frame[j] = byte(i) // tag each frame with its index
		}
		data = append(data, frame...)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return path
}

func TestFileSourceReplay(t *testing.T) {
	const w, h = 4, 2
	path := writeCapture(t, 2, w, h)

	src, err := NewFileSource(path, w, h, false)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	for i := 0; i < 2; i++ {
		f, err := src.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if f.Seq != uint32(i+1) {
			t.Errorf("frame %d seq = %d, want %d", i, f.Seq, i+1)
		}
		if f.Data[0] != byte(i) {
			t.Errorf("frame %d payload = %d, want %d", i, f.Data[0], i)
		}
		if err := Validate(f); err != nil {
			t.Errorf("frame %d invalid: %v", i, err)
		}
	}

	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last frame: err = %v, want io.EOF", err)
	}
}

func TestFileSourceLoop(t *testing.T) {
	const w, h = 4, 2
	path := writeCapture(t, 2, w, h)

	src, err := NewFileSource(path, w, h, true)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	for i := 0; i < 2; i++ {
		if _, err := src.Next(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	// Third read wraps to the first frame; sequence keeps counting.
	f, err := src.Next()
	if err != nil {
		t.Fatalf("looped frame: %v", err)
	}
	if f.Data[0] != 0 {
		t.Errorf("looped frame payload = %d, want 0", f.Data[0])
	}
	if f.Seq != 3 {
		t.Errorf("looped frame seq = %d, want 3", f.Seq)
	}
}

func TestFileSourceTruncatedTail(t *testing.T) {
	const w, h = 4, 2
	path := writeCapture(t, 1, w, h)

	// Append half a frame; it must be treated as end of file.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open capture: %v", err)
	}
	if _, err := f.Write(make([]byte, pixel.YUV420Size(w, h)/2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	src, err := NewFileSource(path, w, h, false)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Close()

	if _, err := src.Next(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("truncated tail: err = %v, want io.EOF", err)
	}
}

func TestFileSourceBadDimensions(t *testing.T) {
	if _, err := NewFileSource("nowhere.yuv", 3, 2, false); !errors.Is(err, pixel.ErrInvalidDimensions) {
		t.Errorf("odd width: err = %v, want ErrInvalidDimensions", err)
	}
}

func TestSyntheticSource(t *testing.T) {
	const w, h = 64, 48
	src := NewSyntheticSource(w, h)

	prev := Frame{}
	for i := 0; i < 3; i++ {
		f, err := src.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if err := Validate(f); err != nil {
			t.Fatalf("frame %d invalid: %v", i, err)
		}
		if f.Seq != uint32(i+1) {
			t.Errorf("frame %d seq = %d, want %d", i, f.Seq, i+1)
		}

		// Chroma stays neutral; the pattern lives in the Y plane.
		for j := w * h; j < len(f.Data); j++ {
			if f.Data[j] != 128 {
				t.Fatalf("frame %d chroma byte %d = %d, want 128", i, j, f.Data[j])
			}
		}

		// The square moves between frames.
		if i > 0 && string(f.Data) == string(prev.Data) {
			t.Errorf("frame %d identical to previous", i)
		}
		prev = f
	}
}

func TestSyntheticSourceNarrowFrames(t *testing.T) {
	// Frames where the square's travel range shrinks to nothing: the
	// square is as wide as the image (64x512) or wider than it (8x128).
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"square fills width", 64, 512},
		{"square wider than frame", 8, 128},
		{"square fills height", 8, 8},
		{"tiny", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewSyntheticSource(tt.width, tt.height)
			for i := 0; i < 5; i++ {
				f, err := src.Next()
				if err != nil {
					t.Fatalf("frame %d: %v", i, err)
				}
				if err := Validate(f); err != nil {
					t.Fatalf("frame %d invalid: %v", i, err)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr error
	}{
		{"valid", Frame{Data: make([]byte, 12), Width: 4, Height: 2}, nil},
		{"odd width", Frame{Data: make([]byte, 9), Width: 3, Height: 2}, pixel.ErrInvalidDimensions},
		{"zero height", Frame{Data: nil, Width: 4, Height: 0}, pixel.ErrInvalidDimensions},
		{"short data", Frame{Data: make([]byte, 11), Width: 4, Height: 2}, pixel.ErrShortBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.frame)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
