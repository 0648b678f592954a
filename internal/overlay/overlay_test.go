package overlay

import (
	"bytes"
	"testing"

	"github.com/aerolens/tagtracker/internal/tags"
)

func TestDrawDetectionsOutline(t *testing.T) {
	const w, h = 64, 64
	bgr := make([]byte, w*h*3)

	det := tags.Detection{
		ID:     3,
		Center: [2]float64{32, 32},
		Corners: [4][2]float64{
			{10, 10},
			{50, 10},
			{50, 50},
			{10, 50},
		},
	}
	if err := DrawDetections(bgr, w, h, []tags.Detection{det}); err != nil {
		t.Fatalf("DrawDetections: %v", err)
	}

	// Corners and edge midpoints sit on the outline and must be green.
	points := [][2]int{
		{10, 10}, {50, 10}, {50, 50}, {10, 50}, // corners
		{30, 10}, {50, 30}, {30, 50}, {10, 30}, // edge midpoints
	}
	for _, p := range points {
		off := (p[1]*w + p[0]) * 3
		if bgr[off] != 0 || bgr[off+1] != 255 || bgr[off+2] != 0 {
			t.Errorf("pixel (%d,%d) = BGR %v, want green", p[0], p[1], bgr[off:off+3])
		}
	}

	// A pixel well inside the outline stays untouched.
	inside := (32*w + 20) * 3
	if bgr[inside] != 0 || bgr[inside+1] != 0 || bgr[inside+2] != 0 {
		t.Errorf("interior pixel modified: %v", bgr[inside:inside+3])
	}
}

func TestDrawDetectionsBadFrame(t *testing.T) {
	if err := DrawDetections(make([]byte, 10), 64, 64, nil); err == nil {
		t.Error("expected error for undersized frame")
	}
}

func TestEncodeJPEG(t *testing.T) {
	const w, h = 16, 16
	bgr := make([]byte, w*h*3)
	for i := range bgr {
		bgr[i] = 200
	}

	jpg, err := EncodeJPEG(bgr, w, h, 80)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if !bytes.HasPrefix(jpg, []byte{0xFF, 0xD8}) {
		t.Errorf("output does not start with JPEG SOI marker: % x", jpg[:2])
	}

	if _, err := EncodeJPEG(bgr, w, h+1, 80); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
}
