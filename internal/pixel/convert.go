package pixel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned for non-positive or odd frame
	// dimensions. The chroma planes are subsampled 2x2, so odd sizes
	// would index past the end of the buffer.
	ErrInvalidDimensions = errors.New("pixel: invalid frame dimensions")

	// ErrShortBuffer is returned when the input length does not match
	// the size implied by the declared dimensions.
	ErrShortBuffer = errors.New("pixel: buffer length does not match dimensions")
)

// YUV420Size returns the byte length of a planar YUV 4:2:0 frame.
func YUV420Size(width, height int) int {
	return width * height * 3 / 2
}

// YUV420ToBGR24 converts a planar YUV 4:2:0 frame as delivered by the
// frame grabber into an interleaved BGR24 buffer of width*height*3
// bytes. The output is freshly allocated on every call; the input is
// never modified, so concurrent calls on independent frames are safe.
func YUV420ToBGR24(yuv []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(yuv) != YUV420Size(width, height) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrShortBuffer, len(yuv), YUV420Size(width, height), width, height)
	}

	luma := width * height
	yData := yuv[:luma]
	uData := yuv[luma:]
	vData := yuv[luma+1:]

	out := make([]byte, width*height*3)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			yIdx := row*width + col
			// U and V deliberately share one subsampled index. The
			// grabber interleaves chroma bytes after the Y plane, and
			// downstream consumers depend on the exact output values,
			// so this stays bit-compatible even though it differs
			// from textbook YV12 with separate U and V planes.
			cIdx := ((row/2)*(width/2) + (col/2)) * 2

			y := float64(yData[yIdx])
			u := float64(uData[cIdx]) - 128
			v := float64(vData[cIdx]) - 128

			off := yIdx * 3
			out[off+0] = clamp(y + 1.732446*u)
			out[off+1] = clamp(y - 0.698001*u - 0.703125*v)
			out[off+2] = clamp(y + 1.370705*v)
		}
	}
	return out, nil
}

// clamp limits v to [0, 255] and truncates toward zero, matching a
// plain numeric cast. Truncate-then-clamp and clamp-then-truncate
// agree everywhere on this range.
func clamp(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// BGR24ToGray reduces an interleaved BGR24 buffer to a single-channel
// grayscale buffer using the BT.601 luma weights in 14-bit fixed
// point. The tag detector runs on grayscale only.
func BGR24ToGray(bgr []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(bgr) != width*height*3 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrShortBuffer, len(bgr), width*height*3, width, height)
	}

	out := make([]byte, width*height)
	for i := range out {
		b := int(bgr[i*3+0])
		g := int(bgr[i*3+1])
		r := int(bgr[i*3+2])
		out[i] = byte((4899*r + 9617*g + 1868*b + 8192) >> 14)
	}
	return out, nil
}
