// Package capture acquires raw RGBA frames from the running game client.
// The rest of the system only sees the Source interface; which backend is
// behind it (native display, DevTools protocol, replayed fixtures) is a
// configuration detail.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/vex0ray/spyglass/api/schemas"
)

var (
	// ErrCaptureFailed marks acquisition errors. The wrapped message always
	// starts with "capture failed", which hosts rely on to tell a broken
	// capture apart from a frame with no cues in it.
	ErrCaptureFailed = errors.New("capture failed")

	// ErrInvalidRegion marks structurally unusable capture requests.
	ErrInvalidRegion = errors.New("invalid capture region")
)

// Source produces one frame per call. Implementations must be safe for
// concurrent use.
type Source interface {
	Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error)
}

// failedf wraps a backend error under ErrCaptureFailed.
func failedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCaptureFailed, fmt.Sprintf(format, args...))
}

// checkRegion rejects degenerate rectangles before they reach a backend.
func checkRegion(region schemas.Region) error {
	if region.Width <= 0 || region.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidRegion, region.Width, region.Height)
	}
	return nil
}

// frameFromImage repacks any decoded image into a tightly packed RGBA frame.
// The fast path reuses the pixel buffer of an origin-anchored *image.RGBA
// whose stride has no row padding.
func frameFromImage(img image.Image) *schemas.Frame {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if rgba, ok := img.(*image.RGBA); ok &&
		rgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		return &schemas.Frame{Pixels: rgba.Pix, Width: width, Height: height}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &schemas.Frame{Pixels: dst.Pix, Width: width, Height: height}
}
