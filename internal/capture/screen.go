package capture

import (
	"context"
	"errors"
	"image"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
)

// ScreenSource grabs frames straight from the local display. This is the
// production backend when the client runs natively on the same machine.
type ScreenSource struct {
	logger *zap.Logger
}

// NewScreenSource verifies a display is reachable before returning.
func NewScreenSource(logger *zap.Logger) (*ScreenSource, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if screenshot.NumActiveDisplays() == 0 {
		return nil, failedf("no active display")
	}
	return &ScreenSource{logger: logger.With(zap.String("component", "screen_source"))}, nil
}

// Capture grabs the requested screen rectangle.
func (s *ScreenSource) Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, failedf("%v", err)
	}

	rect := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		s.logger.Warn("display capture failed",
			zap.Int("x", region.X), zap.Int("y", region.Y),
			zap.Int("width", region.Width), zap.Int("height", region.Height),
			zap.Error(err))
		return nil, failedf("%v", err)
	}
	return frameFromImage(img), nil
}
