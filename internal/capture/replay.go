package capture

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"sync"

	"github.com/vex0ray/spyglass/api/schemas"
)

// ReplaySource serves pre-loaded frames instead of touching a display. Used
// for offline analysis of saved captures and throughout the test suite.
// Frames are served in order and the last one repeats forever.
type ReplaySource struct {
	mu     sync.Mutex
	frames []*schemas.Frame
	next   int
}

// NewReplaySource builds a source over in-memory frames.
func NewReplaySource(frames ...*schemas.Frame) (*ReplaySource, error) {
	if len(frames) == 0 {
		return nil, errors.New("replay source needs at least one frame")
	}
	for i, f := range frames {
		if !f.Complete() {
			return nil, fmt.Errorf("replay frame %d: buffer does not cover %dx%d", i, f.Width, f.Height)
		}
	}
	return &ReplaySource{frames: frames}, nil
}

// NewReplaySourceFromPNG loads screenshot files as the replay sequence.
func NewReplaySourceFromPNG(paths ...string) (*ReplaySource, error) {
	if len(paths) == 0 {
		return nil, errors.New("replay source needs at least one file")
	}
	frames := make([]*schemas.Frame, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening replay frame: %w", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding replay frame %s: %w", path, err)
		}
		frames = append(frames, frameFromImage(img))
	}
	return NewReplaySource(frames...)
}

// Capture returns the next replay frame. The region's geometry must match
// the frame; replay does not rescale.
func (s *ReplaySource) Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}

	s.mu.Lock()
	frame := s.frames[s.next]
	if s.next < len(s.frames)-1 {
		s.next++
	}
	s.mu.Unlock()

	if frame.Width != region.Width || frame.Height != region.Height {
		return nil, failedf("replay frame is %dx%d, requested %dx%d",
			frame.Width, frame.Height, region.Width, region.Height)
	}
	return frame, nil
}
