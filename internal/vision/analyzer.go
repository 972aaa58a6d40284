package vision

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
)

// FrameSource supplies raw frames for analysis. Implementations live in the
// capture package; the analyzer only needs this one method.
type FrameSource interface {
	Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error)
}

// Analyzer runs one capture-and-detect pass per call. Calls are independent;
// nothing carries over between frames.
type Analyzer struct {
	source  FrameSource
	locator *Locator
	logger  *zap.Logger
}

// NewAnalyzer wires a frame source to a locator.
func NewAnalyzer(source FrameSource, locator *Locator, logger *zap.Logger) (*Analyzer, error) {
	if source == nil {
		return nil, errors.New("frame source cannot be nil")
	}
	if locator == nil {
		return nil, errors.New("locator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Analyzer{
		source:  source,
		locator: locator,
		logger:  logger.With(zap.String("component", "analyzer")),
	}, nil
}

// Analyze captures the region and locates both cues in the captured frame.
// Capture and detection durations are measured separately. A capture failure
// aborts the whole pass; no partial result is produced.
func (a *Analyzer) Analyze(ctx context.Context, region schemas.Region) (schemas.DetectionResult, error) {
	captureStart := time.Now()
	frame, err := a.source.Capture(ctx, region)
	if err != nil {
		a.logger.Warn("frame capture failed", zap.Error(err))
		return schemas.EmptyDetectionResult(), err
	}
	captureMS := uint64(time.Since(captureStart).Milliseconds())

	result := a.Detect(ctx, frame)
	result.CaptureMS = captureMS

	a.logger.Debug("frame analyzed",
		zap.Uint64("capture_ms", result.CaptureMS),
		zap.Uint64("detect_ms", result.DetectMS),
		zap.Bool("found", result.Found()),
	)
	return result, nil
}

// Detect locates both cues in an already captured frame. The two searches
// are independent and run concurrently; their order never affects the
// result.
func (a *Analyzer) Detect(ctx context.Context, frame *schemas.Frame) schemas.DetectionResult {
	detectStart := time.Now()

	var (
		wg        sync.WaitGroup
		arrow     *schemas.Point
		highlight *schemas.Point
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		arrow = a.locator.LocateArrow(ctx, frame)
	}()
	go func() {
		defer wg.Done()
		highlight = a.locator.LocateHighlight(ctx, frame)
	}()
	wg.Wait()

	return schemas.DetectionResult{
		Arrow:     arrow,
		Highlight: highlight,
		DetectMS:  uint64(time.Since(detectStart).Milliseconds()),
	}
}
