package vision

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/config"
)

// Locator turns raw pixel tallies into located cues. A cue below its minimum
// pixel support is reported as absent, not as a low-confidence point.
type Locator struct {
	classifier *Classifier
	cfg        config.DetectionConfig
	logger     *zap.Logger
}

// NewLocator creates a Locator with the given thresholds.
func NewLocator(classifier *Classifier, cfg config.DetectionConfig, logger *zap.Logger) (*Locator, error) {
	if classifier == nil {
		return nil, errors.New("classifier cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Locator{
		classifier: classifier,
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "locator")),
	}, nil
}

// LocateArrow finds the quest guide arrow. Nil means not present.
func (l *Locator) LocateArrow(ctx context.Context, frame *schemas.Frame) *schemas.Point {
	return l.locate(ctx, frame, ArrowPixel, l.cfg.Arrow, schemas.CueArrow)
}

// LocateHighlight finds the object highlight. Nil means not present.
func (l *Locator) LocateHighlight(ctx context.Context, frame *schemas.Frame) *schemas.Point {
	return l.locate(ctx, frame, HighlightPixel, l.cfg.Highlight, schemas.CueHighlight)
}

func (l *Locator) locate(ctx context.Context, frame *schemas.Frame, match PixelPredicate, cue config.CueConfig, kind schemas.CueKind) *schemas.Point {
	tally := l.classifier.Scan(ctx, frame, match)
	if tally.Count < cue.MinPixels {
		return nil
	}

	// Centroid with floor semantics: integer division of the coordinate
	// sums, matching the calibrated reference behavior.
	point := &schemas.Point{
		X:          tally.SumX / tally.Count,
		Y:          tally.SumY / tally.Count,
		Confidence: confidence(tally.Count, cue.Normalizer),
	}

	l.logger.Debug("cue located",
		zap.String("cue", string(kind)),
		zap.Int("x", point.X),
		zap.Int("y", point.Y),
		zap.Int("support", tally.Count),
		zap.Float64("confidence", point.Confidence),
	)
	return point
}

// confidence maps pixel support onto [0, 1]: count/normalizer, capped at 1.
func confidence(count, normalizer int) float64 {
	c := float64(count) / float64(normalizer)
	if c > 1.0 {
		return 1.0
	}
	return c
}
