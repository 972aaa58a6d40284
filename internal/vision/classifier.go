package vision

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vex0ray/spyglass/api/schemas"
)

// PixelPredicate classifies a single RGBA pixel by its color channels.
// Predicates must be pure; the scanner calls them from multiple goroutines.
type PixelPredicate func(r, g, b byte) bool

// ArrowPixel matches the bright yellow of the quest guide arrow.
// All three comparisons are strict; boundary values do not match.
func ArrowPixel(r, g, b byte) bool {
	return r > 200 && g > 200 && b < 80
}

// HighlightPixel matches the cyan object highlight overlay.
func HighlightPixel(r, g, b byte) bool {
	return r < 80 && g > 180 && b > 180
}

// Tally is the accumulated pixel mass for one predicate over one frame.
// Tallies from disjoint frame bands merge by plain addition, so the band
// partitioning never changes the result.
type Tally struct {
	Count int
	SumX  int
	SumY  int
}

// Add folds another tally into this one.
func (t *Tally) Add(other Tally) {
	t.Count += other.Count
	t.SumX += other.SumX
	t.SumY += other.SumY
}

// Classifier scans frames for pixels matching a predicate. It holds no
// per-frame state; one instance serves concurrent callers.
type Classifier struct {
	parallelism int
}

// NewClassifier returns a classifier running at most parallelism scan
// workers per call. Zero or negative means one worker per CPU.
func NewClassifier(parallelism int) *Classifier {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Classifier{parallelism: parallelism}
}

// Scan tallies the pixels of frame matching the predicate. A buffer shorter
// than width*height*4 yields an empty tally; the scanner never reads past
// the declared geometry.
func (c *Classifier) Scan(ctx context.Context, frame *schemas.Frame, match PixelPredicate) Tally {
	if !frame.Complete() || frame.Width <= 0 || frame.Height <= 0 {
		return Tally{}
	}

	workers := c.parallelism
	if workers > frame.Height {
		workers = frame.Height
	}
	if workers == 1 {
		return scanBand(frame, match, 0, frame.Height)
	}

	// Each worker owns one row band and one partial slot; the partials are
	// summed only after Wait, so no accumulator is shared.
	partials := make([]Tally, workers)
	rowsPerBand := (frame.Height + workers - 1) / workers

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < workers; i++ {
		band := i
		g.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			startRow := band * rowsPerBand
			endRow := startRow + rowsPerBand
			if endRow > frame.Height {
				endRow = frame.Height
			}
			partials[band] = scanBand(frame, match, startRow, endRow)
			return nil
		})
	}
	// Workers never return errors; Wait only fences the partial writes.
	_ = g.Wait()

	var total Tally
	for _, p := range partials {
		total.Add(p)
	}
	return total
}

// scanBand tallies rows [startRow, endRow) of the frame.
func scanBand(frame *schemas.Frame, match PixelPredicate, startRow, endRow int) Tally {
	var t Tally
	width := frame.Width
	pixels := frame.Pixels
	for y := startRow; y < endRow; y++ {
		rowOffset := y * width * 4
		for x := 0; x < width; x++ {
			offset := rowOffset + x*4
			if match(pixels[offset], pixels[offset+1], pixels[offset+2]) {
				t.Count++
				t.SumX += x
				t.SumY += y
			}
		}
	}
	return t
}
