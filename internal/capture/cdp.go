package capture

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/config"
)

// CDPSource captures the client viewport of a Chromium that hosts the game
// (web launcher deployments). It attaches to an already running browser over
// the DevTools protocol; it never launches one.
type CDPSource struct {
	cfg    config.CDPConfig
	logger *zap.Logger

	// sem serializes captures; the attached tab renders one screenshot at
	// a time.
	sem *semaphore.Weighted

	mu      sync.Mutex
	tabCtx  context.Context
	cancels []context.CancelFunc
}

// NewCDPSource validates the attach configuration. The connection itself is
// established lazily on first capture.
func NewCDPSource(cfg config.CDPConfig, logger *zap.Logger) (*CDPSource, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.AttachURL == "" {
		return nil, errors.New("cdp attach url cannot be empty")
	}
	return &CDPSource{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "cdp_source")),
		sem:    semaphore.NewWeighted(1),
	}, nil
}

// Capture screenshots the requested viewport rectangle of the attached tab.
func (s *CDPSource) Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error) {
	if err := checkRegion(region); err != nil {
		return nil, err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, failedf("%v", err)
	}
	defer s.sem.Release(1)

	tabCtx, err := s.attach(ctx)
	if err != nil {
		return nil, err
	}

	var shot []byte
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		shot, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      float64(region.X),
				Y:      float64(region.Y),
				Width:  float64(region.Width),
				Height: float64(region.Height),
				Scale:  1,
			}).
			Do(ctx)
		return err
	}))
	if err != nil {
		s.logger.Warn("devtools screenshot failed", zap.Error(err))
		return nil, failedf("%v", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, failedf("decoding screenshot: %v", err)
	}
	return frameFromImage(img), nil
}

// attach connects to the remote browser once and reuses the tab context for
// every later capture.
func (s *CDPSource) attach(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tabCtx != nil {
		return s.tabCtx, nil
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), s.cfg.AttachURL)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, failedf("attaching to %s: %v", s.cfg.AttachURL, err)
	}

	// Let the attached page settle before the first grab.
	if s.cfg.Settle > 0 {
		select {
		case <-time.After(s.cfg.Settle):
		case <-ctx.Done():
			cancelTab()
			cancelAlloc()
			return nil, failedf("%v", ctx.Err())
		}
	}

	s.tabCtx = tabCtx
	s.cancels = []context.CancelFunc{cancelTab, cancelAlloc}
	s.logger.Info("attached to remote browser", zap.String("attach_url", s.cfg.AttachURL))
	return s.tabCtx, nil
}

// Close detaches from the browser. Safe to call more than once.
func (s *CDPSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.tabCtx = nil
}
