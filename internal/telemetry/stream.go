package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPollInterval matches the polling budget of the upstream packet
// proxy, so a follower never consumes state faster than the proxy emits it.
const DefaultPollInterval = 50 * time.Millisecond

// StreamFollower tails a newline-delimited export stream and publishes each
// parsed record, throttled to the poll interval. The stream file is the
// tick-by-tick dump some exporters write alongside the snapshot export.
type StreamFollower struct {
	path    string
	limiter *rate.Limiter
	logger  *zap.Logger
	updates chan *Record
}

// NewStreamFollower prepares a follower for the given stream file.
func NewStreamFollower(path string, interval time.Duration, logger *zap.Logger) (*StreamFollower, error) {
	if path == "" {
		return nil, errors.New("stream path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StreamFollower{
		path:    path,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger.With(zap.String("component", "telemetry_stream")),
		updates: make(chan *Record, 1),
	}, nil
}

// Updates delivers parsed stream records, latest record winning when the
// consumer lags.
func (f *StreamFollower) Updates() <-chan *Record {
	return f.updates
}

// Run tails the stream until the context is cancelled. The file may appear
// after Run starts; tailing begins at the current end so only new ticks are
// consumed.
func (f *StreamFollower) Run(ctx context.Context) error {
	t, err := tail.TailFile(f.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Location:  &tail.SeekInfo{Offset: 0, Whence: 2},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail stream file: %w", err)
	}
	defer func() {
		t.Stop()
		t.Cleanup()
	}()

	f.logger.Info("Following telemetry stream", zap.String("path", f.path))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-t.Lines:
			if !ok {
				f.logger.Info("Stream tailer channel closed")
				return nil
			}
			if line.Err != nil {
				f.logger.Warn("Error reading stream line", zap.Error(line.Err))
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}

			if err := f.limiter.Wait(ctx); err != nil {
				return err
			}

			rec, err := ParseExport([]byte(text))
			if err != nil {
				f.logger.Warn("Stream line holds invalid JSON", zap.Error(err))
				continue
			}
			f.publish(rec)
		}
	}
}

func (f *StreamFollower) publish(rec *Record) {
	for {
		select {
		case f.updates <- rec:
			return
		default:
			select {
			case <-f.updates:
			default:
			}
		}
	}
}
