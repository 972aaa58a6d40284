package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
)

// ErrNoExport is returned when none of the configured export paths holds a
// parseable record.
var ErrNoExport = errors.New("no telemetry export available")

// DefaultExportPath is where the session-stats plugin writes its export,
// under the client's dot directory in the user's home.
func DefaultExportPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".runelite", "session_stats.json"), nil
}

// Reader loads the freshest export from a list of candidate paths, first
// readable and parseable file wins.
type Reader struct {
	paths  []string
	maxAge time.Duration
	logger *zap.Logger
}

// NewReader builds a Reader over the given paths, tried in order. maxAge
// bounds how old an export may be before Fresh reports false.
func NewReader(logger *zap.Logger, maxAge time.Duration, paths ...string) (*Reader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if len(paths) == 0 {
		return nil, errors.New("reader needs at least one export path")
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Reader{
		paths:  paths,
		maxAge: maxAge,
		logger: logger.With(zap.String("component", "telemetry_reader")),
	}, nil
}

// MaxAge returns the configured staleness bound.
func (r *Reader) MaxAge() time.Duration {
	return r.maxAge
}

// Read parses the first usable export. A path that is missing or holds
// invalid JSON is skipped, not fatal; ErrNoExport means every path failed.
func (r *Reader) Read() (*Record, error) {
	for _, path := range r.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				r.logger.Debug("Export path unreadable", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		rec, err := ParseExport(data)
		if err != nil {
			r.logger.Warn("Export file holds invalid JSON", zap.String("path", path), zap.Error(err))
			continue
		}
		return rec, nil
	}
	return nil, ErrNoExport
}

// ReadFresh reads the first usable export and reports whether it is within
// the staleness bound. The record is returned either way so callers can
// still inspect stale state.
func (r *Reader) ReadFresh(now time.Time) (*Record, bool, error) {
	rec, err := r.Read()
	if err != nil {
		return nil, false, err
	}
	return rec, rec.FreshAt(now, r.maxAge), nil
}
