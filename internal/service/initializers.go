// File: internal/service/initializers.go
package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/internal/capture"
	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/snapshot"
	"github.com/vex0ray/spyglass/internal/telemetry"
)

// initRegionTable loads the region table from the configured file, or
// falls back to the built-in early-game bounds.
func initRegionTable(cfg config.Interface, logger *zap.Logger) (*snapshot.RegionTable, error) {
	path := cfg.RegionsFile()
	if path == "" {
		return snapshot.DefaultRegionTable(), nil
	}

	table, err := snapshot.LoadRegionTable(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load region table: %w", err)
	}
	logger.Debug("Region table loaded.",
		zap.String("path", path),
		zap.Int("bounds", len(table.Bounds())))
	return table, nil
}

// initFrameSource builds the capture backend the config names. The
// returned closer is non-nil only for backends holding resources that
// must be released on shutdown.
func initFrameSource(cfg config.Interface, logger *zap.Logger) (capture.Source, func(), error) {
	cc := cfg.Capture()

	switch cc.Source {
	case "screen":
		src, err := capture.NewScreenSource(logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize screen source: %w", err)
		}
		return src, nil, nil

	case "cdp":
		src, err := capture.NewCDPSource(cc.CDP, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize cdp source: %w", err)
		}
		return src, src.Close, nil

	case "replay":
		src, err := capture.NewReplaySourceFromPNG(cc.Replay.Paths...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize replay source: %w", err)
		}
		return src, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported capture source: %q", cc.Source)
	}
}

// NewTelemetryReader builds the export reader. An empty export path
// falls back to the client's default export location; when even that
// cannot be resolved the reader is skipped and snapshots read as stale.
// Exported because the watch command needs a reader without the rest of
// the component set.
func NewTelemetryReader(cfg config.Interface, logger *zap.Logger) (*telemetry.Reader, error) {
	tc := cfg.Telemetry()

	path := tc.ExportPath
	if path == "" {
		def, err := telemetry.DefaultExportPath()
		if err != nil {
			logger.Warn("No telemetry export path available; snapshots will read as stale.", zap.Error(err))
			return nil, nil
		}
		path = def
	}

	reader, err := telemetry.NewReader(logger, tc.MaxAge, path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry reader: %w", err)
	}
	return reader, nil
}
