// File: internal/service/factory.go
package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/internal/capture"
	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/snapshot"
	"github.com/vex0ray/spyglass/internal/vision"
)

// New handles the full dependency injection and initialization of the
// perception components: region table, cue locator, capture backend
// with optional cache, analyzer, snapshot assembly and the telemetry
// reader. Callers own the returned Components and must Shutdown it.
func New(cfg config.Interface, logger *zap.Logger) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	components := &Components{logger: logger}

	// Release anything already initialized if a later step fails.
	var initializationErr error
	defer func() {
		if initializationErr != nil {
			logger.Warn("Initialization failed, shutting down partially created components.", zap.Error(initializationErr))
			components.Shutdown()
		}
	}()

	// 1. Region table
	regions, err := initRegionTable(cfg, logger)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	components.Regions = regions
	logger.Debug("Region table initialized.")

	// 2. Classifier and cue locator
	classifier := vision.NewClassifier(cfg.Detection().Parallelism)
	locator, err := vision.NewLocator(classifier, cfg.Detection(), logger)
	if err != nil {
		initializationErr = fmt.Errorf("failed to initialize cue locator: %w", err)
		return nil, initializationErr
	}
	components.Locator = locator
	logger.Debug("Cue locator initialized.")

	// 3. Frame source
	source, closer, err := initFrameSource(cfg, logger)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	if closer != nil {
		components.closers = append(components.closers, closer)
	}
	logger.Debug("Frame source initialized.", zap.String("backend", cfg.Capture().Source))

	// 4. Capture cache
	if cacheCfg := cfg.Capture().Cache; cacheCfg.Enabled {
		cache, err := capture.NewCache(cacheCfg.Capacity)
		if err != nil {
			initializationErr = fmt.Errorf("failed to initialize capture cache: %w", err)
			return nil, initializationErr
		}
		recording, err := capture.NewRecordingSource(source, cache)
		if err != nil {
			initializationErr = fmt.Errorf("failed to wrap frame source with cache: %w", err)
			return nil, initializationErr
		}
		components.Cache = cache
		source = recording
		logger.Debug("Capture cache enabled.", zap.Int("capacity", cacheCfg.Capacity))
	}
	components.Source = source

	// 5. Analyzer
	analyzer, err := vision.NewAnalyzer(source, locator, logger)
	if err != nil {
		initializationErr = fmt.Errorf("failed to initialize analyzer: %w", err)
		return nil, initializationErr
	}
	components.Analyzer = analyzer
	logger.Debug("Analyzer initialized.")

	// 6. Snapshot assembly
	normalizer, err := snapshot.NewNormalizer(regions)
	if err != nil {
		initializationErr = fmt.Errorf("failed to initialize normalizer: %w", err)
		return nil, initializationErr
	}
	components.Normalizer = normalizer

	builder, err := snapshot.NewBuilder(regions, logger)
	if err != nil {
		initializationErr = fmt.Errorf("failed to initialize snapshot builder: %w", err)
		return nil, initializationErr
	}
	components.Builder = builder
	logger.Debug("Snapshot assembly initialized.")

	// 7. Telemetry reader (optional; absent reader means stale telemetry)
	reader, err := NewTelemetryReader(cfg, logger)
	if err != nil {
		initializationErr = err
		return nil, initializationErr
	}
	components.Reader = reader

	logger.Info("All perception components initialized.",
		zap.String("source", cfg.Capture().Source),
		zap.Bool("cache", components.Cache != nil),
		zap.Bool("telemetry", components.Reader != nil))

	return components, nil
}
