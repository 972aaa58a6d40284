// File: internal/service/components.go
package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/capture"
	"github.com/vex0ray/spyglass/internal/snapshot"
	"github.com/vex0ray/spyglass/internal/telemetry"
	"github.com/vex0ray/spyglass/internal/vision"
)

// Components holds the initialized perception services for one run.
// This struct centralizes the lifecycle management of the capture,
// detection and snapshot dependencies.
type Components struct {
	// Source is the configured frame backend, wrapped by the recording
	// cache when caching is enabled.
	Source   capture.Source
	Cache    *capture.Cache
	Locator  *vision.Locator
	Analyzer *vision.Analyzer

	Regions    *snapshot.RegionTable
	Normalizer *snapshot.Normalizer
	Builder    *snapshot.Builder

	// Reader is nil when no telemetry export path is configured.
	Reader *telemetry.Reader

	logger *zap.Logger

	// closers release backend resources, run in reverse order on Shutdown.
	closers []func()
}

// Telemetry projects the current export into the snapshot telemetry
// section. A missing reader or unreadable export yields the zero value,
// which reads as stale.
func (c *Components) Telemetry() schemas.TelemetryInfo {
	if c.Reader == nil {
		return schemas.TelemetryInfo{}
	}
	rec, err := c.Reader.Read()
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("Telemetry export unavailable.", zap.Error(err))
		}
		return schemas.TelemetryInfo{}
	}
	return rec.Info(time.Now(), c.Reader.MaxAge())
}

// Shutdown releases backend resources in reverse initialization order.
// Safe to call on a partially initialized struct.
func (c *Components) Shutdown() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil

	if c.logger != nil {
		c.logger.Debug("Perception components shut down.")
	}
}
