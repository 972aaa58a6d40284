package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "spyglass", cfg.Logger().ServiceName)
	assert.Equal(t, "screen", cfg.Capture().Source)
	assert.Equal(t, 765, cfg.Capture().Region.Width)
	assert.Equal(t, 503, cfg.Capture().Region.Height)
	assert.True(t, cfg.Capture().Cache.Enabled)
	assert.Equal(t, 8, cfg.Capture().Cache.Capacity)
	assert.Equal(t, 10, cfg.Detection().Arrow.MinPixels)
	assert.Equal(t, 500, cfg.Detection().Arrow.Normalizer)
	assert.Equal(t, 20, cfg.Detection().Highlight.MinPixels)
	assert.Equal(t, 1000, cfg.Detection().Highlight.Normalizer)
	assert.Equal(t, 0, cfg.Detection().Parallelism)
	assert.Equal(t, 3*time.Second, cfg.Telemetry().MaxAge)
	assert.Equal(t, 250*time.Millisecond, cfg.Telemetry().Debounce)
	assert.Empty(t, cfg.RegionsFile())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Core Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		err := cfg.Validate()
		assert.NoError(t, err, "A valid config should not produce a validation error")

		cfgBadMaxAge := *cfg
		cfgBadMaxAge.TelemetryCfg.MaxAge = 0
		err = cfgBadMaxAge.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.max_age must be a positive duration")
	})

	t.Run("Capture Validation", func(t *testing.T) {
		valid := CaptureConfig{
			Source: "screen",
			Region: RegionConfig{Width: 765, Height: 503},
			Cache:  CacheConfig{Enabled: true, Capacity: 8},
		}
		assert.NoError(t, valid.Validate())

		unknownSource := valid
		unknownSource.Source = "webcam"
		err := unknownSource.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "source must be one of screen, cdp, replay")

		negativeRegion := valid
		negativeRegion.Region.Height = -1
		err = negativeRegion.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "region dimensions must not be negative")

		cdpWithoutURL := valid
		cdpWithoutURL.Source = "cdp"
		err = cdpWithoutURL.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cdp.attach_url is required")

		replayWithoutPaths := valid
		replayWithoutPaths.Source = "replay"
		err = replayWithoutPaths.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "replay.paths is required")

		cacheNoCapacity := valid
		cacheNoCapacity.Cache.Capacity = 0
		err = cacheNoCapacity.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache.capacity must be a positive integer")
	})

	t.Run("Detection Validation", func(t *testing.T) {
		valid := DetectionConfig{
			Arrow:     CueConfig{MinPixels: 10, Normalizer: 500},
			Highlight: CueConfig{MinPixels: 20, Normalizer: 1000},
		}
		assert.NoError(t, valid.Validate())

		zeroSupport := valid
		zeroSupport.Arrow.MinPixels = 0
		err := zeroSupport.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "min_pixels must be a positive integer")

		zeroNormalizer := valid
		zeroNormalizer.Highlight.Normalizer = 0
		err = zeroNormalizer.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "normalizer must be a positive integer")

		negativeParallelism := valid
		negativeParallelism.Parallelism = -2
		err = negativeParallelism.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "parallelism must not be negative")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
capture:
  source: replay
  region:
    width: 520
    height: 480
  replay:
    paths:
      - /tmp/frames/tick-001.png
detection:
  parallelism: 4
telemetry:
  export_path: /tmp/session-export.json
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		err := v.ReadConfig(bytes.NewBuffer(yamlBytes))
		require.NoError(t, err)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "replay", cfg.Capture().Source)
		assert.Equal(t, []string{"/tmp/frames/tick-001.png"}, cfg.Capture().Replay.Paths)
		assert.Equal(t, 520, cfg.Capture().Region.Width)
		assert.Equal(t, 4, cfg.Detection().Parallelism)
		assert.Equal(t, "/tmp/session-export.json", cfg.Telemetry().ExportPath)
		// Defaults still fill the gaps.
		assert.Equal(t, "info", cfg.Logger().Level)
		assert.Equal(t, 10, cfg.Detection().Arrow.MinPixels)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("detection.arrow.min_pixels", 0) // Intentionally invalid

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "min_pixels must be a positive integer")
	})
}

// -- Struct and Mapping Tests --

func TestConfigStructureMapping(t *testing.T) {
	yamlInput := `
logger:
  level: debug
  log_file: /var/log/spyglass.log
capture:
  cdp:
    attach_url: ws://127.0.0.1:9222/devtools/browser/abc
    settle: 150ms
telemetry:
  max_age: 5s
regions_file: /etc/spyglass/regions.yaml
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewBufferString(yamlInput))
	require.NoError(t, err)

	var cfg Config
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "/var/log/spyglass.log", cfg.Logger().LogFile)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.Capture().CDP.AttachURL)
	assert.Equal(t, 150*time.Millisecond, cfg.Capture().CDP.Settle)
	assert.Equal(t, 5*time.Second, cfg.Telemetry().MaxAge)
	assert.Equal(t, "/etc/spyglass/regions.yaml", cfg.RegionsFile())
}
