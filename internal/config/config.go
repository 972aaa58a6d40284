package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Capture() CaptureConfig
	Detection() DetectionConfig
	Telemetry() TelemetryConfig
	RegionsFile() string
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	CaptureCfg   CaptureConfig   `mapstructure:"capture" yaml:"capture"`
	DetectionCfg DetectionConfig `mapstructure:"detection" yaml:"detection"`
	TelemetryCfg TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	// RegionsPath optionally points at a YAML file overriding the built-in
	// world region table.
	RegionsPath string `mapstructure:"regions_file" yaml:"regions_file"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Capture() CaptureConfig     { return c.CaptureCfg }
func (c *Config) Detection() DetectionConfig { return c.DetectionCfg }
func (c *Config) Telemetry() TelemetryConfig { return c.TelemetryCfg }
func (c *Config) RegionsFile() string        { return c.RegionsPath }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// CaptureConfig selects and tunes the frame acquisition backend.
type CaptureConfig struct {
	// Source picks the backend: "screen", "cdp" or "replay".
	Source string       `mapstructure:"source" yaml:"source"`
	Region RegionConfig `mapstructure:"region" yaml:"region"`
	CDP    CDPConfig    `mapstructure:"cdp" yaml:"cdp"`
	Replay ReplayConfig `mapstructure:"replay" yaml:"replay"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
}

// RegionConfig is the default capture rectangle in screen coordinates.
type RegionConfig struct {
	X      int `mapstructure:"x" yaml:"x"`
	Y      int `mapstructure:"y" yaml:"y"`
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// CDPConfig tunes the DevTools-protocol capture backend.
type CDPConfig struct {
	// AttachURL is the websocket debugger URL of an already running
	// Chromium that hosts the client. Empty disables the backend.
	AttachURL string        `mapstructure:"attach_url" yaml:"attach_url"`
	Settle    time.Duration `mapstructure:"settle" yaml:"settle"`
}

// ReplayConfig points the replay backend at recorded frames.
type ReplayConfig struct {
	// Paths are PNG screenshots served in order; the last repeats.
	Paths []string `mapstructure:"paths" yaml:"paths"`
}

// CacheConfig controls the optional last-frame cache.
type CacheConfig struct {
	Enabled  bool `mapstructure:"enabled" yaml:"enabled"`
	Capacity int  `mapstructure:"capacity" yaml:"capacity"`
}

// DetectionConfig carries the tunable support thresholds for the two cue
// detectors. The color predicates themselves are fixed; only the pixel
// support floor and the confidence normalizer are configurable, and the
// defaults are the calibrated production values.
type DetectionConfig struct {
	Arrow     CueConfig `mapstructure:"arrow" yaml:"arrow"`
	Highlight CueConfig `mapstructure:"highlight" yaml:"highlight"`
	// Parallelism bounds the scan workers per call. Zero means one per CPU.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
}

// CueConfig tunes a single cue detector.
type CueConfig struct {
	MinPixels  int `mapstructure:"min_pixels" yaml:"min_pixels"`
	Normalizer int `mapstructure:"normalizer" yaml:"normalizer"`
}

// TelemetryConfig locates the client telemetry feeds.
type TelemetryConfig struct {
	// ExportPath is the JSON file the client plugin rewrites on every game
	// tick. Empty disables telemetry; snapshots are then always stale.
	ExportPath string `mapstructure:"export_path" yaml:"export_path"`
	// StreamPath is the line-delimited event log written by the packet
	// proxy. Empty disables the stream follower.
	StreamPath string        `mapstructure:"stream_path" yaml:"stream_path"`
	MaxAge     time.Duration `mapstructure:"max_age" yaml:"max_age"`
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "spyglass")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Capture --
	v.SetDefault("capture.source", "screen")
	// Fixed-size client window.
	v.SetDefault("capture.region.x", 0)
	v.SetDefault("capture.region.y", 0)
	v.SetDefault("capture.region.width", 765)
	v.SetDefault("capture.region.height", 503)
	v.SetDefault("capture.cdp.attach_url", "")
	v.SetDefault("capture.cdp.settle", "300ms")
	v.SetDefault("capture.replay.paths", []string{})
	v.SetDefault("capture.cache.enabled", true)
	v.SetDefault("capture.cache.capacity", 8)

	// -- Detection --
	v.SetDefault("detection.arrow.min_pixels", 10)
	v.SetDefault("detection.arrow.normalizer", 500)
	v.SetDefault("detection.highlight.min_pixels", 20)
	v.SetDefault("detection.highlight.normalizer", 1000)
	v.SetDefault("detection.parallelism", 0)

	// -- Telemetry --
	v.SetDefault("telemetry.export_path", "")
	v.SetDefault("telemetry.stream_path", "")
	v.SetDefault("telemetry.max_age", "3s")
	v.SetDefault("telemetry.debounce", "250ms")

	// -- Regions --
	v.SetDefault("regions_file", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.CaptureCfg.Validate(); err != nil {
		return fmt.Errorf("capture configuration invalid: %w", err)
	}
	if err := c.DetectionCfg.Validate(); err != nil {
		return fmt.Errorf("detection configuration invalid: %w", err)
	}
	if c.TelemetryCfg.MaxAge <= 0 {
		return fmt.Errorf("telemetry.max_age must be a positive duration")
	}
	return nil
}

// Validate checks the capture settings.
func (c *CaptureConfig) Validate() error {
	switch c.Source {
	case "screen", "cdp", "replay":
	default:
		return fmt.Errorf("source must be one of screen, cdp, replay; got %q", c.Source)
	}
	if c.Region.Width < 0 || c.Region.Height < 0 {
		return fmt.Errorf("region dimensions must not be negative")
	}
	if c.Source == "cdp" && c.AttachURL() == "" {
		return fmt.Errorf("cdp.attach_url is required when source is cdp")
	}
	if c.Source == "replay" && len(c.Replay.Paths) == 0 {
		return fmt.Errorf("replay.paths is required when source is replay")
	}
	if c.Cache.Enabled && c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be a positive integer when the cache is enabled")
	}
	return nil
}

// AttachURL returns the configured DevTools endpoint.
func (c *CaptureConfig) AttachURL() string { return c.CDP.AttachURL }

// Validate checks the detection thresholds.
func (d *DetectionConfig) Validate() error {
	for name, cue := range map[string]CueConfig{"arrow": d.Arrow, "highlight": d.Highlight} {
		if cue.MinPixels <= 0 {
			return fmt.Errorf("%s.min_pixels must be a positive integer", name)
		}
		if cue.Normalizer <= 0 {
			return fmt.Errorf("%s.normalizer must be a positive integer", name)
		}
	}
	if d.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative")
	}
	return nil
}
