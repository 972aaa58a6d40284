// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Capture() config.CaptureConfig {
	args := m.Called()
	return args.Get(0).(config.CaptureConfig)
}

func (m *MockConfig) Detection() config.DetectionConfig {
	args := m.Called()
	return args.Get(0).(config.DetectionConfig)
}

func (m *MockConfig) Telemetry() config.TelemetryConfig {
	args := m.Called()
	return args.Get(0).(config.TelemetryConfig)
}

func (m *MockConfig) RegionsFile() string {
	args := m.Called()
	return args.String(0)
}

// -- Frame Source Mock --

// MockSource mocks the capture.Source interface. The same method set
// satisfies vision.FrameSource, so one mock serves both seams.
type MockSource struct {
	mock.Mock
}

// Capture provides a mock function for frame grabs.
func (m *MockSource) Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	args := m.Called(ctx, region)
	frame, _ := args.Get(0).(*schemas.Frame)
	return frame, args.Error(1)
}
