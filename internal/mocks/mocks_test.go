package mocks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/config"
	"github.com/vex0ray/spyglass/internal/mocks"
)

func TestMockConfigSatisfiesInterface(t *testing.T) {
	t.Parallel()

	var cfg config.Interface = new(mocks.MockConfig)
	require.NotNil(t, cfg)
}

func TestMockSourceHonorsCancellation(t *testing.T) {
	t.Parallel()

	src := new(mocks.MockSource)
	frame := &schemas.Frame{Pixels: make([]byte, 16), Width: 2, Height: 2}
	src.On("Capture", mock.Anything, mock.Anything).Return(frame, nil)

	got, err := src.Capture(context.Background(), schemas.Region{Width: 2, Height: 2})
	require.NoError(t, err)
	assert.Same(t, frame, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Capture(ctx, schemas.Region{Width: 2, Height: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
