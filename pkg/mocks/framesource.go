// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	FetchNewFramesFunc func(ctx context.Context, sinceFrameNumber int64) ([]ports.CapturedFrame, error)
}

func (m *FrameSource) FetchNewFrames(ctx context.Context, sinceFrameNumber int64) ([]ports.CapturedFrame, error) {
	if m.FetchNewFramesFunc != nil {
		return m.FetchNewFramesFunc(ctx, sinceFrameNumber)
	}
	return nil, nil
}

// Ensure FrameSource implements ports.FrameSource
var _ ports.FrameSource = (*FrameSource)(nil)
