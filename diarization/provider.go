package diarization

import "context"

// Provider is the interface that diarization backends must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
	// Diarize sends audio for speaker diarization and blocks until the
	// job reaches a terminal state or ctx is done. It never returns a
	// partial result: on error the segments are nil.
	Diarize(ctx context.Context, req Request) (*Response, error)
}
