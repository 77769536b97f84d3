package core

import "context"

// Player defines the interface for music playback control.
type Player interface {
	// Playback control
	Play(ctx context.Context) error
	PlayURI(ctx context.Context, uri string) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error

	// State queries
	Snapshot(ctx context.Context) (Snapshot, error)
	GetQueue(ctx context.Context) (*Queue, error)

	// Queue manipulation
	AddToQueue(ctx context.Context, trackURI string) error
}
