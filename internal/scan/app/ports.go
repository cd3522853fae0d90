package app

import (
	"context"
)

// Constraints is one candidate set of camera acquisition parameters.
type Constraints struct {
	Facing    string // "rear" or "any"
	MaxWidth  int    // 0 means unbounded
	MaxHeight int
}

// DefaultTiers is the constraint fallback ladder, most preferred first.
// Capability negotiation is unreliable across devices, so a failed tier
// degrades to the next one instead of aborting.
func DefaultTiers() []Constraints {
	return []Constraints{
		{Facing: "rear", MaxWidth: 1280, MaxHeight: 720},
		{Facing: "rear"},
		{Facing: "any"},
	}
}

// Track is one captured media track.
type Track interface {
	Stop()
}

// Stream is a live capture handle owned by exactly one scan session.
type Stream interface {
	Tracks() []Track
}

// Camera is the platform's acquisition capability.
type Camera interface {
	Supported() bool
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// DisplaySurface is the UI-owned target a stream is shown on. Ready is
// closed once the target is mounted; Bind fails if the target is gone.
type DisplaySurface interface {
	Ready() <-chan struct{}
	Bind(s Stream) error
	Unbind()
}

// Attempt is one decode pass over a captured frame. An empty Code means the
// frame held no readable barcode.
type Attempt struct {
	Code string
}

// Decoder turns a bound surface into a stream of decode attempts. Run emits
// until ctx is cancelled; Reset terminates the sequence and releases the
// engine's internal resources.
type Decoder interface {
	Run(ctx context.Context, surface DisplaySurface, stream Stream) <-chan Attempt
	Reset()
}

// Feedback is an optional detection signal (vibration, beep). Fire and
// forget; a nil Feedback is valid.
type Feedback interface {
	Detected()
}

// Sink consumes the single accepted barcode value of a session.
type Sink interface {
	AcceptCode(ctx context.Context, code string)
}
