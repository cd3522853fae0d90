// Package sim provides scripted stand-ins for the camera, display surface
// and decode engine so the POS runs end to end on machines without scanning
// hardware.
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nicolasrigourd/pos-mobile/internal/scan/app"
)

type track struct{}

func (track) Stop() {}

type stream struct{}

func (stream) Tracks() []app.Track { return []app.Track{track{}} }

// Camera always grants the first constraint tier.
type Camera struct {
	log *slog.Logger
}

func NewCamera(log *slog.Logger) *Camera {
	return &Camera{log: log}
}

func (c *Camera) Supported() bool { return true }

func (c *Camera) Acquire(ctx context.Context, cons app.Constraints) (app.Stream, error) {
	c.log.Debug("sim camera acquired",
		slog.String("facing", cons.Facing),
		slog.Int("max_width", cons.MaxWidth),
	)
	return stream{}, nil
}

// Surface is mounted from the start and accepts any stream.
type Surface struct {
	mu    sync.Mutex
	ready chan struct{}
	bound app.Stream
}

func NewSurface() *Surface {
	ready := make(chan struct{})
	close(ready)
	return &Surface{ready: ready}
}

func (s *Surface) Ready() <-chan struct{} { return s.ready }

func (s *Surface) Bind(st app.Stream) error {
	s.mu.Lock()
	s.bound = st
	s.mu.Unlock()
	return nil
}

func (s *Surface) Unbind() {
	s.mu.Lock()
	s.bound = nil
	s.mu.Unlock()
}

// Decoder replays a script of barcode values, one per interval, cycling
// when the script runs out. Reset rewinds to the start of the script.
type Decoder struct {
	mu       sync.Mutex
	codes    []string
	pos      int
	interval time.Duration
}

func NewDecoder(codes []string, interval time.Duration) *Decoder {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &Decoder{codes: codes, interval: interval}
}

func (d *Decoder) Run(ctx context.Context, surface app.DisplaySurface, st app.Stream) <-chan app.Attempt {
	ch := make(chan app.Attempt)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case ch <- app.Attempt{Code: d.next()}:
			}
		}
	}()
	return ch
}

func (d *Decoder) next() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codes) == 0 {
		return ""
	}
	code := d.codes[d.pos%len(d.codes)]
	d.pos++
	return code
}

func (d *Decoder) Reset() {
	d.mu.Lock()
	d.pos = 0
	d.mu.Unlock()
}

// Feedback stands in for a device vibration on detection.
type Feedback struct {
	log *slog.Logger
}

func NewFeedback(log *slog.Logger) *Feedback {
	return &Feedback{log: log}
}

func (f *Feedback) Detected() {
	f.log.Debug("sim haptic feedback")
}
