package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicolasrigourd/pos-mobile/internal/scan/domain"
)

const defaultReadyWait = 2 * time.Second

// Controller drives one scan session at a time: camera acquisition with
// constraint fallback, display binding, the continuous decode loop and full
// teardown on every exit path. Stream and decode handles are owned by the
// controller and never leave it.
type Controller struct {
	camera   Camera
	surface  DisplaySurface
	decoder  Decoder
	feedback Feedback
	sink     Sink
	tiers    []Constraints

	// readyWait bounds the wait for the display surface; a surface that
	// never mounts ends the session with KindDisplayTimeout.
	readyWait time.Duration
	log       *slog.Logger

	mu         sync.Mutex
	phase      domain.Phase
	lastErr    *domain.Error
	stream     Stream
	cancel     context.CancelFunc
	accepted   bool
	generation uint64
	sessionID  string
}

// Options tune a Controller; zero values fall back to defaults.
type Options struct {
	Tiers     []Constraints
	ReadyWait time.Duration
	Feedback  Feedback
}

func NewController(camera Camera, surface DisplaySurface, decoder Decoder, sink Sink, log *slog.Logger, opts Options) *Controller {
	tiers := opts.Tiers
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	readyWait := opts.ReadyWait
	if readyWait <= 0 {
		readyWait = defaultReadyWait
	}

	return &Controller{
		camera:    camera,
		surface:   surface,
		decoder:   decoder,
		feedback:  opts.Feedback,
		sink:      sink,
		tiers:     tiers,
		readyWait: readyWait,
		log:       log,
		phase:     domain.PhaseIdle,
	}
}

// Status is a snapshot of the session state.
type Status struct {
	SessionID string
	Phase     domain.Phase
	LastError *domain.Error
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		SessionID: c.sessionID,
		Phase:     c.phase,
		LastError: c.lastErr,
	}
}

// Open starts a new scan session. Any remnants of a previous session are
// forcefully released first, even if that session was already supposed to
// be closed. The returned error is also kept as the session's last error.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	c.releaseLocked()
	c.generation++
	gen := c.generation
	c.lastErr = nil
	c.sessionID = uuid.NewString()
	sessionID := c.sessionID

	if !c.camera.Supported() {
		e := &domain.Error{
			Kind: domain.KindCapabilityUnavailable,
			Err:  errors.New("platform exposes no camera acquisition capability"),
		}
		c.lastErr = e
		c.phase = domain.PhaseIdle
		c.mu.Unlock()
		c.log.Warn("scan open rejected", slog.String("session", sessionID), slog.String("kind", string(e.Kind)))
		return e
	}

	c.phase = domain.PhaseOpening
	sessCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.log.Info("scan session opening", slog.String("session", sessionID))

	stream, err := c.acquire(sessCtx, gen, sessionID)
	if err != nil || stream == nil {
		return err
	}

	if err := c.bind(sessCtx, gen, stream); err != nil || !c.startLoop(gen, stream) {
		return err
	}

	c.log.Info("scan session streaming", slog.String("session", sessionID))
	return nil
}

// acquire walks the constraint ladder. Tier failures degrade silently to
// the next tier; only exhaustion surfaces an error.
func (c *Controller) acquire(ctx context.Context, gen uint64, sessionID string) (Stream, error) {
	var lastCause error

	for i, tier := range c.tiers {
		if !c.setPhase(gen, domain.PhaseAcquiring) {
			return nil, nil // session superseded or closed
		}

		stream, err := c.camera.Acquire(ctx, tier)
		if err == nil {
			if !c.adopt(gen, stream) {
				stopTracks(stream)
				return nil, nil
			}
			return stream, nil
		}
		if ctx.Err() != nil {
			// Close cancelled the in-flight acquisition; teardown
			// already happened there.
			return nil, nil
		}

		lastCause = err
		c.log.Warn("constraint tier failed",
			slog.String("session", sessionID),
			slog.Int("tier", i),
			slog.String("facing", tier.Facing),
			slog.Any("err", err),
		)
	}

	return nil, c.fail(gen, domain.KindOf(lastCause), lastCause)
}

// bind waits for the display surface and attaches the stream to it.
func (c *Controller) bind(ctx context.Context, gen uint64, stream Stream) error {
	timer := time.NewTimer(c.readyWait)
	defer timer.Stop()

	select {
	case <-c.surface.Ready():
	case <-ctx.Done():
		return nil
	case <-timer.C:
		return c.fail(gen, domain.KindDisplayTimeout,
			fmt.Errorf("display surface not ready within %s", c.readyWait))
	}

	if err := c.surface.Bind(stream); err != nil {
		return c.fail(gen, domain.KindDisplayTargetGone, err)
	}
	return nil
}

// startLoop transitions to Streaming and starts the decode loop. The loop
// runs detached from the opener's context; only Close stops it.
func (c *Controller) startLoop(gen uint64, stream Stream) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}

	if c.cancel != nil {
		c.cancel() // the open-scoped context is no longer needed
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.phase = domain.PhaseStreaming
	c.accepted = false
	c.mu.Unlock()

	attempts := c.decoder.Run(loopCtx, c.surface, stream)
	go c.consume(loopCtx, gen, attempts)
	return true
}

// consume drains decode attempts until the session closes. The first
// decoded value is accepted exactly once; everything after it is discarded.
func (c *Controller) consume(ctx context.Context, gen uint64, attempts <-chan Attempt) {
	for {
		select {
		case <-ctx.Done():
			return
		case att, ok := <-attempts:
			if !ok {
				return
			}
			if att.Code == "" {
				continue
			}
			if !c.accept(gen) {
				continue
			}

			c.log.Info("barcode detected", slog.String("code", att.Code))
			if c.feedback != nil {
				c.feedback.Detected()
			}
			c.sink.AcceptCode(context.Background(), att.Code)
			c.closeIf(gen)
			return
		}
	}
}

// accept gates the single-shot debounce: it succeeds at most once per
// session, and only while that session is still streaming.
func (c *Controller) accept(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.phase != domain.PhaseStreaming || c.accepted {
		return false
	}
	c.accepted = true
	return true
}

// Close tears the session down: decode loop, captured tracks, display
// binding, session flags, in that order. Safe to call from any state, any
// number of times; it never fails.
func (c *Controller) Close() {
	c.mu.Lock()
	wasIdle := c.phase == domain.PhaseIdle && c.stream == nil && c.cancel == nil
	sessionID := c.sessionID
	c.closeLocked()
	c.mu.Unlock()

	if !wasIdle {
		c.log.Info("scan session closed", slog.String("session", sessionID))
	}
}

// closeIf closes the session only if it is still the one the caller owns;
// a session opened in the meantime is left untouched.
func (c *Controller) closeIf(gen uint64) {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return
	}
	sessionID := c.sessionID
	c.closeLocked()
	c.mu.Unlock()

	c.log.Info("scan session closed", slog.String("session", sessionID))
}

func (c *Controller) closeLocked() {
	c.phase = domain.PhaseClosing
	c.releaseLocked()
	c.generation++
	c.lastErr = nil
	c.phase = domain.PhaseIdle
	c.sessionID = ""
}

// fail releases everything the session holds and records the terminal
// error, unless the session was superseded in the meantime.
func (c *Controller) fail(gen uint64, kind domain.ErrorKind, cause error) error {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return nil
	}
	c.phase = domain.PhaseError
	c.releaseLocked()
	e := &domain.Error{Kind: kind, Err: cause}
	c.lastErr = e
	c.phase = domain.PhaseIdle
	sessionID := c.sessionID
	c.mu.Unlock()

	c.log.Warn("scan session failed",
		slog.String("session", sessionID),
		slog.String("kind", string(kind)),
		slog.Any("err", cause),
	)
	return e
}

// releaseLocked frees every handle the current session may hold. Idempotent;
// callers hold c.mu.
func (c *Controller) releaseLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.decoder.Reset()
	if c.stream != nil {
		stopTracks(c.stream)
		c.stream = nil
	}
	c.surface.Unbind()
	c.accepted = false
}

// setPhase advances the session phase if it still owns the controller.
func (c *Controller) setPhase(gen uint64, p domain.Phase) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.phase = p
	return true
}

// adopt stores the acquired stream under the session, or reports that the
// session is gone and the stream must be stopped by the caller.
func (c *Controller) adopt(gen uint64, stream Stream) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.stream = stream
	return true
}

func stopTracks(s Stream) {
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
