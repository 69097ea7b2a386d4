// Package spinner animates a single character cell while a long-running
// operation proceeds. The package separates the frame data (package frames)
// from the animation loop and its stop/cleanup protocol, which live here.
package spinner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"dotspin/internal/completion"
	"dotspin/internal/frames"
	"dotspin/internal/terminal"

	"github.com/google/uuid"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 100 * time.Millisecond

// errCancelled is returned by Handle.write once Stop has claimed the sink.
var errCancelled = errors.New("spinner cancelled")

// Spinner holds the configuration of an animation: where to write, what to
// write, and how long to wait between frames.
type Spinner struct {
	out      io.Writer
	frames   []frames.Frame
	interval time.Duration
}

// New creates a Spinner writing cycle to out, one frame per interval.
// An empty cycle falls back to the braille block and a non-positive interval
// to DefaultInterval.
func New(out io.Writer, cycle []frames.Frame, interval time.Duration) *Spinner {
	if len(cycle) == 0 {
		cycle = frames.Braille()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Spinner{
		out:      out,
		frames:   cycle,
		interval: interval,
	}
}

// Handle controls one running animation. Only one Handle should write to a
// given sink at a time.
type Handle struct {
	id        uuid.UUID
	spinner   *Spinner
	cancelled atomic.Bool        // set once by Stop, read before every write
	mu        sync.Mutex         // serializes writes to the sink
	wake      chan struct{}      // closed by Stop to end the interval wait early
	exited    chan struct{}      // closed when the loop goroutine returns
	stopOnce  sync.Once          // cleanup runs at most once
	signal    *completion.Signal // settled by the loop on failure or by Stop
}

// Start hides the cursor and begins the animation in a background goroutine.
func (s *Spinner) Start() *Handle {
	h := &Handle{
		id:      uuid.New(),
		spinner: s,
		wake:    make(chan struct{}),
		exited:  make(chan struct{}),
		signal:  completion.New(),
	}

	go h.run()

	return h
}

// ID returns the identifier of this run.
func (h *Handle) ID() string {
	return h.id.String()
}

// run is the animation loop goroutine. It writes the hide-cursor sequence,
// then cycles through the frames until Stop is called. A write failure
// rejects the completion signal and ends the loop.
func (h *Handle) run() {
	defer close(h.exited)

	if err := h.write([]byte(terminal.HideCursor)); err != nil {
		h.fail("hide cursor", err)
		return
	}

	for {
		for _, f := range h.spinner.frames {
			if err := h.write(f); err != nil {
				h.fail("write frame", err)
				return
			}
			if !h.sleep() {
				return
			}
		}
	}
}

// write sends p to the sink unless Stop has already been called.
func (h *Handle) write(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled.Load() {
		return errCancelled
	}
	_, err := h.spinner.out.Write(p)
	return err
}

// sleep waits one interval. It returns false if Stop was called meanwhile.
func (h *Handle) sleep() bool {
	timer := time.NewTimer(h.spinner.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-h.wake:
		return false
	}
}

func (h *Handle) fail(phase string, err error) {
	if errors.Is(err, errCancelled) {
		return
	}
	h.signal.Reject(fmt.Errorf("%s: %w", phase, err))
}

// Stop cancels the animation, erases the glyph, shows the cursor, and
// returns the final outcome. The cleanup sequence is written after any
// in-flight frame and before nothing else. Stop is safe to call repeatedly
// and from several goroutines; every call returns the same outcome.
func (h *Handle) Stop() error {
	h.stopOnce.Do(func() {
		h.cancelled.Store(true)
		close(h.wake)

		h.mu.Lock()
		_, err := h.spinner.out.Write([]byte(terminal.Cleanup))
		h.mu.Unlock()

		if err != nil {
			h.signal.Reject(fmt.Errorf("cleanup: %w", err))
		} else {
			h.signal.Fulfill()
		}

		<-h.exited
	})

	return h.signal.Wait(context.Background())
}

// Done returns a channel that is closed once the run has settled, either by
// Stop or by a failure inside the loop.
func (h *Handle) Done() <-chan struct{} {
	return h.signal.Done()
}

// Err returns the failure that settled the run, or nil.
func (h *Handle) Err() error {
	return h.signal.Err()
}

// Wait blocks until the run settles or ctx ends.
func (h *Handle) Wait(ctx context.Context) error {
	return h.signal.Wait(ctx)
}

// Run starts the spinner, waits until trigger fires, ctx is done, or the
// loop fails, and then stops it. The cursor is restored on every exit path.
func (s *Spinner) Run(ctx context.Context, trigger <-chan struct{}) (err error) {
	h := s.Start()
	defer func() {
		if stopErr := h.Stop(); stopErr != nil {
			err = fmt.Errorf("spinner %s: %w", h.ID(), stopErr)
		}
	}()

	select {
	case <-trigger:
	case <-ctx.Done():
	case <-h.Done():
	}

	return nil
}
