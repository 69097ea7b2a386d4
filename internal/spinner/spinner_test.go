package spinner

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dotspin/internal/frames"
	"dotspin/internal/terminal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errClosed = errors.New("sink closed")

// recorder is a sink that keeps every successful write as a separate chunk.
// fail, when set, is consulted before each write with the 1-based attempt
// number and the payload.
type recorder struct {
	mu       sync.Mutex
	attempts int
	writes   [][]byte
	fail     func(n int, p []byte) error
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts++
	if r.fail != nil {
		if err := r.fail(r.attempts, p); err != nil {
			return 0, err
		}
	}
	r.writes = append(r.writes, bytes.Clone(p))
	return len(p), nil
}

func (r *recorder) snapshot() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.writes))
	copy(out, r.writes)
	return out
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func failFrom(n int) func(int, []byte) error {
	return func(attempt int, _ []byte) error {
		if attempt >= n {
			return errClosed
		}
		return nil
	}
}

func countCleanups(writes [][]byte) int {
	n := 0
	for _, w := range writes {
		if string(w) == terminal.Cleanup {
			n++
		}
	}
	return n
}

func abcd() []frames.Frame {
	return frames.Build('A', 4)
}

func TestNewDefaults(t *testing.T) {
	s := New(&recorder{}, nil, 0)

	assert.Equal(t, DefaultInterval, s.interval)
	assert.Len(t, s.frames, frames.BrailleCount)
}

func TestCycleCompleteness(t *testing.T) {
	sink := &recorder{}
	cycle := abcd()
	h := New(sink, cycle, time.Millisecond).Start()

	// hide cursor + one full cycle + the first frame of the next cycle
	require.Eventually(t, func() bool { return sink.len() >= 2+len(cycle) },
		2*time.Second, time.Millisecond)
	require.NoError(t, h.Stop())

	writes := sink.snapshot()
	assert.Equal(t, terminal.HideCursor, string(writes[0]))
	for i, f := range cycle {
		assert.Equal(t, []byte(f), writes[1+i], "frame %d", i)
	}
	assert.Equal(t, []byte(cycle[0]), writes[1+len(cycle)], "cycle restarts")
	assert.Equal(t, terminal.Cleanup, string(writes[len(writes)-1]))
}

func TestEndToEndScenario(t *testing.T) {
	sink := &recorder{}
	cycle := abcd()
	h := New(sink, cycle, 200*time.Millisecond).Start()

	// Frames at t=0, 200, 400; the next would be due at 600.
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, h.Stop())

	want := [][]byte{
		[]byte(terminal.HideCursor),
		cycle[0],
		cycle[1],
		cycle[2],
		[]byte(terminal.Cleanup),
	}
	assert.Equal(t, want, sink.snapshot())
	assert.NoError(t, h.Wait(context.Background()))
}

func TestStopIsIdempotent(t *testing.T) {
	sink := &recorder{}
	h := New(sink, abcd(), time.Millisecond).Start()

	require.Eventually(t, func() bool { return sink.len() >= 3 },
		2*time.Second, time.Millisecond)

	first := h.Stop()
	second := h.Stop()

	assert.NoError(t, first)
	assert.NoError(t, second)
	assert.Equal(t, 1, countCleanups(sink.snapshot()))
}

func TestConcurrentStop(t *testing.T) {
	sink := &recorder{}
	h := New(sink, abcd(), time.Millisecond).Start()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.Stop()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, countCleanups(sink.snapshot()))
}

func TestStopBeforeFirstFrame(t *testing.T) {
	sink := &recorder{}
	h := New(sink, abcd(), 50*time.Millisecond).Start()

	require.NoError(t, h.Stop())

	writes := sink.snapshot()
	require.NotEmpty(t, writes)
	assert.Equal(t, terminal.Cleanup, string(writes[len(writes)-1]))
	assert.LessOrEqual(t, len(writes), 3, "at most hide cursor and one frame precede cleanup")

	// Nothing is written once Stop has returned.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, len(writes), sink.len())
}

func TestCleanupIsLastWrite(t *testing.T) {
	for range 50 {
		sink := &recorder{}
		h := New(sink, abcd(), 0).Start()
		require.Eventually(t, func() bool { return sink.len() >= 1 },
			2*time.Second, time.Millisecond)

		require.NoError(t, h.Stop())

		writes := sink.snapshot()
		assert.Equal(t, terminal.Cleanup, string(writes[len(writes)-1]))
		assert.Equal(t, 1, countCleanups(writes))
	}
}

func TestStopLatency(t *testing.T) {
	sink := &recorder{}
	interval := 300 * time.Millisecond
	h := New(sink, abcd(), interval).Start()

	require.Eventually(t, func() bool { return sink.len() >= 2 },
		2*time.Second, time.Millisecond)

	start := time.Now()
	require.NoError(t, h.Stop())
	assert.Less(t, time.Since(start), interval, "Stop wakes the loop instead of waiting out the interval")

	n := sink.len()
	time.Sleep(interval + 50*time.Millisecond)
	assert.Equal(t, n, sink.len())
}

func TestWriteFailureRejects(t *testing.T) {
	sink := &recorder{fail: failFrom(3)}
	h := New(sink, abcd(), time.Millisecond).Start()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop failure did not settle the run")
	}

	assert.ErrorIs(t, h.Err(), errClosed)
	assert.Contains(t, h.Err().Error(), "write frame")

	// Stop still returns the loop's failure, every time.
	err := h.Stop()
	assert.ErrorIs(t, err, errClosed)
	assert.Contains(t, err.Error(), "write frame")
	assert.Equal(t, err, h.Stop())
}

func TestHideCursorFailure(t *testing.T) {
	sink := &recorder{fail: failFrom(1)}
	h := New(sink, abcd(), time.Millisecond).Start()

	err := h.Wait(context.Background())
	require.ErrorIs(t, err, errClosed)
	assert.Contains(t, err.Error(), "hide cursor")
	assert.Equal(t, err, h.Stop())
	assert.Empty(t, sink.snapshot())
}

func TestCleanupFailure(t *testing.T) {
	sink := &recorder{fail: func(_ int, p []byte) error {
		if string(p) == terminal.Cleanup {
			return errClosed
		}
		return nil
	}}
	h := New(sink, abcd(), time.Millisecond).Start()

	err := h.Stop()
	require.ErrorIs(t, err, errClosed)
	assert.Contains(t, err.Error(), "cleanup")
}

func TestFailureRacingStop(t *testing.T) {
	for range 100 {
		sink := &recorder{fail: failFrom(1)}
		h := New(sink, abcd(), time.Millisecond).Start()

		var wg sync.WaitGroup
		results := make(chan error, 4)
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- h.Stop()
			}()
		}
		wg.Wait()
		close(results)

		outcome := h.Err()
		for err := range results {
			assert.Equal(t, outcome, err)
		}
		// Late awaiter.
		assert.Equal(t, outcome, h.Wait(context.Background()))
		if outcome != nil {
			assert.ErrorIs(t, outcome, errClosed)
		}
	}
}

func TestRunStopsOnTrigger(t *testing.T) {
	sink := &recorder{}
	trigger := make(chan struct{})

	go func() {
		for sink.len() < 2 {
			time.Sleep(time.Millisecond)
		}
		close(trigger)
	}()

	err := New(sink, abcd(), time.Millisecond).Run(context.Background(), trigger)
	require.NoError(t, err)

	writes := sink.snapshot()
	assert.Equal(t, terminal.HideCursor, string(writes[0]))
	assert.Equal(t, terminal.Cleanup, string(writes[len(writes)-1]))
}

func TestRunStopsOnContext(t *testing.T) {
	sink := &recorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := New(sink, abcd(), time.Millisecond).Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, countCleanups(sink.snapshot()))
}

func TestRunReturnsLoopFailure(t *testing.T) {
	sink := &recorder{fail: failFrom(2)}

	err := New(sink, abcd(), time.Millisecond).Run(context.Background(), nil)
	require.ErrorIs(t, err, errClosed)
}

func TestHandleID(t *testing.T) {
	s := New(&recorder{}, abcd(), time.Millisecond)
	a, b := s.Start(), s.Start()
	defer a.Stop()
	defer b.Stop()

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
