// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

// Timer measures elapsed time against its Clock's counter and answers
// expiration queries. A Timer belongs to exactly one Clock for its
// whole life.
//
// A Timer is either stopped or running. While running, it accumulates
// elapsed time lazily: the counter is re-sampled and folded in whenever
// the Timer is queried or its Clock is polled (a catch-up advance).
// While stopped, the elapsed span stays frozen at its last computed
// value.
//
// The handle resolves through its Clock's arena on every call. After
// Close, or after the Clock itself is closed, the handle goes stale:
// mutating operations do nothing and queries return zero values.
type Timer struct {
	clock *Clock
	index int
	gen   uint32
}

// resolve returns this handle's Clock and backing slot, or nils when
// the handle is stale.
func (t *Timer) resolve() (*Clock, *slot) {
	if t == nil || t.clock == nil || t.index >= len(t.clock.slots) {
		return nil, nil
	}

	s := &t.clock.slots[t.index]
	if !s.live || s.gen != t.gen {
		return nil, nil
	}

	return t.clock, s
}

// Start begins measuring elapsed time from the current counter sample.
// Any previously accumulated span is discarded, including when the
// Timer is already running: starting a running Timer restarts it.
func (t *Timer) Start() {
	if c, s := t.resolve(); s != nil {
		c.restart(s)
	}
}

// Stop performs a final catch-up advance and freezes the elapsed span.
// Stopping an already-stopped Timer is a no-op.
func (t *Timer) Stop() {
	c, s := t.resolve()
	if s == nil || !s.running {
		return
	}

	c.advance(s, c.source())
	s.running = false
}

// Running reports whether this Timer is currently measuring.
func (t *Timer) Running() bool {
	_, s := t.resolve()
	return s != nil && s.running
}

// Elapsed returns the span accumulated by this Timer. A running Timer
// is caught up to the current counter sample first; a stopped Timer
// reports its frozen value.
func (t *Timer) Elapsed() Duration {
	c, s := t.resolve()
	if s == nil {
		return Duration{}
	}

	if s.running {
		c.advance(s, c.source())
	}

	return s.elapsed
}

// ExpireAfter starts this Timer with a zero elapsed span and arms it to
// expire once interval has accumulated. Use the unit constructors for
// the common cases, e.g. ExpireAfter(Milliseconds(2)).
func (t *Timer) ExpireAfter(interval Duration) {
	c, s := t.resolve()
	if s == nil {
		return
	}

	c.restart(s)
	s.expireInterval = interval
}

// Expired performs a catch-up advance and then reports whether the
// accumulated span has reached the armed interval. On a stopped Timer
// the frozen span is compared, so the answer no longer changes with the
// counter. With no counter movement in between, repeated calls return
// the same answer.
func (t *Timer) Expired() bool {
	c, s := t.resolve()
	if s == nil {
		return false
	}

	if s.running {
		c.advance(s, c.source())
	}

	return s.elapsed.GreaterEqual(s.expireInterval)
}

// Advance re-arms a periodic Timer. After a catch-up advance, if the
// Timer has expired, exactly one interval is subtracted from the
// accumulated span. The overrun beyond the interval is preserved rather
// than reset, so a periodic Timer does not drift short: calling Advance
// repeatedly while overrun fires once per whole interval accumulated,
// and the next Expired answers for the remainder.
//
// If the Timer has not expired yet, the accumulated span is reset to
// zero, discarding the call. Advance does nothing on a stopped Timer.
func (t *Timer) Advance() {
	c, s := t.resolve()
	if s == nil || !s.running {
		return
	}

	c.advance(s, c.source())
	if s.elapsed.GreaterEqual(s.expireInterval) {
		s.elapsed = s.elapsed.Sub(s.expireInterval)
	} else {
		s.elapsed = Duration{}
	}
}

// Restart resets a running Timer to a zero elapsed span measured from
// the current counter sample, keeping its armed interval. A stopped
// Timer is left untouched.
func (t *Timer) Restart() {
	if c, s := t.resolve(); s != nil && s.running {
		c.restart(s)
	}
}

// Close detaches this Timer from its Clock and releases its storage for
// reuse. The handle goes stale: all further operations through it, and
// through any copies of it, are defined no-ops. Close is idempotent.
func (t *Timer) Close() {
	c, _ := t.resolve()
	if c == nil {
		return
	}

	c.release(t.index)
	t.clock = nil
}
