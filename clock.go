// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

import (
	"errors"
	"math"
)

var (
	// ErrNoSource is returned by NewClock when no counter Source
	// has been supplied.
	ErrNoSource = errors.New("a counter source is required")

	// ErrClockClosed is returned by Clock methods to indicate that the
	// Clock has already been closed.
	ErrClockClosed = errors.New("the clock has been closed")
)

// slot is the arena record backing a single Timer. Slots are reused
// through the Clock's free list; gen distinguishes the current
// occupant from stale handles to a previous one.
type slot struct {
	live bool
	gen  uint32

	// running gates advancement. checkpoint is only meaningful
	// while running is set.
	running    bool
	checkpoint uint32

	elapsed        Duration
	expireInterval Duration
}

// Clock owns a counter Source along with the fixed parameters that give
// its samples meaning: the wrap boundary and the tick-to-nanosecond
// scale. It also owns the storage for every Timer created from it.
//
// A Clock performs no synchronization of its own. One logical thread of
// control is expected to drive both Poll and all Timer operations; see
// the package documentation.
type Clock struct {
	source    Source
	maxTime   uint32
	nsPerTick uint32

	slots  []slot
	free   []int
	live   int
	closed bool
}

// ClockOption is a configurable option for tailoring a Clock.
type ClockOption interface {
	apply(*Clock) error
}

type clockOptionFunc func(*Clock) error

func (f clockOptionFunc) apply(c *Clock) error { return f(c) }

// WithMaxTime sets the maximum raw value the counter reports before
// wrapping to zero. If unset, the full uint32 range is assumed.
func WithMaxTime(maxTime uint32) ClockOption {
	return clockOptionFunc(func(c *Clock) error {
		c.maxTime = maxTime
		return nil
	})
}

// WithNanosPerTick sets the duration of one counter tick in
// nanoseconds. If unset or zero, one nanosecond per tick is assumed.
func WithNanosPerTick(ns uint32) ClockOption {
	return clockOptionFunc(func(c *Clock) error {
		if ns == 0 {
			ns = 1
		}

		c.nsPerTick = ns
		return nil
	})
}

// WithCapacity preallocates storage for n timers. Combined with
// creating all timers up front, this keeps the Clock allocation-free
// after setup. Nonpositive values are ignored.
func WithCapacity(n int) ClockOption {
	return clockOptionFunc(func(c *Clock) error {
		if n > 0 {
			c.slots = make([]slot, 0, n)
			c.free = make([]int, 0, n)
		}

		return nil
	})
}

// NewClock constructs a Clock over the supplied counter Source using
// the given options. The source is required; everything else defaults
// to a full-range counter counting nanoseconds.
//
// Beyond the nil-source check, the parameters are trusted: a scale or
// boundary inconsistent with the real counter produces wrong elapsed
// times, not errors.
func NewClock(source Source, opts ...ClockOption) (*Clock, error) {
	if source == nil {
		return nil, ErrNoSource
	}

	c := &Clock{
		source:    source,
		maxTime:   math.MaxUint32,
		nsPerTick: 1,
	}

	for _, o := range opts {
		if err := o.apply(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewTimer creates a Timer attached to this Clock. The Timer starts out
// stopped with a zero elapsed span and a zero expire interval.
//
// The returned handle stays valid until Timer.Close or Clock.Close,
// after which every operation through it is a defined no-op.
func (c *Clock) NewTimer() (*Timer, error) {
	if c.closed {
		return nil, ErrClockClosed
	}

	var idx int
	if n := len(c.free); n > 0 {
		idx = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, slot{})
		idx = len(c.slots) - 1
	}

	s := &c.slots[idx]
	s.live = true
	s.running = false
	s.checkpoint = 0
	s.elapsed = Duration{}
	s.expireInterval = Duration{}
	c.live++

	return &Timer{clock: c, index: idx, gen: s.gen}, nil
}

// Len returns the count of live timers attached to this Clock.
func (c *Clock) Len() int {
	return c.live
}

// Poll samples the counter once and folds the newly elapsed ticks into
// every running Timer, each against its own checkpoint. Timers started
// at different instants accumulate different amounts from the same
// sample.
//
// Calling Poll on the caller's polling interval keeps even unqueried
// timers current, which is what bounds the gap between samples and
// upholds the at-most-one-wrap contract.
func (c *Clock) Poll() {
	if c.closed {
		return
	}

	now := c.source()
	for i := range c.slots {
		if c.slots[i].live {
			c.advance(&c.slots[i], now)
		}
	}
}

// Close detaches and invalidates every live Timer, then marks this
// Clock closed. Outstanding Timer handles become defined no-ops and no
// new timers can be created.
//
// This method is idempotent. If this Clock is already closed, this
// method does nothing and returns ErrClockClosed.
func (c *Clock) Close() error {
	if c.closed {
		return ErrClockClosed
	}

	for i := range c.slots {
		if c.slots[i].live {
			c.release(i)
		}
	}

	c.closed = true
	return nil
}

// advance folds the ticks elapsed since s.checkpoint into s.elapsed and
// moves the checkpoint up to now. Stopped slots and stale samples
// (non-positive diffs) are left untouched.
func (c *Clock) advance(s *slot, now uint32) {
	if !s.running {
		return
	}

	diff := Diff(now, s.checkpoint, c.maxTime)
	if diff <= 0 {
		return
	}

	// Scale in 64 bits and peel whole seconds off first, so Add only
	// ever sees a sub-second amount.
	ns := uint64(diff) * uint64(c.nsPerTick)
	s.elapsed.Seconds += uint32(ns / nanosPerSecond)
	s.elapsed = s.elapsed.Add(uint32(ns % nanosPerSecond))
	s.checkpoint = now
}

// restart zeroes a slot's accumulator and checkpoints the current
// counter sample. This is the common entry into the running state for
// Start, ExpireAfter and Restart.
func (c *Clock) restart(s *slot) {
	s.checkpoint = c.source()
	s.elapsed = Duration{}
	s.running = true
}

// release returns a slot to the free list and bumps its generation so
// outstanding handles to it stop resolving.
func (c *Clock) release(idx int) {
	s := &c.slots[idx]
	s.live = false
	s.running = false
	s.gen++
	c.free = append(c.free, idx)
	c.live--
}
