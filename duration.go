// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

import (
	"fmt"
	"time"
)

// nanosPerSecond is the normalization boundary for Duration.Nanoseconds.
const nanosPerSecond = 1_000_000_000

// Duration is a non-negative span of time held as whole seconds plus a
// sub-second remainder. Nanoseconds is always in [0, 1e9). The zero
// value is a usable zero-length span.
//
// Unlike time.Duration, this type never collapses into a single integer,
// so repeated small additions cannot overflow and never lose
// nanoseconds. There is no negative Duration: subtraction that would go
// negative is a caller-checked precondition on Sub.
type Duration struct {
	// Seconds is the whole-second portion of this span.
	Seconds uint32 `json:"seconds" yaml:"seconds"`

	// Nanoseconds is the sub-second remainder, in [0, 1e9).
	Nanoseconds uint32 `json:"nanoseconds" yaml:"nanoseconds"`
}

// Add returns this span lengthened by ns nanoseconds. The carry is
// computed headroom-first so no intermediate sum can overflow a uint32.
//
// ns must be a sub-second quantity, i.e. less than 1e9. Callers folding
// in larger amounts peel whole seconds off first, as Clock's catch-up
// advance does.
func (d Duration) Add(ns uint32) Duration {
	headroom := nanosPerSecond - d.Nanoseconds
	if ns < headroom {
		d.Nanoseconds += ns
	} else {
		d.Seconds++
		d.Nanoseconds = ns - headroom
	}

	return d
}

// GreaterEqual tests whether this span is at least as long as o.
// Seconds are the primary key and Nanoseconds the secondary key, which
// gives a total order; equal spans compare true.
func (d Duration) GreaterEqual(o Duration) bool {
	if d.Seconds != o.Seconds {
		return d.Seconds > o.Seconds
	}

	return d.Nanoseconds >= o.Nanoseconds
}

// Sub returns this span shortened by o, borrowing a whole second when
// the minuend's Nanoseconds field is the smaller one.
//
// d.GreaterEqual(o) is a precondition. Subtracting a longer span from a
// shorter one produces garbage; callers guard with GreaterEqual first.
func (d Duration) Sub(o Duration) Duration {
	d.Seconds -= o.Seconds
	if d.Nanoseconds >= o.Nanoseconds {
		d.Nanoseconds -= o.Nanoseconds
	} else {
		d.Seconds--
		d.Nanoseconds += nanosPerSecond - o.Nanoseconds
	}

	return d
}

// IsZero tests whether this span has zero length.
func (d Duration) IsZero() bool {
	return d.Seconds == 0 && d.Nanoseconds == 0
}

// Std converts this span into a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanoseconds)
}

// String returns this span formatted as fractional seconds,
// e.g. "1.000000001s".
func (d Duration) String() string {
	return fmt.Sprintf("%d.%09ds", d.Seconds, d.Nanoseconds)
}

// MarshalText produces the string value of this Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Seconds returns a normalized span of s whole seconds.
func Seconds(s uint32) Duration {
	return Duration{Seconds: s}
}

// Milliseconds returns a normalized span of ms milliseconds.
func Milliseconds(ms uint32) Duration {
	return Duration{
		Seconds:     ms / 1_000,
		Nanoseconds: (ms % 1_000) * 1_000_000,
	}
}

// Microseconds returns a normalized span of us microseconds.
func Microseconds(us uint32) Duration {
	return Duration{
		Seconds:     us / 1_000_000,
		Nanoseconds: (us % 1_000_000) * 1_000,
	}
}

// Nanoseconds returns a normalized span of ns nanoseconds.
func Nanoseconds(ns uint32) Duration {
	return Duration{
		Seconds:     ns / nanosPerSecond,
		Nanoseconds: ns % nanosPerSecond,
	}
}

// FromStd converts a time.Duration into a Duration. Negative inputs
// clamp to the zero span.
func FromStd(d time.Duration) Duration {
	if d < 0 {
		return Duration{}
	}

	return Duration{
		Seconds:     uint32(d / time.Second),
		Nanoseconds: uint32(d % time.Second),
	}
}
