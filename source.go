// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

import (
	"github.com/xmidt-org/chronon"
)

// Source supplies raw samples of a free-running counter. It is the sole
// boundary dependency of this package: typically a closure over a
// hardware register read. Any state the read needs, such as a register
// address or peripheral handle, belongs in the closure.
//
// A Source must be monotonic-with-wraparound at the boundary declared
// to its Clock, and must not wrap more than once between any two
// consecutive invocations made by this package.
type Source func() uint32

// ClockSource derives a wrapping counter Source from a chronon Clock.
// The counter reads zero at the moment of this call and advances one
// tick per nsPerTick nanoseconds of clock time, rolling over from
// maxTime to 0.
//
// This is the bridge for hosted platforms and for tests: pass
// chronon.SystemClock() to count wall-clock time, or a
// chronon.FakeClock to drive the counter deterministically.
func ClockSource(c chronon.Clock, maxTime, nsPerTick uint32) Source {
	if nsPerTick == 0 {
		nsPerTick = 1
	}

	origin := c.Now()
	modulus := uint64(maxTime) + 1
	return func() uint32 {
		elapsed := c.Now().Sub(origin)
		if elapsed < 0 {
			elapsed = 0
		}

		return uint32((uint64(elapsed) / uint64(nsPerTick)) % modulus)
	}
}
