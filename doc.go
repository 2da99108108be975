// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package wraptick tracks elapsed and remaining time using a free-running
// counter that wraps at a configurable boundary. It is intended for
// environments where the only time source is a periodically sampled
// counter register: no interrupts, no real-time clock, no background
// scheduling. Expiration is a value comparison, evaluated when a Timer
// is queried or when its Clock is polled, never a deadline that fires.
//
// The load-bearing assumption of this package is that callers poll often
// enough that the counter wraps at most once between any two samples
// observed for the same Timer. Diff cannot distinguish a double wrap
// from a short forward step, so violating this contract silently
// under-counts elapsed time. Clock.Poll exists to uphold the contract
// for timers nobody is actively querying.
//
// All operations are synchronous, non-blocking local computation. A
// Clock and its Timers assume a single logical thread of control; if
// multiple goroutines must share them, callers serialize access
// externally.
package wraptick
