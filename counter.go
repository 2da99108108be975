// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

// Diff returns the forward distance, in ticks, from previous to current
// on a counter that rolls over from maxTime to 0. Both samples must be
// in [0, maxTime].
//
// When current is behind previous, exactly one wrap is assumed to have
// occurred and the distance is (maxTime - previous) + current + 1.
// Diff cannot detect a counter that wrapped more than once between the
// two samples; that case silently under-counts, which is why callers
// must poll within one wrap period. See the package documentation.
//
// The result is signed so that callers can uniformly skip on a
// non-positive value, which defends against a stale or duplicate
// sample.
func Diff(current, previous, maxTime uint32) int64 {
	if current >= previous {
		return int64(current - previous)
	}

	return int64(maxTime-previous) + int64(current) + 1
}
