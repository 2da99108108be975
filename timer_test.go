// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package wraptick

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TimerTestSuite struct {
	suite.Suite

	// counter is the simulated hardware counter, 8-bit with 1ms ticks
	// to match the reference scenarios.
	counter uint32
	clock   *Clock
}

func (suite *TimerTestSuite) initializeClock() {
	suite.counter = 0

	c, err := NewClock(
		func() uint32 { return suite.counter },
		WithMaxTime(0xFF),
		WithNanosPerTick(1_000_000),
	)

	suite.Require().NoError(err)
	suite.Require().NotNil(c)
	suite.clock = c
}

func (suite *TimerTestSuite) SetupTest() {
	suite.initializeClock()
}

func (suite *TimerTestSuite) SetupSubTest() {
	suite.initializeClock()
}

func (suite *TimerTestSuite) newTimer() *Timer {
	t, err := suite.clock.NewTimer()
	suite.Require().NoError(err)
	suite.Require().NotNil(t)
	return t
}

// poll steps the counter one tick at a time, polling the clock after
// each step.
func (suite *TimerTestSuite) poll(ticks int) {
	for i := 0; i < ticks; i++ {
		suite.counter = (suite.counter + 1) & 0xFF
		suite.clock.Poll()
	}
}

// step moves the counter without polling; timers catch up lazily on
// their next query.
func (suite *TimerTestSuite) step(ticks uint32) {
	suite.counter = (suite.counter + ticks) & 0xFF
}

func (suite *TimerTestSuite) TestElapsed() {
	first := suite.newTimer()
	second := suite.newTimer()

	first.Start()
	second.Start()
	suite.Equal(Duration{}, first.Elapsed())
	suite.True(first.Running())

	// 1001 ticks at 1ms each, wrapping the 8-bit counter several times
	suite.poll(1001)
	suite.Equal(Duration{Seconds: 1, Nanoseconds: 1_000_000}, first.Elapsed())

	// stopping freezes the first timer while the second keeps counting
	first.Stop()
	suite.False(first.Running())

	suite.poll(999)
	suite.Equal(Duration{Seconds: 1, Nanoseconds: 1_000_000}, first.Elapsed())
	suite.Equal(Duration{Seconds: 2}, second.Elapsed())
}

func (suite *TimerTestSuite) TestLazyCatchUp() {
	t := suite.newTimer()
	t.Start()

	// no Poll at all: the query itself folds in the elapsed ticks
	suite.step(7)
	suite.Equal(Duration{Nanoseconds: 7_000_000}, t.Elapsed())
}

func (suite *TimerTestSuite) TestElapsedAcrossWrap() {
	suite.counter = 250

	t := suite.newTimer()
	t.Start()

	suite.step(10) // 250 -> 4
	suite.Equal(Duration{Nanoseconds: 10_000_000}, t.Elapsed())
}

func (suite *TimerTestSuite) TestStartRestarts() {
	t := suite.newTimer()
	t.Start()
	suite.poll(5)

	// starting a running timer drops accumulated progress
	t.Start()
	suite.Equal(Duration{}, t.Elapsed())
	suite.True(t.Running())

	suite.poll(2)
	suite.Equal(Duration{Nanoseconds: 2_000_000}, t.Elapsed())
}

func (suite *TimerTestSuite) TestStopIdempotent() {
	t := suite.newTimer()
	t.Start()
	suite.poll(3)

	t.Stop()
	t.Stop()
	suite.Equal(Duration{Nanoseconds: 3_000_000}, t.Elapsed())
}

func (suite *TimerTestSuite) TestExpireAfter() {
	t := suite.newTimer()
	t.ExpireAfter(Microseconds(2000))
	suite.True(t.Running())

	suite.step(1)
	suite.False(t.Expired())

	suite.step(1)
	suite.True(t.Expired())
}

func (suite *TimerTestSuite) TestExpiredIdempotent() {
	t := suite.newTimer()
	t.ExpireAfter(Milliseconds(5))
	suite.step(3)

	// with no counter movement in between, the answer can't change
	suite.False(t.Expired())
	suite.False(t.Expired())

	suite.step(2)
	suite.True(t.Expired())
	suite.True(t.Expired())
}

func (suite *TimerTestSuite) TestExpiredWhileStopped() {
	t := suite.newTimer()
	t.ExpireAfter(Microseconds(1000))
	suite.step(1)
	t.Stop()

	// the frozen span is compared; further counter movement is ignored
	suite.step(50)
	suite.True(t.Expired())
	suite.Equal(Duration{Nanoseconds: 1_000_000}, t.Elapsed())
}

func (suite *TimerTestSuite) TestAdvance() {
	suite.Run("PreservesOverrun", func() {
		t := suite.newTimer()
		t.ExpireAfter(Milliseconds(2))

		// 3ms accumulated against a 2ms interval
		suite.step(3)
		t.Advance()

		// one whole interval consumed, the 1ms overrun remains
		suite.Equal(Duration{Nanoseconds: 1_000_000}, t.Elapsed())
		suite.False(t.Expired())

		suite.step(1)
		suite.True(t.Expired())
	})

	suite.Run("NotExpiredResets", func() {
		t := suite.newTimer()
		t.ExpireAfter(Milliseconds(5))

		suite.step(2)
		t.Advance()
		suite.Equal(Duration{}, t.Elapsed())
	})

	suite.Run("FiresOncePerInterval", func() {
		t := suite.newTimer()
		t.ExpireAfter(Milliseconds(2))

		// 5ms of overrun fires twice, then waits on the remainder
		suite.step(5)
		suite.True(t.Expired())
		t.Advance()
		suite.True(t.Expired())
		t.Advance()
		suite.False(t.Expired())
		suite.Equal(Duration{Nanoseconds: 1_000_000}, t.Elapsed())
	})

	suite.Run("StoppedNoOp", func() {
		t := suite.newTimer()
		t.ExpireAfter(Milliseconds(2))
		suite.step(3)
		t.Stop()

		t.Advance()
		suite.Equal(Duration{Nanoseconds: 3_000_000}, t.Elapsed())
	})
}

func (suite *TimerTestSuite) TestRestart() {
	suite.Run("WhileRunning", func() {
		t := suite.newTimer()
		t.ExpireAfter(Milliseconds(2))
		suite.step(3)
		suite.True(t.Expired())

		// keeps the armed interval, restarts the measurement
		t.Restart()
		suite.Equal(Duration{}, t.Elapsed())
		suite.True(t.Running())

		suite.step(2)
		suite.True(t.Expired())
	})

	suite.Run("WhileStopped", func() {
		t := suite.newTimer()
		t.Start()
		suite.step(3)
		t.Stop()

		// a stopped timer is left untouched
		t.Restart()
		suite.False(t.Running())
		suite.Equal(Duration{Nanoseconds: 3_000_000}, t.Elapsed())
	})
}

func TestTimer(t *testing.T) {
	suite.Run(t, new(TimerTestSuite))
}
