package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestMarketTimingChecker_IsOpenDuringSession(t *testing.T) {
	c := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 29, 10, 0, 0, 0, tehranLocation)))
	assert.True(t, c.IsOpen())
}

func TestMarketTimingChecker_ClosedBeforeSession(t *testing.T) {
	c := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 29, 8, 0, 0, 0, tehranLocation)))
	assert.False(t, c.IsOpen())
}

func TestMarketTimingChecker_ClosedAfterSession(t *testing.T) {
	c := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 29, 13, 0, 0, 0, tehranLocation)))
	assert.False(t, c.IsOpen())
}

func TestMarketTimingChecker_ClosedOnFriday(t *testing.T) {
	c := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 31, 10, 0, 0, 0, tehranLocation)))
	assert.False(t, c.IsOpen())
}

func TestMarketTimingChecker_CanExecute(t *testing.T) {
	open := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 29, 10, 0, 0, 0, tehranLocation)))
	closed := NewMarketTimingCheckerWithClock(fixedClock(time.Date(2026, 7, 31, 10, 0, 0, 0, tehranLocation)))

	assert.True(t, open.CanExecute(AnyTime, "فملی"))
	assert.True(t, open.CanExecute(DuringMarketOpen, "فملی"))
	assert.False(t, open.CanExecute(AfterMarketClose, "فملی"))

	assert.True(t, closed.CanExecute(AnyTime, "فملی"))
	assert.False(t, closed.CanExecute(DuringMarketOpen, "فملی"))
	assert.True(t, closed.CanExecute(AfterMarketClose, "فملی"))
}
