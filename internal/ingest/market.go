package ingest

import "time"

// tehranLocation is the Tehran Stock Exchange's trading calendar timezone.
var tehranLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		return time.FixedZone("Asia/Tehran", 3*60*60+30*60)
	}
	return loc
}()

// sessionOpen and sessionClose are TSE's regular continuous-auction hours,
// Saturday through Wednesday.
const (
	sessionOpenHour, sessionOpenMinute   = 9, 0
	sessionCloseHour, sessionCloseMinute = 12, 30
)

// Clock reports the current time; a field on MarketTimingChecker so tests
// can substitute a fixed instant instead of wall-clock time.
type Clock func() time.Time

// MarketTimingChecker decides whether a WorkType's MarketTiming permits
// execution right now.
type MarketTimingChecker struct {
	now Clock
}

// NewMarketTimingChecker builds a checker against wall-clock time.
func NewMarketTimingChecker() *MarketTimingChecker {
	return &MarketTimingChecker{now: time.Now}
}

// NewMarketTimingCheckerWithClock builds a checker against a fixed/fake clock.
func NewMarketTimingCheckerWithClock(clock Clock) *MarketTimingChecker {
	return &MarketTimingChecker{now: clock}
}

// IsOpen reports whether the Tehran Stock Exchange's regular session is
// live at the checker's current time.
func (c *MarketTimingChecker) IsOpen() bool {
	t := c.now().In(tehranLocation)
	if t.Weekday() == time.Thursday || t.Weekday() == time.Friday {
		return false
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), sessionOpenHour, sessionOpenMinute, 0, 0, tehranLocation)
	close := time.Date(t.Year(), t.Month(), t.Day(), sessionCloseHour, sessionCloseMinute, 0, 0, tehranLocation)
	return !t.Before(open) && t.Before(close)
}

// CanExecute reports whether work with the given timing constraint may run
// for subject right now. subject is currently unused (TSE has one trading
// calendar for all symbols) but kept for signature parity with a future
// per-market calendar.
func (c *MarketTimingChecker) CanExecute(timing MarketTiming, subject string) bool {
	switch timing {
	case DuringMarketOpen:
		return c.IsOpen()
	case AfterMarketClose:
		return !c.IsOpen()
	default:
		return true
	}
}
