package hours

import (
	"strings"
	"time"
)

// IsOpenNow reports whether a venue with the given raw schedule is open at now.
// known is false when no schedule is configured, which callers must keep
// apart from "closed". A schedule with no entry for today evaluates to closed.
//
// now must already be in the venue's timezone; only its weekday and wall
// clock time are used.
func IsOpenNow(raw string, now time.Time) (open, known bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	if strings.EqualFold(raw, AlwaysOpen) {
		return true, true
	}
	s, recognised := parse(raw)
	if recognised == 0 {
		return false, true
	}
	return s.OpenAt(now), true
}

// OpenAt reports whether s has a slot covering now. Both ends of a slot are
// inclusive. A slot that closes before it opens continues into the next day.
func (s Schedule) OpenAt(now time.Time) bool {
	today := weekdayIndex(now.Weekday())
	yesterday := (today + len(s) - 1) % len(s)
	m := now.Hour()*60 + now.Minute()

	for _, sl := range s[today].Slots {
		o, c := minutes(sl.Open), minutes(sl.Close)
		if o < 0 || c < 0 {
			continue
		}
		if c >= o && o <= m && m <= c {
			return true
		}
		if c < o && m >= o {
			return true
		}
	}

	for _, sl := range s[yesterday].Slots {
		o, c := minutes(sl.Open), minutes(sl.Close)
		if o < 0 || c < 0 {
			continue
		}
		if c < o && m <= c {
			return true
		}
	}
	return false
}

// weekdayIndex maps time.Weekday (Sunday == 0) onto Days (Monday == 0).
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
