// Package schedule parses interview slot times and waits for them to open.
package schedule

import (
	"fmt"
	"time"
)

// layouts accepted by ParseSlot, most specific first.
var layouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseSlot turns a --start-at value into the time the interview opens,
// relative to now and in now's location. Accepted forms:
//   - YYYY-MM-DDTHH:MM or "YYYY-MM-DD HH:MM": that exact minute
//   - YYYY-MM-DD: midnight starting that day
//   - HH:MM: the next occurrence, today or tomorrow
func ParseSlot(input string, now time.Time) (time.Time, error) {
	loc := now.Location()
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.ParseInLocation("15:04", input, loc); err == nil {
		slot := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		if slot.Before(now) {
			slot = slot.AddDate(0, 0, 1)
		}
		return slot, nil
	}

	return time.Time{}, fmt.Errorf("invalid start time %q (supported: YYYY-MM-DD, HH:MM, \"YYYY-MM-DD HH:MM\", YYYY-MM-DDTHH:MM)", input)
}
