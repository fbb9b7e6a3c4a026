package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Successor returns the occurrence following anchor, or None when the rule's
// end date has passed by then.
func Successor(rule Rule, anchor time.Time) mo.Option[time.Time] {
	next := NextOccurrence(rule, anchor)
	if rule.EndsBefore(next) {
		return mo.None[time.Time]()
	}
	return mo.Some(next)
}

// Upcoming lists up to limit occurrences after anchor, oldest first.
//
// The sequence stops early at the rule's end date, and as soon as an
// evaluation fails to move forward. The latter keeps invalid rules such as
// interval 0 from looping forever.
func Upcoming(rule Rule, anchor time.Time, limit int) []time.Time {
	if limit <= 0 {
		return nil
	}

	dates := make([]time.Time, 0, min(limit, 64))
	current := anchor
	for len(dates) < limit {
		next, ok := Successor(rule, current).Get()
		if !ok || !next.After(current) {
			break
		}
		dates = append(dates, next)
		current = next
	}
	return dates
}
