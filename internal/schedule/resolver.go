// Package schedule resolves which topics are active at a given moment.
//
// Every function here is pure: it works on a snapshot of topics and a
// timestamp and never touches the store. Only the time-of-day of now takes
// part, since topic windows recur daily.
package schedule

import (
	"time"

	"github.com/mesh-intelligence/tlog/pkg/types"
)

// Contains reports whether tod falls inside the topic window. Both bounds
// are inclusive. A window whose start is after its end wraps midnight, so
// 22:00-02:00 contains 23:30 and 01:00.
func Contains(topic types.Topic, tod types.TimeOfDay) bool {
	if topic.WrapsMidnight() {
		return tod >= topic.Starts || tod <= topic.Ends
	}
	return topic.Starts <= tod && tod <= topic.Ends
}

// ActiveWindows returns the topics whose window contains now, preserving
// the input order.
func ActiveWindows(topics []types.Topic, now time.Time) []types.Topic {
	tod := types.TimeOfDayOf(now)
	var active []types.Topic
	for _, t := range topics {
		if Contains(t, tod) {
			active = append(active, t)
		}
	}
	return active
}

// ClosestTopic picks the single topic whose start is nearest to now,
// measured on the same day. Ties go to the lowest ID. The second result is
// false only when topics is empty.
func ClosestTopic(topics []types.Topic, now time.Time) (types.Topic, bool) {
	if len(topics) == 0 {
		return types.Topic{}, false
	}

	tod := types.TimeOfDayOf(now)
	best := topics[0]
	bestDist := distance(tod, best.Starts)
	for _, t := range topics[1:] {
		d := distance(tod, t.Starts)
		if d < bestDist || (d == bestDist && t.ID < best.ID) {
			best, bestDist = t, d
		}
	}
	return best, true
}

// TimeRemaining returns how long the topic window stays open after now.
// It is zero when now lies outside the window.
func TimeRemaining(topic types.Topic, now time.Time) time.Duration {
	tod := types.TimeOfDayOf(now)
	if !Contains(topic, tod) {
		return 0
	}
	left := topic.Ends - tod
	if left < 0 {
		// Wrapped window, now is before midnight.
		left += types.SecondsPerDay
	}
	return left.Duration()
}

// EndsAt returns the instant the topic window closes relative to now. For a
// wrapped window entered before midnight the end falls on the next day.
func EndsAt(topic types.Topic, now time.Time) time.Time {
	end := topic.Ends.On(now)
	if topic.WrapsMidnight() && types.TimeOfDayOf(now) >= topic.Starts {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// StartsAt returns the instant the topic window opened relative to now. For
// a wrapped window entered after midnight the start falls on the previous
// day. Only meaningful for a topic that contains now.
func StartsAt(topic types.Topic, now time.Time) time.Time {
	start := topic.Starts.On(now)
	if topic.WrapsMidnight() && types.TimeOfDayOf(now) < topic.Starts {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// Span returns the earliest start and latest end instant across the active
// topics, used to describe the current slot when several windows overlap.
// Wrapped windows count with their real end, so 22:00-02:00 together with
// 23:00-23:30 spans to 02:00 the next day.
func Span(active []types.Topic, now time.Time) (start, end time.Time, ok bool) {
	if len(active) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = StartsAt(active[0], now), EndsAt(active[0], now)
	for _, t := range active[1:] {
		if s := StartsAt(t, now); s.Before(start) {
			start = s
		}
		if e := EndsAt(t, now); e.After(end) {
			end = e
		}
	}
	return start, end, true
}

func distance(a, b types.TimeOfDay) types.TimeOfDay {
	if a > b {
		return a - b
	}
	return b - a
}
