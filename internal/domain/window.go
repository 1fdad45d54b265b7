package domain

import "time"

// Window is the time filter for balance queries. An as-of window covers
// everything up to and including To; a range window additionally bounds
// the start. Both bounds are inclusive.
type Window struct {
	From *time.Time
	To   time.Time
}

// AsOf returns a cumulative window through the given date.
func AsOf(date time.Time) Window {
	return Window{To: date}
}

// Between returns a period window over [from, to].
func Between(from, to time.Time) Window {
	return Window{From: &from, To: to}
}

// Contains reports whether a date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	if date.After(w.To) {
		return false
	}
	if w.From != nil && date.Before(*w.From) {
		return false
	}
	return true
}
