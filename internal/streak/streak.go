package streak

import "time"

// State holds a user's streak counters after an update.
type State struct {
	Current int
	Longest int
}

// StartOfDay truncates t to local midnight. One global server-local day
// boundary applies to all users.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Calculate returns the streak counters after an action logged at now.
// The caller invokes it at most once per logging transaction, no matter how
// many actions the batch contained.
//
// Rules, in order: no prior action starts a streak of 1; a prior action on the
// same calendar day leaves the counters unchanged; a prior action yesterday
// extends the streak; anything older resets the current streak to 1 and keeps
// the longest.
func Calculate(lastActionDate *time.Time, current, longest int, now time.Time) State {
	if lastActionDate == nil {
		if longest < 1 {
			longest = 1
		}
		return State{Current: 1, Longest: longest}
	}

	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	lastDay := StartOfDay(*lastActionDate)

	switch {
	case lastDay.Equal(today):
		return State{Current: current, Longest: longest}
	case lastDay.Equal(yesterday):
		updated := current + 1
		if updated > longest {
			longest = updated
		}
		return State{Current: updated, Longest: longest}
	default:
		return State{Current: 1, Longest: longest}
	}
}
