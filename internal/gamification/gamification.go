// Package gamification holds the point-award and daily-streak rules applied
// when a learner passes a quiz. Pure computation; persistence is the
// caller's job.
package gamification

import (
	"time"

	"quiz-engine-service/internal/models"
)

const (
	// FirstAttemptPoints is the first-try bonus: passing on the very first
	// attempt of a quiz is worth double.
	FirstAttemptPoints = 50
	RetryPoints        = 25
)

// PointsForPass returns the points awarded for passing on the given attempt
// number.
func PointsForPass(attemptNumber int) int {
	if attemptNumber == 1 {
		return FirstAttemptPoints
	}
	return RetryPoints
}

// NextStreak applies one qualifying activity at time now to the streak and
// reports whether anything changed. The day boundary is local midnight in
// now's location. A second qualifying event on the same calendar day is a
// no-op, so the update is idempotent within a day.
func NextStreak(s models.Streak, now time.Time) (models.Streak, bool) {
	today := startOfDay(now)

	if s.LastActivityDate != nil && !s.LastActivityDate.Before(today) {
		return s, false
	}

	yesterday := today.AddDate(0, 0, -1)
	if s.LastActivityDate != nil && !s.LastActivityDate.Before(yesterday) {
		s.Current++
	} else {
		// Gap of two or more days, or first activity ever.
		s.Current = 1
	}

	if s.Current > s.Longest {
		s.Longest = s.Current
	}

	ts := now
	s.LastActivityDate = &ts
	return s, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
