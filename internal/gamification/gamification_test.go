package gamification

import (
	"testing"
	"time"

	"quiz-engine-service/internal/models"
)

func TestPointsForPass(t *testing.T) {
	testCases := []struct {
		attemptNumber int
		expected      int
	}{
		{1, 50},
		{2, 25},
		{3, 25},
		{10, 25},
	}

	for _, tc := range testCases {
		if got := PointsForPass(tc.attemptNumber); got != tc.expected {
			t.Errorf("attempt %d: expected %d points, got %d", tc.attemptNumber, tc.expected, got)
		}
	}
}

func day(d int, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.Local)
}

func TestNextStreakFirstActivity(t *testing.T) {
	streak, changed := NextStreak(models.Streak{}, day(10, 9))

	if !changed {
		t.Fatal("expected first activity to change the streak")
	}
	if streak.Current != 1 {
		t.Errorf("expected current 1, got %d", streak.Current)
	}
	if streak.Longest != 1 {
		t.Errorf("expected longest 1, got %d", streak.Longest)
	}
	if streak.LastActivityDate == nil {
		t.Fatal("expected last activity date to be set")
	}
}

func TestNextStreakIdempotentWithinDay(t *testing.T) {
	first, _ := NextStreak(models.Streak{}, day(10, 9))

	second, changed := NextStreak(first, day(10, 21))
	if changed {
		t.Error("second qualifying event on the same day must not change the streak")
	}
	if second.Current != first.Current || second.Longest != first.Longest {
		t.Errorf("streak counters changed within a day: %+v vs %+v", second, first)
	}
	if !second.LastActivityDate.Equal(*first.LastActivityDate) {
		t.Error("last activity date changed within a day")
	}
}

func TestNextStreakConsecutiveDays(t *testing.T) {
	streak, _ := NextStreak(models.Streak{}, day(10, 9))
	streak, changed := NextStreak(streak, day(11, 23))

	if !changed {
		t.Fatal("expected next-day activity to change the streak")
	}
	if streak.Current != 2 {
		t.Errorf("expected current 2 after consecutive days, got %d", streak.Current)
	}
	if streak.Longest != 2 {
		t.Errorf("expected longest 2, got %d", streak.Longest)
	}
}

func TestNextStreakResetAfterGap(t *testing.T) {
	streak, _ := NextStreak(models.Streak{}, day(10, 9))
	streak, _ = NextStreak(streak, day(11, 9))
	streak, _ = NextStreak(streak, day(12, 9))

	// Three-day gap: current resets to 1, longest is preserved.
	streak, changed := NextStreak(streak, day(15, 9))
	if !changed {
		t.Fatal("expected activity after a gap to change the streak")
	}
	if streak.Current != 1 {
		t.Errorf("expected current reset to 1, got %d", streak.Current)
	}
	if streak.Longest != 3 {
		t.Errorf("expected longest preserved at 3, got %d", streak.Longest)
	}
}

func TestNextStreakLongestNeverBelowCurrent(t *testing.T) {
	streak := models.Streak{}
	for d := 1; d <= 7; d++ {
		streak, _ = NextStreak(streak, day(d, 12))
		if streak.Longest < streak.Current {
			t.Fatalf("day %d: longest %d fell below current %d", d, streak.Longest, streak.Current)
		}
	}
	if streak.Current != 7 || streak.Longest != 7 {
		t.Errorf("expected 7/7 after a week, got %d/%d", streak.Current, streak.Longest)
	}
}

func TestNextStreakLateNightToEarlyMorning(t *testing.T) {
	// 23:59 on day 10 then 00:01 on day 11 are consecutive calendar days.
	streak, _ := NextStreak(models.Streak{}, time.Date(2024, time.March, 10, 23, 59, 0, 0, time.Local))
	streak, _ = NextStreak(streak, time.Date(2024, time.March, 11, 0, 1, 0, 0, time.Local))

	if streak.Current != 2 {
		t.Errorf("expected current 2 across midnight boundary, got %d", streak.Current)
	}
}
