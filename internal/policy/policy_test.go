package policy

import "testing"

func TestCanAttempt(t *testing.T) {
	testCases := []struct {
		name        string
		prior       int
		maxAttempts int
		expected    bool
	}{
		{"unlimited when unset", 100, 0, true},
		{"first attempt under limit", 0, 2, true},
		{"last allowed attempt", 1, 2, true},
		{"limit reached", 2, 2, false},
		{"limit exceeded", 3, 2, false},
		{"negative limit treated as unlimited", 5, -1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAttempt(tc.prior, tc.maxAttempts); got != tc.expected {
				t.Errorf("CanAttempt(%d, %d) = %v, want %v", tc.prior, tc.maxAttempts, got, tc.expected)
			}
		})
	}
}

func TestRemainingAttempts(t *testing.T) {
	testCases := []struct {
		prior       int
		maxAttempts int
		expected    int
	}{
		{0, 0, -1},
		{0, 3, 3},
		{2, 3, 1},
		{3, 3, 0},
		{5, 3, 0},
	}

	for _, tc := range testCases {
		if got := RemainingAttempts(tc.prior, tc.maxAttempts); got != tc.expected {
			t.Errorf("RemainingAttempts(%d, %d) = %d, want %d", tc.prior, tc.maxAttempts, got, tc.expected)
		}
	}
}
