package session

import "testing"

func TestRecordMatches(t *testing.T) {
	rec := Record{QuestionIDs: []string{"a", "b", "c"}}

	testCases := []struct {
		name    string
		echoed  []string
		matches bool
	}{
		{"same order", []string{"a", "b", "c"}, true},
		{"different order", []string{"c", "a", "b"}, true},
		{"subset", []string{"a", "b"}, false},
		{"superset", []string{"a", "b", "c", "d"}, false},
		{"substituted id", []string{"a", "b", "x"}, false},
		{"empty", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rec.Matches(tc.echoed); got != tc.matches {
				t.Errorf("Matches(%v) = %v, want %v", tc.echoed, got, tc.matches)
			}
		})
	}
}
