// Package policy gates attempt starts against the quiz's attempt limit.
package policy

// CanAttempt reports whether a new attempt may start given how many attempts
// the learner has already made. maxAttempts of 0 (or negative) means
// unlimited.
func CanAttempt(priorAttempts, maxAttempts int) bool {
	if maxAttempts <= 0 {
		return true
	}
	return priorAttempts < maxAttempts
}

// RemainingAttempts returns how many attempts are left, or -1 when the quiz
// has no limit.
func RemainingAttempts(priorAttempts, maxAttempts int) int {
	if maxAttempts <= 0 {
		return -1
	}
	remaining := maxAttempts - priorAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
