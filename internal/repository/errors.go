package repository

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateEnrollment surfaces the unique (user, course) index.
	ErrDuplicateEnrollment = errors.New("enrollment already exists")

	// ErrAttemptConflict means another submission appended an attempt for
	// the same (user, quiz) pair between our count and our write. Callers
	// recount and retry.
	ErrAttemptConflict = errors.New("concurrent attempt append")

	// ErrStaleStreak means the streak changed since it was read.
	ErrStaleStreak = errors.New("streak modified concurrently")
)
