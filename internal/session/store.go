// Package session keeps the short-lived record of which questions were
// shown for an in-flight attempt. Grading still trusts the client-echoed
// shown-set list (the original contract); this record exists so a divergent
// echo can be detected and flagged for reconciliation rather than silently
// accepted.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record is one started attempt's shown set.
type Record struct {
	QuestionIDs []string  `json:"question_ids"`
	StartedAt   time.Time `json:"started_at"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wraps a Redis client. defaultTTL bounds sessions for quizzes
// without a time limit.
func NewStore(client *redis.Client, defaultTTL time.Duration) *Store {
	return &Store{client: client, ttl: defaultTTL}
}

func key(userID, quizID string) string {
	return fmt.Sprintf("attempt_session:%s:%s", userID, quizID)
}

// Put records the shown set for (user, quiz). A new start overwrites any
// previous in-flight session for the pair. timeLimit of 0 uses the default
// TTL.
func (s *Store) Put(ctx context.Context, userID, quizID string, rec Record, timeLimit time.Duration) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	ttl := s.ttl
	if timeLimit > 0 {
		// Leave submission headroom past the nominal limit.
		ttl = timeLimit + 5*time.Minute
	}
	return s.client.Set(ctx, key(userID, quizID), val, ttl).Err()
}

// Get returns the recorded shown set, or (nil, nil) when no session exists
// or it has expired.
func (s *Store) Get(ctx context.Context, userID, quizID string) (*Record, error) {
	val, err := s.client.Get(ctx, key(userID, quizID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &rec, nil
}

// Delete clears the session after submission.
func (s *Store) Delete(ctx context.Context, userID, quizID string) error {
	return s.client.Del(ctx, key(userID, quizID)).Err()
}

// Matches reports whether the echoed shown-set list is exactly the recorded
// one as a set.
func (r *Record) Matches(echoed []string) bool {
	if len(r.QuestionIDs) != len(echoed) {
		return false
	}
	recorded := make(map[string]bool, len(r.QuestionIDs))
	for _, id := range r.QuestionIDs {
		recorded[id] = true
	}
	for _, id := range echoed {
		if !recorded[id] {
			return false
		}
	}
	return true
}
