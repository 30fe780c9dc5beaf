// Package sampling draws the question subset shown for one quiz attempt.
// Membership, question order, and option order are three independent
// randomizations so the shuffle flags compose without affecting each other.
package sampling

import (
	"math/rand"
	"time"

	"quiz-engine-service/internal/models"
)

type Sampler struct {
	rand *rand.Rand
}

func NewSampler() *Sampler {
	return &Sampler{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSamplerWithSource injects a seedable source for deterministic tests.
func NewSamplerWithSource(src rand.Source) *Sampler {
	return &Sampler{rand: rand.New(src)}
}

// SampleAttempt selects min(count, len(pool)) distinct questions uniformly
// at random, applies the quiz's shuffle settings, and returns the sanitized
// attempt set. The pool is never mutated.
func (s *Sampler) SampleAttempt(pool []models.Question, count int, settings models.QuizSettings) *AttemptSet {
	selected := s.pickRandom(pool, count)

	if settings.ShuffleQuestions {
		s.rand.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}

	set := &AttemptSet{
		Questions:   make([]PresentedQuestion, 0, len(selected)),
		QuestionIDs: make([]string, 0, len(selected)),
		TotalInPool: len(pool),
	}

	for _, q := range selected {
		options := make([]PresentedOption, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, PresentedOption{
				ID:    o.ID.Hex(),
				Text:  o.Text,
				Media: o.Media,
			})
		}
		if settings.ShuffleAnswers {
			s.rand.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		}

		set.Questions = append(set.Questions, PresentedQuestion{
			ID:            q.ID.Hex(),
			Type:          q.Type,
			Question:      q.Question,
			QuestionMedia: q.QuestionMedia,
			Options:       options,
			Points:        q.PointsOrDefault(),
			Difficulty:    q.Difficulty,
		})
		set.QuestionIDs = append(set.QuestionIDs, q.ID.Hex())
		set.MaxPossibleScore += q.PointsOrDefault()
	}

	return set
}

// pickRandom is a Fisher-Yates shuffle over a copy of the pool, taking the
// first min(n, len) elements. Sampling is uniform without replacement.
func (s *Sampler) pickRandom(pool []models.Question, n int) []models.Question {
	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
