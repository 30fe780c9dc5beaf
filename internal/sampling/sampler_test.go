package sampling

import (
	"math/rand"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine-service/internal/models"
)

func makePool(n int) []models.Question {
	pool := make([]models.Question, n)
	for i := range pool {
		correct := primitive.NewObjectID()
		wrong := primitive.NewObjectID()
		pool[i] = models.Question{
			ID:       primitive.NewObjectID(),
			Type:     models.QuestionMultipleChoice,
			Question: "q",
			Options: []models.Option{
				{ID: correct, Text: "right", IsCorrect: true},
				{ID: wrong, Text: "wrong"},
			},
			Points: 10,
			Order:  i,
		}
	}
	return pool
}

func TestSampleBounds(t *testing.T) {
	testCases := []struct {
		name     string
		poolSize int
		count    int
		expected int
	}{
		{"subset of pool", 10, 5, 5},
		{"exact pool size", 6, 6, 6},
		{"count exceeds pool", 3, 10, 3},
		{"single question", 1, 1, 1},
		{"default-sized draw", 20, 10, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pool := makePool(tc.poolSize)
			s := NewSampler()

			set := s.SampleAttempt(pool, tc.count, models.QuizSettings{})

			if len(set.Questions) != tc.expected {
				t.Fatalf("expected %d questions, got %d", tc.expected, len(set.Questions))
			}
			if len(set.QuestionIDs) != tc.expected {
				t.Fatalf("expected %d question ids, got %d", tc.expected, len(set.QuestionIDs))
			}
			if set.TotalInPool != tc.poolSize {
				t.Errorf("expected TotalInPool %d, got %d", tc.poolSize, set.TotalInPool)
			}

			poolIDs := make(map[string]bool, tc.poolSize)
			for _, q := range pool {
				poolIDs[q.ID.Hex()] = true
			}
			seen := make(map[string]bool)
			for _, id := range set.QuestionIDs {
				if !poolIDs[id] {
					t.Errorf("sampled question %s not in pool", id)
				}
				if seen[id] {
					t.Errorf("question %s sampled twice", id)
				}
				seen[id] = true
			}
		})
	}
}

func TestMaxPossibleScore(t *testing.T) {
	pool := makePool(4)
	pool[0].Points = 5
	pool[1].Points = 20
	pool[2].Points = 0 // unauthored, defaults to 10

	set := NewSampler().SampleAttempt(pool, 4, models.QuizSettings{})

	want := 5 + 20 + 10 + 10
	if set.MaxPossibleScore != want {
		t.Errorf("expected max possible score %d, got %d", want, set.MaxPossibleScore)
	}
	for _, q := range set.Questions {
		if q.Points <= 0 {
			t.Errorf("presented question carries non-positive points %d", q.Points)
		}
	}
}

func TestShuffleAnswersKeepsOptionIdentities(t *testing.T) {
	pool := makePool(8)
	optionIDs := make(map[string]map[string]bool, len(pool))
	correctByQuestion := make(map[string]string, len(pool))
	for _, q := range pool {
		ids := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			ids[o.ID.Hex()] = true
			if o.IsCorrect {
				correctByQuestion[q.ID.Hex()] = o.ID.Hex()
			}
		}
		optionIDs[q.ID.Hex()] = ids
	}

	s := NewSamplerWithSource(rand.NewSource(42))
	set := s.SampleAttempt(pool, 8, models.QuizSettings{ShuffleQuestions: true, ShuffleAnswers: true})

	for _, q := range set.Questions {
		if len(q.Options) != 2 {
			t.Fatalf("question %s: expected 2 options, got %d", q.ID, len(q.Options))
		}
		foundCorrect := false
		for _, o := range q.Options {
			if !optionIDs[q.ID][o.ID] {
				t.Errorf("question %s: option %s not from the pool question", q.ID, o.ID)
			}
			if o.ID == correctByQuestion[q.ID] {
				foundCorrect = true
			}
		}
		if !foundCorrect {
			t.Errorf("question %s: correct option missing after shuffle", q.ID)
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	pool := makePool(12)
	settings := models.QuizSettings{ShuffleQuestions: true, ShuffleAnswers: true}

	a := NewSamplerWithSource(rand.NewSource(7)).SampleAttempt(pool, 6, settings)
	b := NewSamplerWithSource(rand.NewSource(7)).SampleAttempt(pool, 6, settings)

	if len(a.QuestionIDs) != len(b.QuestionIDs) {
		t.Fatalf("seeded samplers drew different counts: %d vs %d", len(a.QuestionIDs), len(b.QuestionIDs))
	}
	for i := range a.QuestionIDs {
		if a.QuestionIDs[i] != b.QuestionIDs[i] {
			t.Fatalf("seeded samplers diverged at %d: %s vs %s", i, a.QuestionIDs[i], b.QuestionIDs[i])
		}
	}
}

func TestPoolNotMutated(t *testing.T) {
	pool := makePool(5)
	original := make([]string, len(pool))
	for i, q := range pool {
		original[i] = q.ID.Hex()
	}

	NewSampler().SampleAttempt(pool, 3, models.QuizSettings{ShuffleQuestions: true, ShuffleAnswers: true})

	for i, q := range pool {
		if q.ID.Hex() != original[i] {
			t.Fatalf("pool order changed at index %d", i)
		}
	}
}
