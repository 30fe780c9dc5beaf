package sampling

import (
	"quiz-engine-service/internal/models"
)

// PresentedOption is an answer choice as shown to the learner: identity and
// text only, never the answer key.
type PresentedOption struct {
	ID    string        `json:"id"`
	Text  string        `json:"text"`
	Media *models.Media `json:"media,omitempty"`
}

// PresentedQuestion is a sampled question stripped of its answer key
// (is_correct flags and correct_answer text are not representable here).
type PresentedQuestion struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Question      string            `json:"question"`
	QuestionMedia *models.Media     `json:"question_media,omitempty"`
	Options       []PresentedOption `json:"options,omitempty"`
	Points        int               `json:"points"`
	Difficulty    string            `json:"difficulty,omitempty"`
}

// AttemptSet is the outcome of sampling one attempt: what the learner will
// see, the shown-set identity list the client must echo back at submission,
// and the score ceiling for exactly those questions.
type AttemptSet struct {
	Questions        []PresentedQuestion `json:"questions"`
	QuestionIDs      []string            `json:"question_ids"`
	MaxPossibleScore int                 `json:"max_possible_score"`
	TotalInPool      int                 `json:"total_in_pool"`
}
