package quiz

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyassist/backend/internal/models"
)

// MaxAttempts limits concurrent attempts to bound memory.
const MaxAttempts = 100

// AttemptMaxAge is how long an untouched attempt is kept.
const AttemptMaxAge = 30 * time.Minute

// Attempts runs quiz attempts. Each attempt holds its own copy of the quiz,
// so catalog changes never affect a run in progress.
type Attempts struct {
	attempts map[string]*attemptState
	mu       sync.RWMutex
	catalog  *Catalog
	max      int
	now      func() time.Time
	logger   *slog.Logger
}

type attemptState struct {
	Attempt models.Attempt
	Quiz    models.Quiz
}

// NewAttempts creates an attempt manager over catalog. max <= 0 uses
// MaxAttempts.
func NewAttempts(catalog *Catalog, max int, logger *slog.Logger) *Attempts {
	if max <= 0 {
		max = MaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Attempts{
		attempts: make(map[string]*attemptState),
		catalog:  catalog,
		max:      max,
		now:      time.Now,
		logger:   logger.With("component", "attempts"),
	}
}

// Start begins a new attempt at the first question of a quiz.
func (a *Attempts) Start(quizID string) (models.QuestionView, error) {
	q, err := a.catalog.Get(quizID)
	if err != nil {
		return models.QuestionView{}, err
	}
	if len(q.Questions) == 0 {
		return models.QuestionView{}, fmt.Errorf("%w: quiz %s has no questions", ErrInvalid, quizID)
	}

	now := a.now()
	st := &attemptState{
		Attempt: models.Attempt{
			ID:           uuid.New().String(),
			QuizID:       q.ID,
			Answers:      blankAnswers(q),
			StartedAt:    now,
			LastAccessed: now,
		},
		Quiz: q,
	}

	a.mu.Lock()
	a.evictIfFull()
	a.attempts[st.Attempt.ID] = st
	view := st.view()
	a.mu.Unlock()

	a.logger.Debug("attempt started", "id", st.Attempt.ID[:8], "quiz", q.ID)
	return view, nil
}

// View returns the current question of an attempt.
func (a *Attempts) View(id string) (models.QuestionView, error) {
	return a.mutate(id, func(*attemptState) error { return nil })
}

// Answer records option for the current question. Only the first answer
// counts; later ones return the view unchanged.
func (a *Attempts) Answer(id string, option int) (models.QuestionView, error) {
	return a.mutate(id, func(st *attemptState) error {
		if st.Attempt.Finished {
			return ErrFinished
		}
		i := st.Attempt.Index
		question := st.Quiz.Questions[i]
		if option < 0 || option >= len(question.Options) {
			return fmt.Errorf("%w: option %d out of range [0,%d)", ErrInvalid, option, len(question.Options))
		}
		if st.Attempt.Answers[i].Answered() {
			return nil
		}

		answers := make([]models.Answer, len(st.Attempt.Answers))
		copy(answers, st.Attempt.Answers)
		selected := option
		correct := option == question.CorrectAnswer
		answers[i].Selected = &selected
		answers[i].Correct = &correct
		st.Attempt.Answers = answers
		return nil
	})
}

// Next moves to the following question, or finishes the attempt after the
// last one.
func (a *Attempts) Next(id string) (models.QuestionView, error) {
	return a.mutate(id, func(st *attemptState) error {
		if st.Attempt.Finished {
			return ErrFinished
		}
		if !st.Attempt.Answers[st.Attempt.Index].Answered() {
			return ErrNotAnswered
		}
		if st.Attempt.Index < len(st.Quiz.Questions)-1 {
			st.Attempt.Index++
		} else {
			st.Attempt.Finished = true
		}
		return nil
	})
}

// Restart clears every answer and returns to the first question.
func (a *Attempts) Restart(id string) (models.QuestionView, error) {
	return a.mutate(id, func(st *attemptState) error {
		st.Attempt.Index = 0
		st.Attempt.Finished = false
		st.Attempt.Answers = blankAnswers(st.Quiz)
		return nil
	})
}

// Abandon discards an attempt.
func (a *Attempts) Abandon(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.attempts[id]; !ok {
		return fmt.Errorf("%w: attempt %s", ErrNotFound, id)
	}
	delete(a.attempts, id)
	return nil
}

// Result scores an attempt. Unanswered questions count as wrong.
func (a *Attempts) Result(id string) (models.QuizResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.attempts[id]
	if !ok {
		return models.QuizResult{}, fmt.Errorf("%w: attempt %s", ErrNotFound, id)
	}
	st.Attempt.LastAccessed = a.now()
	return score(st.Attempt), nil
}

// Len returns the number of live attempts.
func (a *Attempts) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.attempts)
}

// CleanupStale removes attempts not accessed within maxAge and reports how
// many were removed.
func (a *Attempts) CleanupStale(maxAge time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.now().Add(-maxAge)
	removed := 0
	for id, st := range a.attempts {
		if st.Attempt.LastAccessed.Before(cutoff) {
			delete(a.attempts, id)
			removed++
		}
	}
	if removed > 0 {
		a.logger.Info("cleaned up stale attempts", "removed", removed, "remaining", len(a.attempts))
	}
	return removed
}

func (a *Attempts) mutate(id string, fn func(*attemptState) error) (models.QuestionView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.attempts[id]
	if !ok {
		return models.QuestionView{}, fmt.Errorf("%w: attempt %s", ErrNotFound, id)
	}
	st.Attempt.LastAccessed = a.now()
	if err := fn(st); err != nil {
		return st.view(), err
	}
	return st.view(), nil
}

// evictIfFull drops the least recently used attempt when at capacity.
// Finished attempts go first. Caller holds mu.
func (a *Attempts) evictIfFull() {
	if len(a.attempts) < a.max {
		return
	}
	var victim string
	var victimState *attemptState
	for id, st := range a.attempts {
		if victimState == nil || older(st, victimState) {
			victim, victimState = id, st
		}
	}
	delete(a.attempts, victim)
	a.logger.Debug("evicted attempt to stay under limit", "id", victim[:8], "limit", a.max)
}

func older(x, y *attemptState) bool {
	if x.Attempt.Finished != y.Attempt.Finished {
		return x.Attempt.Finished
	}
	return x.Attempt.LastAccessed.Before(y.Attempt.LastAccessed)
}

func (st *attemptState) view() models.QuestionView {
	i := st.Attempt.Index
	q := st.Quiz.Questions[i]
	ans := st.Attempt.Answers[i]
	total := len(st.Quiz.Questions)

	v := models.QuestionView{
		AttemptID:  st.Attempt.ID,
		QuizID:     st.Quiz.ID,
		QuizTitle:  st.Quiz.Title,
		Index:      i,
		Total:      total,
		Progress:   int(math.Round(float64(i+1) / float64(total) * 100)),
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Options:    append([]string(nil), q.Options...),
		Difficulty: q.Difficulty,
		Selected:   ans.Selected,
		Correct:    ans.Correct,
		Finished:   st.Attempt.Finished,
	}
	if ans.Answered() {
		correct := q.CorrectAnswer
		v.CorrectAnswer = &correct
		v.Explanation = q.Explanation
		v.ExplanationVisible = true
		v.NextEnabled = !st.Attempt.Finished
	}
	return v
}

func blankAnswers(q models.Quiz) []models.Answer {
	answers := make([]models.Answer, len(q.Questions))
	for i, question := range q.Questions {
		answers[i].QuestionID = question.ID
	}
	return answers
}

func score(at models.Attempt) models.QuizResult {
	r := models.QuizResult{AttemptID: at.ID, QuizID: at.QuizID, Total: len(at.Answers)}
	for _, ans := range at.Answers {
		if ans.Correct != nil && *ans.Correct {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Score = int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
	}
	return r
}
