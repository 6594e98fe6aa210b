// Package quiz holds the quiz catalog and runs quiz attempts.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/store"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid request")
	ErrNotAnswered = errors.New("current question has not been answered")
	ErrFinished    = errors.New("attempt already finished")
)

// DefaultGenerationDelay mimics the time a real generator takes.
const DefaultGenerationDelay = 3 * time.Second

// Generator turns study material into questions.
type Generator interface {
	Generate(ctx context.Context, text string) ([]models.Question, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, text string) ([]models.Question, error)

func (f GeneratorFunc) Generate(ctx context.Context, text string) ([]models.Question, error) {
	return f(ctx, text)
}

// TemplateGenerator produces the fixed placeholder question.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, _ string) ([]models.Question, error) {
	return []models.Question{{
		ID:            "q" + uuid.New().String(),
		Prompt:        "What is the main topic discussed in the provided text?",
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		CorrectAnswer: 0,
		Explanation:   "This is based on the key concepts identified in your text.",
		Difficulty:    models.DifficultyMedium,
	}}, nil
}

// Catalog is the list of available quizzes, newest generated first.
type Catalog struct {
	quizzes *store.Memory[models.Quiz]
	gen     Generator
	delay   time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewCatalog creates a catalog holding seed. A zero delay generates
// immediately.
func NewCatalog(seed []models.Quiz, gen Generator, delay time.Duration, logger *slog.Logger) *Catalog {
	if gen == nil {
		gen = TemplateGenerator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		quizzes: store.NewMemory(func(q models.Quiz) string { return q.ID }),
		gen:     gen,
		delay:   delay,
		now:     time.Now,
		logger:  logger.With("component", "quiz"),
	}
	c.quizzes.Insert(seed...)
	return c
}

// List returns every quiz.
func (c *Catalog) List() []models.Quiz {
	return c.quizzes.List()
}

// Get returns one quiz.
func (c *Catalog) Get(id string) (models.Quiz, error) {
	q, ok := c.quizzes.Get(id)
	if !ok {
		return q, fmt.Errorf("%w: quiz %s", ErrNotFound, id)
	}
	return q, nil
}

// Generate builds a quiz from text after the generation delay and places
// it at the front of the catalog.
func (c *Catalog) Generate(ctx context.Context, text string) (models.Quiz, error) {
	if strings.TrimSpace(text) == "" {
		return models.Quiz{}, fmt.Errorf("%w: study material is empty", ErrInvalid)
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Quiz{}, ctx.Err()
		case <-timer.C:
		}
	}

	questions, err := c.gen.Generate(ctx, text)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("generate questions: %w", err)
	}
	if len(questions) == 0 {
		return models.Quiz{}, fmt.Errorf("%w: generator returned no questions", ErrInvalid)
	}

	q := c.quizzes.Prepend(func(n int) models.Quiz {
		return models.Quiz{
			ID:          uuid.New().String(),
			Title:       fmt.Sprintf("Generated Quiz %d", n+1),
			Description: "AI-generated quiz from your content",
			Category:    "Custom",
			CreatedAt:   c.now().Format(time.DateOnly),
			Questions:   questions,
		}
	})
	c.logger.Info("quiz generated", "id", q.ID, "questions", len(questions), "words", len(strings.Fields(text)))
	return q, nil
}

// Stats counts quizzes and questions.
func (c *Catalog) Stats() models.QuizStats {
	var st models.QuizStats
	for _, q := range c.quizzes.List() {
		st.Quizzes++
		st.Questions += len(q.Questions)
	}
	return st
}
