// Package summary condenses study material into summaries.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/store"
)

var (
	ErrNotFound = errors.New("summary not found")
	ErrInvalid  = errors.New("invalid summary request")
)

// DefaultGenerationDelay mimics the time a real summariser takes.
const DefaultGenerationDelay = 3 * time.Second

// KeepRatio is the share of words a summary keeps.
const KeepRatio = 0.3

// Summarizer writes the content and key points for a text of words words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, words int, t models.SummaryType) (content string, keyPoints []string, err error)
}

// TemplateSummarizer produces the fixed placeholder summary.
type TemplateSummarizer struct{}

func (TemplateSummarizer) Summarize(_ context.Context, _ string, words int, _ models.SummaryType) (string, []string, error) {
	content := fmt.Sprintf("This is an AI-generated summary of your %d-word text. "+
		"The key concepts have been distilled into the most important points "+
		"while maintaining the original meaning and context.", words)
	return content, []string{
		"Main concept identified and explained",
		"Supporting details summarized",
		"Key relationships highlighted",
		"Conclusion and implications noted",
	}, nil
}

// Service owns the summary list, newest first.
type Service struct {
	summaries  *store.Memory[models.Summary]
	summarizer Summarizer
	delay      time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a service holding seed.
func NewService(seed []models.Summary, s Summarizer, delay time.Duration, logger *slog.Logger) *Service {
	if s == nil {
		s = TemplateSummarizer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Service{
		summaries:  store.NewMemory(func(s models.Summary) string { return s.ID }),
		summarizer: s,
		delay:      delay,
		now:        time.Now,
		logger:     logger.With("component", "summary"),
	}
	svc.summaries.Insert(seed...)
	return svc
}

// Measure returns the word counts and compression for a text of words
// words. words must be positive.
func Measure(words int) (summaryLength, compressionRatio int) {
	summaryLength = int(math.Floor(float64(words) * KeepRatio))
	compressionRatio = int(math.Floor(float64(words-summaryLength) / float64(words) * 100))
	return summaryLength, compressionRatio
}

// Generate summarises text after the generation delay and places the result
// at the front of the list. An empty type means paragraph.
func (s *Service) Generate(ctx context.Context, text string, t models.SummaryType) (models.Summary, error) {
	words := len(strings.Fields(text))
	if words == 0 {
		return models.Summary{}, fmt.Errorf("%w: text is empty", ErrInvalid)
	}
	if t == "" {
		t = models.SummaryTypeParagraph
	}
	if !t.Valid() {
		return models.Summary{}, fmt.Errorf("%w: unknown type %q", ErrInvalid, t)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Summary{}, ctx.Err()
		case <-timer.C:
		}
	}

	content, keyPoints, err := s.summarizer.Summarize(ctx, text, words, t)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	length, ratio := Measure(words)
	sum := s.summaries.Prepend(func(n int) models.Summary {
		return models.Summary{
			ID:               uuid.New().String(),
			Title:            fmt.Sprintf("Summary %d", n+1),
			OriginalLength:   words,
			SummaryLength:    length,
			CompressionRatio: ratio,
			Content:          content,
			KeyPoints:        keyPoints,
			CreatedAt:        s.now().Format(time.DateOnly),
			Type:             t,
		}
	})
	s.logger.Info("summary generated", "id", sum.ID, "words", words, "type", t)
	return sum, nil
}

// List returns every summary.
func (s *Service) List() []models.Summary {
	return s.summaries.List()
}

// Get returns one summary.
func (s *Service) Get(id string) (models.Summary, error) {
	sum, ok := s.summaries.Get(id)
	if !ok {
		return sum, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sum, nil
}

// Delete removes a summary.
func (s *Service) Delete(id string) error {
	if _, ok := s.summaries.Remove(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Stats returns the header figures. The average compression is rounded and
// is 0 when the list is empty.
func (s *Service) Stats() models.SummaryStats {
	var st models.SummaryStats
	var sum int
	for _, x := range s.summaries.List() {
		st.Count++
		sum += x.CompressionRatio
		st.TotalWordsProcessed += x.OriginalLength
	}
	if st.Count > 0 {
		st.AverageCompression = int(math.Round(float64(sum) / float64(st.Count)))
	}
	return st
}
