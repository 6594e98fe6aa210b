package progress

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/studyassist/backend/internal/models"
)

// Totals are the session aggregates of one period.
type Totals struct {
	TotalMinutes  int
	TotalSessions int
	AverageScore  int // rounded mean over non-zero scores, 0 when none
	Subjects      []models.SubjectTime
}

// Engine computes Totals over a set of sessions.
type Engine interface {
	Name() string
	Aggregate(ctx context.Context, sessions []models.StudySession) (Totals, error)
	Close() error
}

// NewEngine returns the engine registered under name.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "memory":
		return MemoryEngine{}, nil
	case "duckdb":
		return NewDuckEngine()
	default:
		return nil, fmt.Errorf("unknown progress engine %q (have memory, duckdb)", name)
	}
}

// MemoryEngine aggregates in Go.
type MemoryEngine struct{}

func (MemoryEngine) Name() string { return "memory" }

func (MemoryEngine) Close() error { return nil }

func (MemoryEngine) Aggregate(_ context.Context, sessions []models.StudySession) (Totals, error) {
	t := Totals{TotalSessions: len(sessions), Subjects: []models.SubjectTime{}}
	bySubject := make(map[string]int)
	var scoreSum, scored int
	for _, s := range sessions {
		t.TotalMinutes += s.Duration
		bySubject[s.Subject] += s.Duration
		if s.Score != nil && *s.Score > 0 {
			scoreSum += *s.Score
			scored++
		}
	}
	if scored > 0 {
		t.AverageScore = int(math.Round(float64(scoreSum) / float64(scored)))
	}
	for subject, minutes := range bySubject {
		t.Subjects = append(t.Subjects, models.SubjectTime{Subject: subject, Minutes: minutes})
	}
	sortSubjects(t.Subjects)
	return t, nil
}

// sortSubjects orders by minutes descending, then by name.
func sortSubjects(s []models.SubjectTime) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Minutes != s[j].Minutes {
			return s[i].Minutes > s[j].Minutes
		}
		return s[i].Subject < s[j].Subject
	})
}
