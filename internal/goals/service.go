// Package goals tracks learning objectives and their milestones.
package goals

import (
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
	ErrNotFound = errors.New("goal not found")
	ErrInvalid  = errors.New("invalid goal")
)

// DefaultCategory is assigned when a new goal has none.
const DefaultCategory = "General"

// NewGoal is the input for Create.
type NewGoal struct {
	Title       string
	Description string
	Category    string
	TargetDate  string
}

// Service owns the goal list.
type Service struct {
	goals  *store.Memory[models.Goal]
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a service holding the given goals, in order.
func NewService(seed []models.Goal, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		goals:  store.NewMemory(func(g models.Goal) string { return g.ID }),
		now:    time.Now,
		logger: logger.With("component", "goals"),
	}
	for _, g := range seed {
		g.Milestones = append([]models.Milestone{}, g.Milestones...)
		if g.Status == "" {
			g.Status = models.GoalStatusActive
		}
		s.goals.Insert(g)
	}
	return s
}

// List returns all goals in creation order.
func (s *Service) List() []models.Goal {
	return s.goals.List()
}

// Get returns one goal.
func (s *Service) Get(id string) (models.Goal, error) {
	g, ok := s.goals.Get(id)
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, nil
}

// Create appends a new active goal with no milestones.
func (s *Service) Create(in NewGoal) (models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Goal{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if strings.TrimSpace(in.TargetDate) == "" {
		return models.Goal{}, fmt.Errorf("%w: target date is required", ErrInvalid)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	g := models.Goal{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Category:    category,
		TargetDate:  in.TargetDate,
		Status:      models.GoalStatusActive,
		Milestones:  []models.Milestone{},
		CreatedAt:   s.now(),
	}
	s.goals.Insert(g)
	s.logger.Info("goal created", "id", g.ID, "title", g.Title)
	return g, nil
}

// AddMilestone appends a milestone and recomputes progress.
func (s *Service) AddMilestone(goalID, title, dueDate string) (models.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Goal{}, fmt.Errorf("%w: milestone title is required", ErrInvalid)
	}
	m := models.Milestone{ID: uuid.New().String(), Title: title, DueDate: dueDate}
	g, ok := s.goals.Update(goalID, func(g *models.Goal) {
		next := make([]models.Milestone, 0, len(g.Milestones)+1)
		next = append(next, g.Milestones...)
		g.Milestones = append(next, m)
		g.Progress = progressOf(g.Milestones)
	})
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrNotFound, goalID)
	}
	return g, nil
}

// ToggleMilestone flips one milestone and stores the unrounded share of
// completed milestones as the goal's progress.
func (s *Service) ToggleMilestone(goalID, milestoneID string) (models.Goal, error) {
	found := false
	g, ok := s.goals.Update(goalID, func(g *models.Goal) {
		next := make([]models.Milestone, len(g.Milestones))
		copy(next, g.Milestones)
		for i := range next {
			if next[i].ID == milestoneID {
				next[i].Completed = !next[i].Completed
				found = true
			}
		}
		if !found {
			return
		}
		g.Milestones = next
		g.Progress = progressOf(next)
	})
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrNotFound, goalID)
	}
	if !found {
		return g, fmt.Errorf("%w: milestone %s in goal %s", ErrNotFound, milestoneID, goalID)
	}
	return g, nil
}

// SetStatus changes a goal's status.
func (s *Service) SetStatus(goalID string, status models.GoalStatus) (models.Goal, error) {
	if !status.Valid() {
		return models.Goal{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	g, ok := s.goals.Update(goalID, func(g *models.Goal) { g.Status = status })
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrNotFound, goalID)
	}
	return g, nil
}

// Delete removes a goal.
func (s *Service) Delete(goalID string) error {
	if _, ok := s.goals.Remove(goalID); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, goalID)
	}
	return nil
}

// Stats returns the header figures. The average is rounded for display and
// is 0 when there are no goals.
func (s *Service) Stats() models.GoalStats {
	var st models.GoalStats
	var sum float64
	for _, g := range s.goals.List() {
		st.Total++
		sum += g.Progress
		switch g.Status {
		case models.GoalStatusActive:
			st.Active++
		case models.GoalStatusCompleted:
			st.Completed++
		}
	}
	if st.Total > 0 {
		st.AverageProgress = int(math.Round(sum / float64(st.Total)))
	}
	return st
}

func progressOf(ms []models.Milestone) float64 {
	if len(ms) == 0 {
		return 0
	}
	done := 0
	for _, m := range ms {
		if m.Completed {
			done++
		}
	}
	return float64(done) / float64(len(ms)) * 100
}
