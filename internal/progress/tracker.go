// Package progress builds the study dashboard from logged sessions and
// weekly goals.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/store"
)

var (
	ErrNotFound = errors.New("weekly goal not found")
	ErrInvalid  = errors.New("invalid progress request")
)

// Period names a dashboard window.
type Period string

const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodSemester Period = "semester"
)

// Days returns the length of the window in days, or 0 for an unknown period.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodSemester:
		return 182
	}
	return 0
}

// Weekly goal bands.
const (
	StatusCompleted      = "Completed"
	StatusOnTrack        = "On Track"
	StatusBehind         = "Behind"
	StatusNeedsAttention = "Needs Attention"
)

// NewSession is the input for RecordSession.
type NewSession struct {
	Subject  string
	Duration int
	Date     string // YYYY-MM-DD, today when empty
	Score    *int
	Type     models.SessionType
}

// Tracker owns the session log and weekly goals.
type Tracker struct {
	sessions *store.Memory[models.StudySession]
	goals    *store.Memory[models.WeeklyGoal]
	engine   Engine
	now      func() time.Time
	logger   *slog.Logger
}

// NewTracker creates a tracker over the given records. A nil engine
// aggregates in memory.
func NewTracker(sessions []models.StudySession, goals []models.WeeklyGoal, engine Engine, logger *slog.Logger) *Tracker {
	if engine == nil {
		engine = MemoryEngine{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		sessions: store.NewMemory(func(s models.StudySession) string { return s.ID }),
		goals:    store.NewMemory(func(g models.WeeklyGoal) string { return g.ID }),
		engine:   engine,
		now:      time.Now,
		logger:   logger.With("component", "progress", "engine", engine.Name()),
	}
	t.sessions.Insert(sessions...)
	t.goals.Insert(goals...)
	return t
}

// Overview aggregates the sessions of a period. The window ends at the most
// recent session date and spans the period's days, inclusive.
func (t *Tracker) Overview(ctx context.Context, period Period) (models.ProgressOverview, error) {
	if period == "" {
		period = PeriodWeek
	}
	days := period.Days()
	if days == 0 {
		return models.ProgressOverview{}, fmt.Errorf("%w: unknown period %q", ErrInvalid, period)
	}

	all := t.sessions.List()
	ov := models.ProgressOverview{
		Period:      string(period),
		Sessions:    []models.StudySession{},
		WeeklyGoals: t.WeeklyGoals(),
	}

	var inWindow []models.StudySession
	if latest := latestDate(all); latest != "" {
		to, err := time.Parse(time.DateOnly, latest)
		if err != nil {
			return models.ProgressOverview{}, fmt.Errorf("session date %q: %w", latest, err)
		}
		ov.To = latest
		ov.From = to.AddDate(0, 0, -(days - 1)).Format(time.DateOnly)
		for _, s := range all {
			if s.Date >= ov.From && s.Date <= ov.To {
				inWindow = append(inWindow, s)
			}
		}
	}

	totals, err := t.engine.Aggregate(ctx, inWindow)
	if err != nil {
		return models.ProgressOverview{}, fmt.Errorf("aggregate sessions: %w", err)
	}
	ov.TotalMinutes = totals.TotalMinutes
	ov.TotalSessions = totals.TotalSessions
	ov.AverageScore = totals.AverageScore
	ov.Subjects = totals.Subjects

	sort.SliceStable(inWindow, func(i, j int) bool { return inWindow[i].Date > inWindow[j].Date })
	if inWindow != nil {
		ov.Sessions = inWindow
	}
	return ov, nil
}

// RecordSession logs a study session.
func (t *Tracker) RecordSession(in NewSession) (models.StudySession, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return models.StudySession{}, fmt.Errorf("%w: subject is required", ErrInvalid)
	}
	if in.Duration <= 0 {
		return models.StudySession{}, fmt.Errorf("%w: duration must be positive", ErrInvalid)
	}
	date := in.Date
	if date == "" {
		date = t.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return models.StudySession{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, date)
	}
	if in.Score != nil && (*in.Score < 0 || *in.Score > 100) {
		return models.StudySession{}, fmt.Errorf("%w: score must be within 0-100", ErrInvalid)
	}
	typ := in.Type
	switch typ {
	case "":
		typ = models.SessionTypeStudy
	case models.SessionTypeStudy, models.SessionTypeQuiz, models.SessionTypeReview:
	default:
		return models.StudySession{}, fmt.Errorf("%w: unknown session type %q", ErrInvalid, typ)
	}

	s := models.StudySession{
		ID:       uuid.New().String(),
		Subject:  subject,
		Duration: in.Duration,
		Date:     date,
		Score:    in.Score,
		Type:     typ,
	}
	t.sessions.Insert(s)
	t.logger.Debug("session recorded", "subject", s.Subject, "minutes", s.Duration)
	return s, nil
}

// UpdateWeeklyGoal sets the current value of a weekly goal.
func (t *Tracker) UpdateWeeklyGoal(id string, current float64) (models.WeeklyGoalStatus, error) {
	if current < 0 {
		return models.WeeklyGoalStatus{}, fmt.Errorf("%w: current must not be negative", ErrInvalid)
	}
	g, ok := t.goals.Update(id, func(g *models.WeeklyGoal) { g.Current = current })
	if !ok {
		return models.WeeklyGoalStatus{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return GoalStatus(g), nil
}

// WeeklyGoals returns every weekly goal with its band.
func (t *Tracker) WeeklyGoals() []models.WeeklyGoalStatus {
	goals := t.goals.List()
	out := make([]models.WeeklyGoalStatus, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalStatus(g))
	}
	return out
}

// GoalStatus bands a weekly goal by current/target. The reported
// percentage is capped at 100; a zero target yields 0.
func GoalStatus(g models.WeeklyGoal) models.WeeklyGoalStatus {
	var pct float64
	if g.Target > 0 {
		pct = g.Current / g.Target * 100
	}
	st := models.WeeklyGoalStatus{WeeklyGoal: g, Percentage: math.Min(pct, 100)}
	switch {
	case pct >= 100:
		st.Status = StatusCompleted
	case pct >= 80:
		st.Status = StatusOnTrack
	case pct >= 60:
		st.Status = StatusBehind
	default:
		st.Status = StatusNeedsAttention
	}
	return st
}

// Close releases the aggregation engine.
func (t *Tracker) Close() error {
	return t.engine.Close()
}

func latestDate(sessions []models.StudySession) string {
	latest := ""
	for _, s := range sessions {
		if s.Date > latest {
			latest = s.Date
		}
	}
	return latest
}
