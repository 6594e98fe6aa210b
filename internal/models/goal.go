package models

import "time"

// GoalStatus represents the state of a study goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused:
		return true
	}
	return false
}

// Milestone is one checkable step of a goal.
type Milestone struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
	DueDate   string `json:"dueDate" yaml:"dueDate"`
}

// Goal is a learning objective broken into milestones.
type Goal struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Category    string      `json:"category" yaml:"category"`
	TargetDate  string      `json:"targetDate" yaml:"targetDate"`
	Progress    float64     `json:"progress" yaml:"progress"` // 0-100, unrounded
	Status      GoalStatus  `json:"status" yaml:"status"`
	Milestones  []Milestone `json:"milestones" yaml:"milestones"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"-"`
}

// GoalStats are the header figures of the goal tracker.
type GoalStats struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	Completed       int `json:"completed"`
	AverageProgress int `json:"averageProgress"` // rounded for display
}
