package models

// SessionType classifies a study session.
type SessionType string

const (
	SessionTypeStudy  SessionType = "study"
	SessionTypeQuiz   SessionType = "quiz"
	SessionTypeReview SessionType = "review"
)

// StudySession is one logged block of study time.
type StudySession struct {
	ID       string      `json:"id" yaml:"id"`
	Subject  string      `json:"subject" yaml:"subject"`
	Duration int         `json:"duration" yaml:"duration"` // minutes
	Date     string      `json:"date" yaml:"date"`         // YYYY-MM-DD
	Score    *int        `json:"score,omitempty" yaml:"score,omitempty"`
	Type     SessionType `json:"type" yaml:"type"`
}

// WeeklyGoal is a numeric weekly target.
type WeeklyGoal struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Target  float64 `json:"target" yaml:"target"`
	Current float64 `json:"current" yaml:"current"`
	Unit    string  `json:"unit" yaml:"unit"`
}

// WeeklyGoalStatus pairs a weekly goal with its completion band.
type WeeklyGoalStatus struct {
	WeeklyGoal
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// SubjectTime is total study minutes for one subject.
type SubjectTime struct {
	Subject string `json:"subject"`
	Minutes int    `json:"minutes"`
}

// ProgressOverview is the dashboard payload for one period.
type ProgressOverview struct {
	Period        string             `json:"period"`
	From          string             `json:"from,omitempty"`
	To            string             `json:"to,omitempty"`
	TotalMinutes  int                `json:"totalStudyTime"`
	TotalSessions int                `json:"totalSessions"`
	AverageScore  int                `json:"averageScore"`
	Subjects      []SubjectTime      `json:"subjectDistribution"`
	Sessions      []StudySession     `json:"sessions"`
	WeeklyGoals   []WeeklyGoalStatus `json:"weeklyGoals"`
}
