package models

import "time"

// Difficulty grades a quiz question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single multiple-choice question.
type Question struct {
	ID            string     `json:"id" yaml:"id"`
	Prompt        string     `json:"question" yaml:"question"`
	Options       []string   `json:"options" yaml:"options"`
	CorrectAnswer int        `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string     `json:"explanation" yaml:"explanation"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
}

// Quiz is an ordered set of questions.
type Quiz struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Category    string     `json:"category" yaml:"category"`
	CreatedAt   string     `json:"createdAt" yaml:"createdAt"` // YYYY-MM-DD
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Answer records the first selection made for a question.
// Selected and Correct stay nil until the question is answered.
type Answer struct {
	QuestionID string `json:"questionId"`
	Selected   *int   `json:"selectedAnswer"`
	Correct    *bool  `json:"isCorrect"`
}

// Answered reports whether a selection has been recorded.
func (a Answer) Answered() bool {
	return a.Selected != nil
}

// Attempt is one run through a quiz.
type Attempt struct {
	ID           string    `json:"id"`
	QuizID       string    `json:"quizId"`
	Index        int       `json:"currentQuestionIndex"`
	Answers      []Answer  `json:"answers"`
	Finished     bool      `json:"finished"`
	StartedAt    time.Time `json:"startedAt"`
	LastAccessed time.Time `json:"-"`
}

// QuestionView is the client-facing state of the current question.
// The correct option is only revealed once the question has been answered.
type QuestionView struct {
	AttemptID          string     `json:"attemptId"`
	QuizID             string     `json:"quizId"`
	QuizTitle          string     `json:"quizTitle"`
	Index              int        `json:"index"`
	Total              int        `json:"total"`
	Progress           int        `json:"progress"` // percent through the quiz, rounded
	QuestionID         string     `json:"questionId"`
	Prompt             string     `json:"question"`
	Options            []string   `json:"options"`
	Difficulty         Difficulty `json:"difficulty"`
	Selected           *int       `json:"selectedAnswer"`
	Correct            *bool      `json:"isCorrect"`
	CorrectAnswer      *int       `json:"correctAnswer,omitempty"`
	Explanation        string     `json:"explanation,omitempty"`
	ExplanationVisible bool       `json:"explanationVisible"`
	NextEnabled        bool       `json:"nextEnabled"`
	Finished           bool       `json:"finished"`
}

// QuizResult is the score card shown when an attempt finishes.
type QuizResult struct {
	AttemptID string `json:"attemptId"`
	QuizID    string `json:"quizId"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Score     int    `json:"score"` // rounded percentage
}

// QuizStats are the header figures of the quiz generator.
type QuizStats struct {
	Quizzes   int `json:"quizzes"`
	Questions int `json:"questions"`
	Attempts  int `json:"activeAttempts"`
}
