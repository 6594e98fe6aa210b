// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// UploadHandler handles the simulated notes uploader
type UploadHandler interface {
	HandleAcceptFiles(c echo.Context) error
	HandleAcceptForm(c echo.Context) error
	HandleListFiles(c echo.Context) error
	HandleListFilesMsgpack(c echo.Context) error
	HandleUploadStats(c echo.Context) error
	HandleCategories(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleRemoveFile(c echo.Context) error
}

// FeedHandler streams upload lifecycle events over a websocket
type FeedHandler interface {
	HandleUploadFeed(c echo.Context) error
}

// GoalHandler handles the goal tracker
type GoalHandler interface {
	HandleListGoals(c echo.Context) error
	HandleCreateGoal(c echo.Context) error
	HandleGoalStats(c echo.Context) error
	HandleGetGoal(c echo.Context) error
	HandleDeleteGoal(c echo.Context) error
	HandleSetGoalStatus(c echo.Context) error
	HandleAddMilestone(c echo.Context) error
	HandleToggleMilestone(c echo.Context) error
}

// QuizHandler handles quiz generation and attempts
type QuizHandler interface {
	HandleListQuizzes(c echo.Context) error
	HandleGenerateQuiz(c echo.Context) error
	HandleQuizStats(c echo.Context) error
	HandleGetQuiz(c echo.Context) error
	HandleStartAttempt(c echo.Context) error
	HandleGetAttempt(c echo.Context) error
	HandleAbandonAttempt(c echo.Context) error
	HandleAnswer(c echo.Context) error
	HandleNext(c echo.Context) error
	HandleRestart(c echo.Context) error
	HandleResult(c echo.Context) error
}

// SummaryHandler handles the summariser
type SummaryHandler interface {
	HandleListSummaries(c echo.Context) error
	HandleCreateSummary(c echo.Context) error
	HandleSummaryStats(c echo.Context) error
	HandleGetSummary(c echo.Context) error
	HandleDeleteSummary(c echo.Context) error
}

// ProgressHandler handles the progress dashboard
type ProgressHandler interface {
	HandleOverview(c echo.Context) error
	HandleRecordSession(c echo.Context) error
	HandleUpdateWeeklyGoal(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
