// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/goals"
	"github.com/studyassist/backend/internal/progress"
	"github.com/studyassist/backend/internal/quiz"
	"github.com/studyassist/backend/internal/summary"
	"github.com/studyassist/backend/internal/upload"
	"github.com/studyassist/backend/internal/validate"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	UploadMgr *upload.Manager
	Policy    upload.Policy
	Hub       *events.Hub
	Goals     *goals.Service
	Catalog   *quiz.Catalog
	Attempts  *quiz.Attempts
	Summaries *summary.Service
	Tracker   *progress.Tracker
	Engine    string
	Version   string
	Logger    *slog.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Feed     FeedHandler
	Goal     GoalHandler
	Quiz     QuizHandler
	Summary  SummaryHandler
	Progress ProgressHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Engine, deps.UploadMgr),
		Upload:   NewUploadHandler(deps.UploadMgr, deps.Policy),
		Feed:     NewFeedHandler(deps.Hub, deps.UploadMgr, deps.Logger),
		Goal:     NewGoalHandler(deps.Goals),
		Quiz:     NewQuizHandler(deps.Catalog, deps.Attempts),
		Summary:  NewSummaryHandler(deps.Summaries),
		Progress: NewProgressHandler(deps.Tracker),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	api := e.Group("/api")

	// Health check
	api.GET("/health", handlers.Health.HandleHealth)

	// Notes uploader
	uploadGroup := api.Group("/uploads")
	uploadGroup.POST("", handlers.Upload.HandleAcceptFiles)
	uploadGroup.POST("/form", handlers.Upload.HandleAcceptForm)
	uploadGroup.GET("", handlers.Upload.HandleListFiles)
	uploadGroup.GET("/msgpack", handlers.Upload.HandleListFilesMsgpack)
	uploadGroup.GET("/stats", handlers.Upload.HandleUploadStats)
	uploadGroup.GET("/categories", handlers.Upload.HandleCategories)
	uploadGroup.GET("/:id", handlers.Upload.HandleGetFile)
	uploadGroup.DELETE("/:id", handlers.Upload.HandleRemoveFile)
	api.GET("/ws/uploads", handlers.Feed.HandleUploadFeed)

	// Goal tracker
	goalGroup := api.Group("/goals")
	goalGroup.GET("", handlers.Goal.HandleListGoals)
	goalGroup.POST("", handlers.Goal.HandleCreateGoal)
	goalGroup.GET("/stats", handlers.Goal.HandleGoalStats)
	goalGroup.GET("/:id", handlers.Goal.HandleGetGoal)
	goalGroup.DELETE("/:id", handlers.Goal.HandleDeleteGoal)
	goalGroup.PUT("/:id/status", handlers.Goal.HandleSetGoalStatus)
	goalGroup.POST("/:id/milestones", handlers.Goal.HandleAddMilestone)
	goalGroup.POST("/:id/milestones/:milestoneId/toggle", handlers.Goal.HandleToggleMilestone)

	// Quiz generator
	quizGroup := api.Group("/quizzes")
	quizGroup.GET("", handlers.Quiz.HandleListQuizzes)
	quizGroup.POST("/generate", handlers.Quiz.HandleGenerateQuiz)
	quizGroup.GET("/stats", handlers.Quiz.HandleQuizStats)
	quizGroup.GET("/:id", handlers.Quiz.HandleGetQuiz)
	quizGroup.POST("/:id/attempts", handlers.Quiz.HandleStartAttempt)

	attemptGroup := api.Group("/attempts")
	attemptGroup.GET("/:id", handlers.Quiz.HandleGetAttempt)
	attemptGroup.DELETE("/:id", handlers.Quiz.HandleAbandonAttempt)
	attemptGroup.POST("/:id/answer", handlers.Quiz.HandleAnswer)
	attemptGroup.POST("/:id/next", handlers.Quiz.HandleNext)
	attemptGroup.POST("/:id/restart", handlers.Quiz.HandleRestart)
	attemptGroup.GET("/:id/result", handlers.Quiz.HandleResult)

	// Summariser
	summaryGroup := api.Group("/summaries")
	summaryGroup.GET("", handlers.Summary.HandleListSummaries)
	summaryGroup.POST("", handlers.Summary.HandleCreateSummary)
	summaryGroup.GET("/stats", handlers.Summary.HandleSummaryStats)
	summaryGroup.GET("/:id", handlers.Summary.HandleGetSummary)
	summaryGroup.DELETE("/:id", handlers.Summary.HandleDeleteSummary)

	// Progress dashboard
	progressGroup := api.Group("/progress")
	progressGroup.GET("", handlers.Progress.HandleOverview)
	progressGroup.POST("/sessions", handlers.Progress.HandleRecordSession)
	progressGroup.PUT("/weekly-goals/:id", handlers.Progress.HandleUpdateWeeklyGoal)
}

// MiddlewareConfig selects the optional middleware
type MiddlewareConfig struct {
	EnableCORS     bool
	AllowOrigins   []string
	BodyLimit      string
	RequestLogging bool
	Gzip           bool
	GzipLevel      int
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig, v *validate.Validator, logger *slog.Logger) {
	// Use custom error handler
	e.HTTPErrorHandler = NewErrorHandler(v, logger)
	e.Validator = v

	e.Use(middleware.Recover())

	if cfg.RequestLogging {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Skipper: func(c echo.Context) bool {
				path := c.Path()
				return path == "/api/health" || path == "/api/ws/uploads"
			},
		}))
	}

	if cfg.EnableCORS {
		origins := cfg.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		}))
	}

	if cfg.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.GzipLevel,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/api/ws/uploads"
			},
		}))
	}

	if cfg.BodyLimit != "" {
		// Form file parts are discarded as they stream in.
		e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			Limit: cfg.BodyLimit,
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, "/uploads/form")
			},
		}))
	}
}
