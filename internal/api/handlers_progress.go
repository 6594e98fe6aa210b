// handlers_progress.go - Progress dashboard handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/progress"
)

// ProgressHandlerImpl implements the ProgressHandler interface
type ProgressHandlerImpl struct {
	tracker *progress.Tracker
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(tracker *progress.Tracker) ProgressHandler {
	return &ProgressHandlerImpl{tracker: tracker}
}

type recordSessionRequest struct {
	Subject  string             `json:"subject" validate:"required,notblank,max=100"`
	Duration int                `json:"duration" validate:"required,gt=0,lte=1440"`
	Date     string             `json:"date" validate:"isodate"`
	Score    *int               `json:"score" validate:"omitempty,gte=0,lte=100"`
	Type     models.SessionType `json:"type" validate:"omitempty,oneof=study quiz review"`
}

type weeklyGoalRequest struct {
	Current *float64 `json:"current" validate:"required,gte=0"`
}

// HandleOverview returns the dashboard for ?period=week|month|semester
func (h *ProgressHandlerImpl) HandleOverview(c echo.Context) error {
	period := progress.Period(c.QueryParam("period"))
	ov, err := h.tracker.Overview(c.Request().Context(), period)
	if err != nil {
		return serviceError(err, "period", string(period))
	}
	return c.JSON(http.StatusOK, ov)
}

// HandleRecordSession logs a study session
func (h *ProgressHandlerImpl) HandleRecordSession(c echo.Context) error {
	var req recordSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := h.tracker.RecordSession(progress.NewSession{
		Subject:  req.Subject,
		Duration: req.Duration,
		Date:     req.Date,
		Score:    req.Score,
		Type:     req.Type,
	})
	if err != nil {
		return serviceError(err, "session", "")
	}
	return c.JSON(http.StatusCreated, s)
}

// HandleUpdateWeeklyGoal sets the current value of a weekly goal
func (h *ProgressHandlerImpl) HandleUpdateWeeklyGoal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req weeklyGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st, err := h.tracker.UpdateWeeklyGoal(id, *req.Current)
	if err != nil {
		return serviceError(err, "weekly goal", id)
	}
	return c.JSON(http.StatusOK, st)
}
