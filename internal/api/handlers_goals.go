// handlers_goals.go - Goal tracker handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/goals"
	"github.com/studyassist/backend/internal/models"
)

// GoalHandlerImpl implements the GoalHandler interface
type GoalHandlerImpl struct {
	goals *goals.Service
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(svc *goals.Service) GoalHandler {
	return &GoalHandlerImpl{goals: svc}
}

type createGoalRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
	TargetDate  string `json:"targetDate" validate:"required,isodate"`
}

type goalStatusRequest struct {
	Status models.GoalStatus `json:"status" validate:"required,oneof=active completed paused"`
}

type milestoneRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	DueDate string `json:"dueDate" validate:"isodate"`
}

// HandleListGoals returns every goal in display order
func (h *GoalHandlerImpl) HandleListGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.goals.List())
}

// HandleCreateGoal adds a goal with no milestones
func (h *GoalHandlerImpl) HandleCreateGoal(c echo.Context) error {
	var req createGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	g, err := h.goals.Create(goals.NewGoal{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		return serviceError(err, "goal", "")
	}
	return c.JSON(http.StatusCreated, g)
}

// HandleGoalStats returns the header figures
func (h *GoalHandlerImpl) HandleGoalStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.goals.Stats())
}

// HandleGetGoal returns one goal
func (h *GoalHandlerImpl) HandleGetGoal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	g, err := h.goals.Get(id)
	if err != nil {
		return serviceError(err, "goal", id)
	}
	return c.JSON(http.StatusOK, g)
}

// HandleDeleteGoal removes one goal
func (h *GoalHandlerImpl) HandleDeleteGoal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.goals.Delete(id); err != nil {
		return serviceError(err, "goal", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSetGoalStatus changes a goal's status
func (h *GoalHandlerImpl) HandleSetGoalStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req goalStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := h.goals.SetStatus(id, req.Status)
	if err != nil {
		return serviceError(err, "goal", id)
	}
	return c.JSON(http.StatusOK, g)
}

// HandleAddMilestone appends a milestone to a goal
func (h *GoalHandlerImpl) HandleAddMilestone(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req milestoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := h.goals.AddMilestone(id, req.Title, req.DueDate)
	if err != nil {
		return serviceError(err, "goal", id)
	}
	return c.JSON(http.StatusCreated, g)
}

// HandleToggleMilestone flips a milestone and returns the updated goal
func (h *GoalHandlerImpl) HandleToggleMilestone(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	milestoneID, err := pathID(c, "milestoneId")
	if err != nil {
		return err
	}
	g, err := h.goals.ToggleMilestone(id, milestoneID)
	if err != nil {
		return serviceError(err, "milestone", id+"/"+milestoneID)
	}
	return c.JSON(http.StatusOK, g)
}
