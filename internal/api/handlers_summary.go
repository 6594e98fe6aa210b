// handlers_summary.go - Summariser handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/summary"
)

// SummaryHandlerImpl implements the SummaryHandler interface
type SummaryHandlerImpl struct {
	summaries *summary.Service
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(svc *summary.Service) SummaryHandler {
	return &SummaryHandlerImpl{summaries: svc}
}

type createSummaryRequest struct {
	Text string             `json:"text" validate:"required,notblank"`
	Type models.SummaryType `json:"type" validate:"omitempty,oneof=bullet paragraph outline"`
}

// HandleListSummaries returns every summary, newest first
func (h *SummaryHandlerImpl) HandleListSummaries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.summaries.List())
}

// HandleCreateSummary summarises the submitted text. The request blocks for
// the configured generation delay.
func (h *SummaryHandlerImpl) HandleCreateSummary(c echo.Context) error {
	var req createSummaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sum, err := h.summaries.Generate(c.Request().Context(), req.Text, req.Type)
	if err != nil {
		return serviceError(err, "summary", "")
	}
	return c.JSON(http.StatusCreated, sum)
}

// HandleSummaryStats returns the header figures
func (h *SummaryHandlerImpl) HandleSummaryStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.summaries.Stats())
}

// HandleGetSummary returns one summary
func (h *SummaryHandlerImpl) HandleGetSummary(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sum, err := h.summaries.Get(id)
	if err != nil {
		return serviceError(err, "summary", id)
	}
	return c.JSON(http.StatusOK, sum)
}

// HandleDeleteSummary removes one summary
func (h *SummaryHandlerImpl) HandleDeleteSummary(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.summaries.Delete(id); err != nil {
		return serviceError(err, "summary", id)
	}
	return c.NoContent(http.StatusNoContent)
}
