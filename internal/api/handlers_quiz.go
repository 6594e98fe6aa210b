// handlers_quiz.go - Quiz generator and attempt handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/quiz"
)

// QuizHandlerImpl implements the QuizHandler interface
type QuizHandlerImpl struct {
	catalog  *quiz.Catalog
	attempts *quiz.Attempts
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(catalog *quiz.Catalog, attempts *quiz.Attempts) QuizHandler {
	return &QuizHandlerImpl{
		catalog:  catalog,
		attempts: attempts,
	}
}

type generateQuizRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

type answerRequest struct {
	Selected *int `json:"selectedAnswer" validate:"required,gte=0"`
}

// HandleListQuizzes returns every quiz, newest first
func (h *QuizHandlerImpl) HandleListQuizzes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.List())
}

// HandleGenerateQuiz builds a quiz from study material. The request blocks
// for the configured generation delay.
func (h *QuizHandlerImpl) HandleGenerateQuiz(c echo.Context) error {
	var req generateQuizRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.catalog.Generate(c.Request().Context(), req.Text)
	if err != nil {
		return serviceError(err, "quiz", "")
	}
	return c.JSON(http.StatusCreated, q)
}

// HandleQuizStats returns catalogue and attempt counts
func (h *QuizHandlerImpl) HandleQuizStats(c echo.Context) error {
	st := h.catalog.Stats()
	st.Attempts = h.attempts.Len()
	return c.JSON(http.StatusOK, st)
}

// HandleGetQuiz returns one quiz including its answers
func (h *QuizHandlerImpl) HandleGetQuiz(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := h.catalog.Get(id)
	if err != nil {
		return serviceError(err, "quiz", id)
	}
	return c.JSON(http.StatusOK, q)
}

// HandleStartAttempt starts a run through a quiz at its first question
func (h *QuizHandlerImpl) HandleStartAttempt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.attempts.Start(id)
	if err != nil {
		return serviceError(err, "quiz", id)
	}
	return c.JSON(http.StatusCreated, view)
}

// HandleGetAttempt returns the current question of an attempt
func (h *QuizHandlerImpl) HandleGetAttempt(c echo.Context) error {
	return h.step(c, h.attempts.View)
}

// HandleAbandonAttempt discards an attempt
func (h *QuizHandlerImpl) HandleAbandonAttempt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.attempts.Abandon(id); err != nil {
		return serviceError(err, "attempt", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleAnswer records the selection for the current question
func (h *QuizHandlerImpl) HandleAnswer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req answerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.attempts.Answer(id, *req.Selected)
	if err != nil {
		return serviceError(err, "attempt", id)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleNext moves to the next question, finishing after the last one
func (h *QuizHandlerImpl) HandleNext(c echo.Context) error {
	return h.step(c, h.attempts.Next)
}

// HandleRestart clears every answer and returns to the first question
func (h *QuizHandlerImpl) HandleRestart(c echo.Context) error {
	return h.step(c, h.attempts.Restart)
}

// HandleResult returns the score card
func (h *QuizHandlerImpl) HandleResult(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.attempts.Result(id)
	if err != nil {
		return serviceError(err, "attempt", id)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *QuizHandlerImpl) step(c echo.Context, fn func(string) (models.QuestionView, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	view, err := fn(id)
	if err != nil {
		return serviceError(err, "attempt", id)
	}
	return c.JSON(http.StatusOK, view)
}
