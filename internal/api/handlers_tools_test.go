package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
	"github.com/studyassist/backend/internal/progress"
)

func TestGoalHandlers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/goals", map[string]string{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "title")
	assert.Contains(t, apiErr.Fields, "targetDate")

	rec = s.do(t, http.MethodPost, "/api/goals", map[string]string{"title": "Learn Go", "targetDate": "15/06/2024"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "targetDate")

	rec = s.do(t, http.MethodPost, "/api/goals", map[string]string{"title": "Learn Go", "targetDate": "2024-06-15"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Goal](t, rec)
	assert.Equal(t, "General", created.Category)
	assert.Zero(t, created.Progress)
	assert.Empty(t, created.Milestones)

	rec = s.do(t, http.MethodGet, "/api/goals", nil)
	all := decode[[]models.Goal](t, rec)
	require.Len(t, all, 3)
	assert.Equal(t, created.ID, all[2].ID)

	rec = s.do(t, http.MethodPost, "/api/goals/1/milestones/3/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, decode[models.Goal](t, rec).Progress)

	rec = s.do(t, http.MethodPost, "/api/goals/1/milestones/99/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/goals/"+created.ID+"/milestones", map[string]string{"title": "Tour of Go"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, decode[models.Goal](t, rec).Milestones, 1)

	rec = s.do(t, http.MethodPut, "/api/goals/2/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/goals/2/status", map[string]string{"status": "paused"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.GoalStatusPaused, decode[models.Goal](t, rec).Status)

	rec = s.do(t, http.MethodDelete, "/api/goals/2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/goals/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/goals/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[models.GoalStats](t, rec).Total)
}

func TestQuizHandlers_FullAttempt(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/quizzes/1/attempts", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decode[models.QuestionView](t, rec)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 2, view.Total)
	assert.Nil(t, view.CorrectAnswer)
	assert.False(t, view.NextEnabled)
	attempt := "/api/attempts/" + view.AttemptID

	rec = s.do(t, http.MethodPost, attempt+"/next", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[APIError](t, rec).Code)

	rec = s.do(t, http.MethodPost, attempt+"/answer", map[string]int{"selectedAnswer": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[models.QuestionView](t, rec)
	require.NotNil(t, view.Correct)
	assert.True(t, *view.Correct)
	assert.True(t, view.ExplanationVisible)
	assert.True(t, view.NextEnabled)

	rec = s.do(t, http.MethodPost, attempt+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[models.QuestionView](t, rec).Index)

	rec = s.do(t, http.MethodPost, attempt+"/answer", map[string]int{"selectedAnswer": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *decode[models.QuestionView](t, rec).Correct)

	rec = s.do(t, http.MethodPost, attempt+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.QuestionView](t, rec).Finished)

	rec = s.do(t, http.MethodGet, attempt+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[models.QuizResult](t, rec)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 50, res.Score)

	rec = s.do(t, http.MethodPost, attempt+"/next", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, attempt+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[models.QuestionView](t, rec)
	assert.Equal(t, 0, view.Index)
	assert.Nil(t, view.Selected)

	rec = s.do(t, http.MethodDelete, attempt, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, attempt, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizHandlers_AnswerValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/quizzes/2/attempts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	attempt := "/api/attempts/" + decode[models.QuestionView](t, rec).AttemptID

	rec = s.do(t, http.MethodPost, attempt+"/answer", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "selectedAnswer")

	rec = s.do(t, http.MethodPost, attempt+"/answer", map[string]int{"selectedAnswer": 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[APIError](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/quizzes/404/attempts", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizHandlers_Generate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/quizzes/generate", map[string]string{"text": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "text")

	rec = s.do(t, http.MethodPost, "/api/quizzes/generate", map[string]string{"text": "Photosynthesis converts light into chemical energy."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decode[models.Quiz](t, rec)
	assert.Equal(t, "Generated Quiz 3", q.Title)
	assert.NotEmpty(t, q.Questions)

	rec = s.do(t, http.MethodGet, "/api/quizzes", nil)
	list := decode[[]models.Quiz](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, q.ID, list[0].ID)

	rec = s.do(t, http.MethodGet, "/api/quizzes/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[models.QuizStats](t, rec)
	assert.Equal(t, 3, st.Quizzes)
	assert.Zero(t, st.Attempts)
}

func TestSummaryHandlers(t *testing.T) {
	s := newTestServer(t)

	text := strings.Repeat("word ", 20)
	rec := s.do(t, http.MethodPost, "/api/summaries", map[string]string{"text": text, "type": "haiku"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "type")

	rec = s.do(t, http.MethodPost, "/api/summaries", map[string]string{"text": text})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sum := decode[models.Summary](t, rec)
	assert.Equal(t, "Summary 3", sum.Title)
	assert.Equal(t, models.SummaryTypeParagraph, sum.Type)
	assert.Equal(t, 20, sum.OriginalLength)
	assert.Equal(t, 6, sum.SummaryLength)
	assert.Equal(t, 70, sum.CompressionRatio)

	rec = s.do(t, http.MethodGet, "/api/summaries", nil)
	list := decode[[]models.Summary](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, sum.ID, list[0].ID)

	rec = s.do(t, http.MethodGet, "/api/summaries/"+sum.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/summaries/"+sum.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/summaries/"+sum.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/summaries/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[models.SummaryStats](t, rec).Count)
}

func TestProgressHandlers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ov := decode[models.ProgressOverview](t, rec)
	assert.Equal(t, "week", ov.Period)
	assert.Equal(t, 665, ov.TotalMinutes)
	assert.Equal(t, 7, ov.TotalSessions)
	assert.Equal(t, 88, ov.AverageScore)
	assert.Len(t, ov.WeeklyGoals, 4)

	rec = s.do(t, http.MethodGet, "/api/progress?period=year", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/progress/sessions", map[string]interface{}{"subject": "Art", "duration": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "duration")

	rec = s.do(t, http.MethodPost, "/api/progress/sessions", map[string]interface{}{"subject": "Art", "duration": 3000000000})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[APIError](t, rec).Fields, "duration")

	rec = s.do(t, http.MethodPost, "/api/progress/sessions", map[string]interface{}{
		"subject": "Art", "duration": 30, "date": "2024-01-16", "score": 90, "type": "review",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/progress?period=month", nil)
	ov = decode[models.ProgressOverview](t, rec)
	assert.Equal(t, 695, ov.TotalMinutes)
	assert.Equal(t, "2024-01-16", ov.To)
	assert.Equal(t, "Art", ov.Sessions[0].Subject)

	rec = s.do(t, http.MethodPut, "/api/progress/weekly-goals/1", map[string]float64{"current": 25})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[models.WeeklyGoalStatus](t, rec)
	assert.Equal(t, 100.0, st.Percentage)
	assert.Equal(t, progress.StatusCompleted, st.Status)

	rec = s.do(t, http.MethodPut, "/api/progress/weekly-goals/99", map[string]float64{"current": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
