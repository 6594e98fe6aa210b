package quiz

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
)

func newAttempts(t *testing.T, max int) *Attempts {
	t.Helper()
	return NewAttempts(NewCatalog(sampleQuizzes(t), nil, 0, nil), max, nil)
}

func TestAttempts_FullRun(t *testing.T) {
	a := newAttempts(t, 0)

	v, err := a.Start("1")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 50, v.Progress)
	assert.Nil(t, v.Selected)
	assert.Nil(t, v.CorrectAnswer, "correct option hidden before answering")
	assert.False(t, v.ExplanationVisible)
	assert.False(t, v.NextEnabled)
	id := v.AttemptID

	v, err = a.Answer(id, 0)
	require.NoError(t, err)
	require.NotNil(t, v.Correct)
	assert.True(t, *v.Correct)
	assert.True(t, v.ExplanationVisible)
	assert.True(t, v.NextEnabled)
	require.NotNil(t, v.CorrectAnswer)
	assert.Equal(t, 0, *v.CorrectAnswer)
	assert.NotEmpty(t, v.Explanation)

	v, err = a.Next(id)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, 100, v.Progress)

	v, err = a.Answer(id, 3)
	require.NoError(t, err)
	assert.False(t, *v.Correct)
	assert.Equal(t, 1, *v.CorrectAnswer)

	v, err = a.Next(id)
	require.NoError(t, err)
	assert.True(t, v.Finished)
	assert.False(t, v.NextEnabled)

	r, err := a.Result(id)
	require.NoError(t, err)
	assert.Equal(t, models.QuizResult{AttemptID: id, QuizID: "1", Correct: 1, Total: 2, Score: 50}, r)

	_, err = a.Next(id)
	assert.ErrorIs(t, err, ErrFinished)
	_, err = a.Answer(id, 0)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestAttempts_FirstAnswerIsFinal(t *testing.T) {
	a := newAttempts(t, 0)
	v, err := a.Start("2")
	require.NoError(t, err)

	first, err := a.Answer(v.AttemptID, 0)
	require.NoError(t, err)
	again, err := a.Answer(v.AttemptID, 1)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, 0, *again.Selected)
	assert.False(t, *again.Correct)
}

func TestAttempts_AnswerOutOfRange(t *testing.T) {
	a := newAttempts(t, 0)
	v, err := a.Start("2")
	require.NoError(t, err)

	for _, opt := range []int{-1, 4, 99} {
		_, err := a.Answer(v.AttemptID, opt)
		assert.ErrorIs(t, err, ErrInvalid, "option %d", opt)
	}
	v, err = a.View(v.AttemptID)
	require.NoError(t, err)
	assert.Nil(t, v.Selected)
}

func TestAttempts_NextRequiresAnswer(t *testing.T) {
	a := newAttempts(t, 0)
	v, err := a.Start("1")
	require.NoError(t, err)

	v, err = a.Next(v.AttemptID)
	assert.ErrorIs(t, err, ErrNotAnswered)
	assert.Equal(t, 0, v.Index)
}

func TestAttempts_Restart(t *testing.T) {
	a := newAttempts(t, 0)
	v, err := a.Start("2")
	require.NoError(t, err)
	id := v.AttemptID

	_, err = a.Answer(id, 1)
	require.NoError(t, err)
	_, err = a.Next(id)
	require.NoError(t, err)

	v, err = a.Restart(id)
	require.NoError(t, err)
	assert.False(t, v.Finished)
	assert.Equal(t, 0, v.Index)
	assert.Nil(t, v.Selected)

	r, err := a.Result(id)
	require.NoError(t, err)
	assert.Zero(t, r.Correct)
	assert.Equal(t, 1, r.Total)
}

func TestAttempts_AbandonAndNotFound(t *testing.T) {
	a := newAttempts(t, 0)
	v, err := a.Start("1")
	require.NoError(t, err)

	require.NoError(t, a.Abandon(v.AttemptID))
	assert.ErrorIs(t, a.Abandon(v.AttemptID), ErrNotFound)

	_, err = a.View(v.AttemptID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.Result(v.AttemptID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.Start("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttempts_StartEmptyQuiz(t *testing.T) {
	c := NewCatalog([]models.Quiz{{ID: "empty", Title: "Nothing"}}, nil, 0, nil)
	a := NewAttempts(c, 0, nil)

	_, err := a.Start("empty")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Zero(t, a.Len())
}

func TestAttempts_CleanupStale(t *testing.T) {
	a := newAttempts(t, 0)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return base }

	old, err := a.Start("1")
	require.NoError(t, err)

	a.now = func() time.Time { return base.Add(20 * time.Minute) }
	fresh, err := a.Start("2")
	require.NoError(t, err)

	a.now = func() time.Time { return base.Add(40 * time.Minute) }
	removed := a.CleanupStale(AttemptMaxAge)

	assert.Equal(t, 1, removed)
	_, err = a.View(old.AttemptID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.View(fresh.AttemptID)
	assert.NoError(t, err)
}

func TestAttempts_EvictsWhenFull(t *testing.T) {
	a := newAttempts(t, 3)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		a.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		v, err := a.Start("2")
		require.NoError(t, err)
		ids = append(ids, v.AttemptID)
	}

	// Finish the newest; it is evicted before older unfinished ones.
	_, err := a.Answer(ids[2], 1)
	require.NoError(t, err)
	_, err = a.Next(ids[2])
	require.NoError(t, err)

	a.now = func() time.Time { return base.Add(time.Hour) }
	_, err = a.Start("1")
	require.NoError(t, err)

	assert.Equal(t, 3, a.Len())
	_, err = a.View(ids[2])
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range ids[:2] {
		_, err := a.View(id)
		assert.NoError(t, err, fmt.Sprintf("attempt %s should survive", id))
	}
}
