package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyassist/backend/internal/models"
)

func TestLoad_Embedded(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	require.Len(t, d.Goals, 2)
	assert.Equal(t, "Master Calculus", d.Goals[0].Title)
	assert.Equal(t, models.GoalStatusActive, d.Goals[0].Status)
	require.Len(t, d.Goals[0].Milestones, 3)
	assert.True(t, d.Goals[0].Milestones[0].Completed)
	assert.Equal(t, "2024-07-15", d.Goals[1].Milestones[2].DueDate)

	require.Len(t, d.Quizzes, 2)
	assert.Len(t, d.Quizzes[0].Questions, 2)
	assert.Equal(t, 1, d.Quizzes[0].Questions[1].CorrectAnswer)
	assert.Equal(t, models.DifficultyMedium, d.Quizzes[0].Questions[1].Difficulty)
	assert.Equal(t, "In which year did World War II end?", d.Quizzes[1].Questions[0].Prompt)

	require.Len(t, d.Summaries, 2)
	assert.Equal(t, models.SummaryTypeBullet, d.Summaries[1].Type)
	assert.Len(t, d.Summaries[1].KeyPoints, 5)
	assert.Contains(t, d.Summaries[0].Content, "reinforcement learning")

	require.Len(t, d.Sessions, 7)
	assert.Nil(t, d.Sessions[2].Score)
	require.NotNil(t, d.Sessions[6].Score)
	assert.Equal(t, 95, *d.Sessions[6].Score)

	require.Len(t, d.WeeklyGoals, 4)
	assert.Equal(t, 16.5, d.WeeklyGoals[0].Current)
	assert.Equal(t, "%", d.WeeklyGoals[3].Unit)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	goals := "- id: g1\n  title: Read more\n  targetDate: \"2025-01-01\"\n  status: paused\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.yaml"), []byte(goals), 0o644))

	d, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, d.Goals, 1)
	assert.Equal(t, models.GoalStatusPaused, d.Goals[0].Status)
	assert.Empty(t, d.Quizzes)
	assert.Empty(t, d.Sessions)
}

func TestLoad_DirectoryWithBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quizzes.yaml"), []byte("{not: [valid"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "quizzes.yaml")
}

func TestLoad_DirectoryWithBadSessionDate(t *testing.T) {
	dir := t.TempDir()
	progress := "sessions:\n  - { id: \"s1\", subject: Art, duration: 30, date: \"15/01/2024\" }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "progress.yaml"), []byte(progress), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "15/01/2024")
}
