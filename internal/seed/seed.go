// Package seed provides the sample records every tool starts with.
package seed

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studyassist/backend/internal/models"
)

//go:embed data/*.yaml
var files embed.FS

// Data is the full set of sample records.
type Data struct {
	Goals       []models.Goal
	Quizzes     []models.Quiz
	Summaries   []models.Summary
	Sessions    []models.StudySession
	WeeklyGoals []models.WeeklyGoal
}

type progressFile struct {
	Sessions    []models.StudySession `yaml:"sessions"`
	WeeklyGoals []models.WeeklyGoal   `yaml:"weeklyGoals"`
}

// GetFileSystem returns the embedded data with the data folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(files, "data")
}

// Load reads the built-in sample data, or the YAML files in dir when set.
// Files missing from dir yield empty collections.
func Load(dir string) (*Data, error) {
	if dir != "" {
		return LoadFS(os.DirFS(dir), true)
	}
	fsys, err := GetFileSystem()
	if err != nil {
		return nil, err
	}
	return LoadFS(fsys, false)
}

// LoadFS reads goals.yaml, quizzes.yaml, summaries.yaml and progress.yaml
// from fsys.
func LoadFS(fsys fs.FS, optional bool) (*Data, error) {
	d := &Data{}
	if err := decode(fsys, "goals.yaml", &d.Goals, optional); err != nil {
		return nil, err
	}
	if err := decode(fsys, "quizzes.yaml", &d.Quizzes, optional); err != nil {
		return nil, err
	}
	if err := decode(fsys, "summaries.yaml", &d.Summaries, optional); err != nil {
		return nil, err
	}
	var p progressFile
	if err := decode(fsys, "progress.yaml", &p, optional); err != nil {
		return nil, err
	}
	for _, s := range p.Sessions {
		if _, err := time.Parse(time.DateOnly, s.Date); err != nil {
			return nil, fmt.Errorf("seed progress.yaml: session %s has date %q, want YYYY-MM-DD", s.ID, s.Date)
		}
	}
	d.Sessions = p.Sessions
	d.WeeklyGoals = p.WeeklyGoals
	return d, nil
}

func decode(fsys fs.FS, name string, out any, optional bool) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read seed %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode seed %s: %w", name, err)
	}
	return nil
}
