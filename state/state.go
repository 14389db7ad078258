// Package state holds the canonical application model for Traction:
// projects, their tasks, and the view state around them. All mutation
// goes through the pure reducer in reducer.go; nothing in this package
// performs I/O.
package state

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Priority is a project's priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Tab identifies which top-level view is selected.
type Tab string

const (
	TabActive    Tab = "active"
	TabGantt     Tab = "gantt"
	TabCompleted Tab = "completed"
)

// Task is one actionable step within a project. Order defines its
// position among sibling tasks; reordering rewrites Order contiguously
// from 0 across the incomplete tasks.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Order       int    `json:"order"`
}

// Project is a user goal decomposed into tasks. CompletedAt is set if
// and only if Completed is true.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tasks       []Task     `json:"tasks"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// AppState is the single authoritative in-memory model. ActiveProjectID
// is a lookup key into Projects, not an owning pointer; the reducer
// repairs it whenever the referenced project is deleted or completed.
// CurrentTaskIndex indexes into the active project's incomplete tasks
// and is only meaningful while FocusMode is set.
type AppState struct {
	Projects         []Project
	ActiveProjectID  string
	FocusMode        bool
	CurrentTaskIndex int
	ActiveTab        Tab
	Loading          bool
}

// NewAppState returns the initial state before any load has happened.
func NewAppState() AppState {
	return AppState{ActiveTab: TabActive}
}

// maxNameRunes is the display truncation applied to a project name
// derived from the idea text.
const maxNameRunes = 50

// NewProject builds a project from an idea and its generated tasks.
// The name is a truncation of the idea; the description keeps the full
// text.
func NewProject(idea string, tasks []Task) Project {
	return Project{
		ID:          uuid.NewString(),
		Name:        truncateRunes(idea, maxNameRunes),
		Description: idea,
		Tasks:       tasks,
		CreatedAt:   time.Now(),
	}
}

// NewTask builds a task at the given position.
func NewTask(title, description string, order int) Task {
	return Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Order:       order,
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
