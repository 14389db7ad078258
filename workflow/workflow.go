// Package workflow provides bulk task and project completion
// operations over the store, suitable for headless scripting where a
// single command touches several tasks at once.
package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirsjg/traction/state"
	"github.com/sirsjg/traction/store"
)

// Workflow provides methods for bulk status transitions.
type Workflow struct {
	store *store.Store
	out   io.Writer
}

// NewWorkflow creates a new Workflow instance over the provided store.
func NewWorkflow(st *store.Store) *Workflow {
	return &Workflow{
		store: st,
		out:   os.Stdout,
	}
}

// SetOutput configures where workflow status messages are written.
// Use io.Discard to silence output (e.g., when a TUI is active).
func (w *Workflow) SetOutput(out io.Writer) {
	w.out = out
}

// CompleteTasks marks the given tasks of a project completed. It
// attempts every task even if some ids don't resolve, and returns an
// aggregate error describing all failures.
func (w *Workflow) CompleteTasks(projectID string, taskIDs []string) error {
	return w.updateTasks(projectID, taskIDs, true, "Completing")
}

// ReopenTasks clears the completed flag on the given tasks.
func (w *Workflow) ReopenTasks(projectID string, taskIDs []string) error {
	return w.updateTasks(projectID, taskIDs, false, "Reopening")
}

// CompleteProject marks a whole project done.
func (w *Workflow) CompleteProject(projectID string) error {
	p, ok := w.findProject(projectID)
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	w.printf("Completing project %s (%s)\n", projectID, p.Name)
	return w.store.Dispatch(state.CompleteProject{ProjectID: projectID})
}

// ReopenProject clears a project's completed state.
func (w *Workflow) ReopenProject(projectID string) error {
	p, ok := w.findProject(projectID)
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	w.printf("Reopening project %s (%s)\n", projectID, p.Name)
	return w.store.Dispatch(state.ReopenProject{ProjectID: projectID})
}

// Reorder rearranges a project's incomplete tasks into the given id
// sequence. Every incomplete task must appear exactly once; completed
// tasks keep their place at the end of the list. Order values are
// rewritten contiguously from 0 before dispatch.
func (w *Workflow) Reorder(projectID string, taskIDs []string) error {
	p, ok := w.findProject(projectID)
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}

	incomplete := state.IncompleteTasks(p)
	byID := make(map[string]state.Task, len(incomplete))
	for _, t := range incomplete {
		byID[t.ID] = t
	}
	if len(taskIDs) != len(incomplete) {
		return fmt.Errorf("expected all %d incomplete task ids, got %d", len(incomplete), len(taskIDs))
	}

	reordered := make([]state.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("task %s: not found or already completed", id)
		}
		delete(byID, id)
		reordered = append(reordered, t)
	}

	w.printf("Reordering %d tasks in project %s (%s)\n", len(reordered), projectID, p.Name)
	return w.store.Dispatch(state.ReorderTasks{
		ProjectID: projectID,
		Tasks:     state.RenumberTasks(reordered, state.CompletedTasks(p)),
	})
}

func (w *Workflow) updateTasks(projectID string, taskIDs []string, completed bool, actionVerb string) error {
	if len(taskIDs) == 0 {
		return nil
	}

	p, ok := w.findProject(projectID)
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}

	known := make(map[string]state.Task, len(p.Tasks))
	for _, t := range p.Tasks {
		known[t.ID] = t
	}

	var errorMessages []string
	for _, taskID := range taskIDs {
		task, ok := known[taskID]
		if !ok {
			w.printf("  Task %s not found in project %s\n", taskID, projectID)
			errorMessages = append(errorMessages, fmt.Sprintf("task %s: not found", taskID))
			continue
		}

		w.printf("%s task %s (%s)...\n", actionVerb, taskID, task.Title)
		var action state.Action
		if completed {
			action = state.CompleteTask{ProjectID: projectID, TaskID: taskID}
		} else {
			action = state.UncompleteTask{ProjectID: projectID, TaskID: taskID}
		}
		if err := w.store.Dispatch(action); err != nil {
			errorMessages = append(errorMessages, fmt.Sprintf("task %s: %v", taskID, err))
		}
	}

	if len(errorMessages) > 0 {
		return errors.New("failed to update tasks: " + strings.Join(errorMessages, "; "))
	}
	return nil
}

func (w *Workflow) findProject(projectID string) (state.Project, bool) {
	for _, p := range w.store.State().Projects {
		if p.ID == projectID {
			return p, true
		}
	}
	return state.Project{}, false
}

func (w *Workflow) printf(format string, args ...any) {
	if w.out == nil {
		return
	}
	fmt.Fprintf(w.out, format, args...)
}
