package state

import "sort"

// Selectors are the only sanctioned way to compute derived views of
// the state. They are recomputed on every read; nothing here is
// cached or stored.

// ActiveProject looks up the project referenced by ActiveProjectID.
func ActiveProject(s AppState) (Project, bool) {
	if s.ActiveProjectID == "" {
		return Project{}, false
	}
	for _, p := range s.Projects {
		if p.ID == s.ActiveProjectID {
			return p, true
		}
	}
	return Project{}, false
}

// IncompleteTasks returns the project's not-yet-completed tasks in
// list order.
func IncompleteTasks(p Project) []Task {
	var out []Task
	for _, t := range p.Tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks returns the project's completed tasks in list order.
func CompletedTasks(p Project) []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// OpenProjects returns the non-completed projects in list order.
func OpenProjects(s AppState) []Project {
	var out []Project
	for _, p := range s.Projects {
		if !p.Completed {
			out = append(out, p)
		}
	}
	return out
}

// CompletedProjects returns the completed projects in list order.
func CompletedProjects(s AppState) []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Completed {
			out = append(out, p)
		}
	}
	return out
}

// CurrentFocusTask returns the task the focus index points at within
// the active project's incomplete tasks.
func CurrentFocusTask(s AppState) (Task, bool) {
	active, ok := ActiveProject(s)
	if !ok {
		return Task{}, false
	}
	incomplete := IncompleteTasks(active)
	if len(incomplete) == 0 {
		return Task{}, false
	}
	idx := clampIndex(s.CurrentTaskIndex, len(incomplete))
	return incomplete[idx], true
}

// ClampTaskIndex returns the focus index clamped to the active
// project's incomplete tasks. Callers dispatch SetCurrentTaskIndex
// with the result after a completion shrinks the derived view.
func ClampTaskIndex(s AppState) int {
	active, ok := ActiveProject(s)
	if !ok {
		return 0
	}
	return clampIndex(s.CurrentTaskIndex, len(IncompleteTasks(active)))
}

// RenumberTasks rewrites Order contiguously from 0 across the
// incomplete tasks in their given sequence, then appends the completed
// tasks unchanged. This is the canonical pre-dispatch step for
// ReorderTasks.
func RenumberTasks(incomplete, completed []Task) []Task {
	out := make([]Task, 0, len(incomplete)+len(completed))
	for i, t := range incomplete {
		t.Order = i
		out = append(out, t)
	}
	out = append(out, completed...)
	return out
}

// SortByOrder returns the tasks sorted by their Order field. Used when
// reconstructing a project from remote task records.
func SortByOrder(tasks []Task) []Task {
	out := append([]Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
