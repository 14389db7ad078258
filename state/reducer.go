package state

import (
	"strings"
	"time"
)

// Reduce applies an action to a state and returns the next state. It
// is a pure, total function: the inputs are never mutated and no
// action can fail. Actions outside the enumerated set return the state
// unchanged.
func Reduce(s AppState, action Action) AppState {
	switch a := action.(type) {
	case SetProjects:
		return reduceSetProjects(s, a)

	case AddProject:
		next := s
		next.Projects = append(cloneProjects(s.Projects), a.Project)
		next.ActiveProjectID = a.Project.ID
		next.CurrentTaskIndex = 0
		return next

	case DeleteProject:
		return reduceDeleteProject(s, a)

	case SetActiveProject:
		next := s
		next.ActiveProjectID = a.ProjectID
		next.CurrentTaskIndex = 0
		return next

	case SetFocusMode:
		next := s
		next.FocusMode = a.Enabled
		return next

	case ToggleFocusMode:
		next := s
		next.FocusMode = !s.FocusMode
		return next

	case NextTask:
		active, ok := ActiveProject(s)
		if !ok {
			return s
		}
		next := s
		next.CurrentTaskIndex = clampIndex(s.CurrentTaskIndex+1, len(IncompleteTasks(active)))
		return next

	case PrevTask:
		if _, ok := ActiveProject(s); !ok {
			return s
		}
		next := s
		next.CurrentTaskIndex = max(s.CurrentTaskIndex-1, 0)
		return next

	case SetCurrentTaskIndex:
		next := s
		next.CurrentTaskIndex = a.Index
		return next

	case CompleteTask:
		return patchTask(s, a.ProjectID, a.TaskID, func(t *Task) {
			t.Completed = true
		})

	case UncompleteTask:
		return patchTask(s, a.ProjectID, a.TaskID, func(t *Task) {
			t.Completed = false
		})

	case UpdateTask:
		return patchTask(s, a.ProjectID, a.TaskID, func(t *Task) {
			applyTaskPatch(t, a.Patch)
		})

	case UpdateProject:
		return patchProject(s, a.ProjectID, func(p *Project) {
			applyProjectPatch(p, a.Patch)
		})

	case ReorderTasks:
		return patchProject(s, a.ProjectID, func(p *Project) {
			p.Tasks = append([]Task(nil), a.Tasks...)
		})

	case CompleteProject:
		return reduceCompleteProject(s, a)

	case ReopenProject:
		return patchProject(s, a.ProjectID, func(p *Project) {
			p.Completed = false
			p.CompletedAt = nil
		})

	case SetActiveTab:
		next := s
		next.ActiveTab = a.Tab
		return next
	}

	return s
}

// reduceSetProjects replaces the collection and clears the loading
// flag. The active pointer is repaired here in the same step so the
// load path never has to read back possibly-stale state to pick one.
func reduceSetProjects(s AppState, a SetProjects) AppState {
	next := s
	next.Projects = append([]Project(nil), a.Projects...)
	next.Loading = false

	if !pointsAtOpenProject(next.Projects, next.ActiveProjectID) {
		next.ActiveProjectID = firstOpenProjectID(next.Projects, "")
		next.CurrentTaskIndex = 0
	}
	return next
}

func reduceDeleteProject(s AppState, a DeleteProject) AppState {
	next := s
	remaining := make([]Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		if p.ID != a.ProjectID {
			remaining = append(remaining, p)
		}
	}
	next.Projects = remaining

	if s.ActiveProjectID == a.ProjectID {
		next.ActiveProjectID = firstOpenProjectID(remaining, "")
		next.CurrentTaskIndex = 0
	}
	return next
}

func reduceCompleteProject(s AppState, a CompleteProject) AppState {
	now := time.Now()
	next := patchProject(s, a.ProjectID, func(p *Project) {
		p.Completed = true
		p.CompletedAt = &now
	})

	if s.ActiveProjectID == a.ProjectID {
		next.ActiveProjectID = firstOpenProjectID(next.Projects, a.ProjectID)
		next.FocusMode = false
		next.CurrentTaskIndex = 0
	}
	return next
}

func applyTaskPatch(t *Task, patch TaskPatch) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Order != nil {
		t.Order = *patch.Order
	}
}

func applyProjectPatch(p *Project, patch ProjectPatch) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
}

// patchProject returns a state where fn has been applied to a copy of
// the matching project. Missing ids leave the state unchanged.
func patchProject(s AppState, projectID string, fn func(*Project)) AppState {
	next := s
	projects := cloneProjects(s.Projects)
	for i := range projects {
		if projects[i].ID == projectID {
			fn(&projects[i])
			next.Projects = projects
			return next
		}
	}
	return s
}

// patchTask returns a state where fn has been applied to a copy of the
// matching task. Missing ids leave the state unchanged.
func patchTask(s AppState, projectID, taskID string, fn func(*Task)) AppState {
	return patchProject(s, projectID, func(p *Project) {
		for i := range p.Tasks {
			if p.Tasks[i].ID == taskID {
				fn(&p.Tasks[i])
				return
			}
		}
	})
}

// cloneProjects copies the project slice along with each project's
// task slice, so reductions never alias the previous state.
func cloneProjects(projects []Project) []Project {
	out := append([]Project(nil), projects...)
	for i := range out {
		out[i].Tasks = append([]Task(nil), out[i].Tasks...)
	}
	return out
}

func pointsAtOpenProject(projects []Project, id string) bool {
	if id == "" {
		return false
	}
	for _, p := range projects {
		if p.ID == id {
			return !p.Completed
		}
	}
	return false
}

// firstOpenProjectID returns the first non-completed project id,
// skipping the excluded id, or "" when none remain.
func firstOpenProjectID(projects []Project, exclude string) string {
	for _, p := range projects {
		if !p.Completed && p.ID != exclude {
			return p.ID
		}
	}
	return ""
}

func clampIndex(idx, count int) int {
	if count == 0 {
		return 0
	}
	if idx > count-1 {
		return count - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}
