package state

import "time"

// Action is the closed set of mutations the reducer accepts. The
// unexported marker method keeps the set closed to this package's
// types; anything else reduces to a no-op.
type Action interface {
	isAction()
}

// SetProjects replaces the project collection wholesale. Used for the
// initial load from either backend; it clears Loading and repairs the
// active pointer in one step.
type SetProjects struct {
	Projects []Project
}

// AddProject appends a project and makes it active.
type AddProject struct {
	Project Project
}

// DeleteProject removes the matching project.
type DeleteProject struct {
	ProjectID string
}

// SetActiveProject points the active project at the given id ("" for
// none) and resets the focus index.
type SetActiveProject struct {
	ProjectID string
}

// SetFocusMode sets focus mode explicitly.
type SetFocusMode struct {
	Enabled bool
}

// ToggleFocusMode flips focus mode.
type ToggleFocusMode struct{}

// NextTask advances the focus index, clamped to the active project's
// incomplete tasks.
type NextTask struct{}

// PrevTask moves the focus index back, clamped at zero.
type PrevTask struct{}

// SetCurrentTaskIndex sets the focus index directly.
type SetCurrentTaskIndex struct {
	Index int
}

// CompleteTask marks a single task completed. No reordering happens.
type CompleteTask struct {
	ProjectID string
	TaskID    string
}

// UncompleteTask clears a single task's completed flag.
type UncompleteTask struct {
	ProjectID string
	TaskID    string
}

// TaskPatch carries optional task field updates. Nil fields are left
// untouched; an empty or whitespace-only Title is ignored.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Order       *int
}

// UpdateTask shallow-merges a patch into the matching task.
type UpdateTask struct {
	ProjectID string
	TaskID    string
	Patch     TaskPatch
}

// ProjectPatch carries optional project field updates. Nil fields are
// left untouched; an empty or whitespace-only Name is ignored.
type ProjectPatch struct {
	Name        *string
	Description *string
	Priority    *Priority
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProject shallow-merges a patch into the matching project.
type UpdateProject struct {
	ProjectID string
	Patch     ProjectPatch
}

// ReorderTasks replaces a project's task list wholesale. The caller is
// responsible for recomputing Order values before dispatch (see
// RenumberTasks).
type ReorderTasks struct {
	ProjectID string
	Tasks     []Task
}

// CompleteProject marks a project done, stamping CompletedAt.
type CompleteProject struct {
	ProjectID string
}

// ReopenProject clears a project's completed state and timestamp.
type ReopenProject struct {
	ProjectID string
}

// SetActiveTab selects a top-level tab.
type SetActiveTab struct {
	Tab Tab
}

func (SetProjects) isAction()         {}
func (AddProject) isAction()          {}
func (DeleteProject) isAction()       {}
func (SetActiveProject) isAction()    {}
func (SetFocusMode) isAction()        {}
func (ToggleFocusMode) isAction()     {}
func (NextTask) isAction()            {}
func (PrevTask) isAction()            {}
func (SetCurrentTaskIndex) isAction() {}
func (CompleteTask) isAction()        {}
func (UncompleteTask) isAction()      {}
func (UpdateTask) isAction()          {}
func (UpdateProject) isAction()       {}
func (ReorderTasks) isAction()        {}
func (CompleteProject) isAction()     {}
func (ReopenProject) isAction()       {}
func (SetActiveTab) isAction()        {}

// StringPtr returns a pointer to the given string. Useful for building
// patches.
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to the given bool.
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to the given int.
func IntPtr(n int) *int {
	return &n
}

// PriorityPtr returns a pointer to the given priority.
func PriorityPtr(p Priority) *Priority {
	return &p
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}
