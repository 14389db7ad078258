package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sirsjg/traction/auth"
	"github.com/sirsjg/traction/client"
	"github.com/sirsjg/traction/state"
	"github.com/sirsjg/traction/storage"
	"github.com/sirsjg/traction/store"
)

func newTestModel(t *testing.T, projects []state.Project) (Model, *store.Store) {
	t.Helper()

	st := store.New(storage.New(t.TempDir()), client.New("http://unused.invalid"), auth.NewBridge("http://unused.invalid"))
	t.Cleanup(st.Close)

	if err := st.Dispatch(state.SetProjects{Projects: projects}); err != nil {
		t.Fatalf("failed to seed projects: %v", err)
	}

	return NewModel(st, auth.NewBridge("http://unused.invalid"), nil), st
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func testProjects() []state.Project {
	return []state.Project{
		{
			ID:   "p1",
			Name: "First",
			Tasks: []state.Task{
				{ID: "t1", Title: "a", Order: 0},
				{ID: "t2", Title: "b", Order: 1},
			},
		},
		{ID: "p2", Name: "Second"},
	}
}

func TestTabSwitching(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	update(t, m, "2")
	if got := st.State().ActiveTab; got != state.TabGantt {
		t.Errorf("expected gantt tab, got %q", got)
	}

	update(t, m, "3")
	if got := st.State().ActiveTab; got != state.TabCompleted {
		t.Errorf("expected completed tab, got %q", got)
	}

	update(t, m, "1")
	if got := st.State().ActiveTab; got != state.TabActive {
		t.Errorf("expected active tab, got %q", got)
	}
}

func TestProjectNavigation(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	if got := st.State().ActiveProjectID; got != "p1" {
		t.Fatalf("expected p1 active after load, got %q", got)
	}

	m = update(t, m, "j")
	if got := st.State().ActiveProjectID; got != "p2" {
		t.Errorf("expected p2 after j, got %q", got)
	}

	// Clamped at the end of the list.
	m = update(t, m, "j")
	if got := st.State().ActiveProjectID; got != "p2" {
		t.Errorf("expected p2 after j at end, got %q", got)
	}

	update(t, m, "k")
	if got := st.State().ActiveProjectID; got != "p1" {
		t.Errorf("expected p1 after k, got %q", got)
	}
}

func TestToggleTaskWithSpace(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	m = update(t, m, " ")
	if !st.State().Projects[0].Tasks[0].Completed {
		t.Error("expected first task completed after space")
	}

	update(t, m, " ")
	if st.State().Projects[0].Tasks[0].Completed {
		t.Error("expected first task reopened after second space")
	}
}

func TestFocusModeCompletionClampsIndex(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	m = update(t, m, "f") // enter focus mode
	if !st.State().FocusMode {
		t.Fatal("expected focus mode on")
	}

	m = update(t, m, "n") // advance to the last incomplete task
	if got := st.State().CurrentTaskIndex; got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}

	m = update(t, m, " ") // complete it; only one incomplete task remains
	if got := st.State().CurrentTaskIndex; got != 0 {
		t.Errorf("expected index clamped to 0, got %d", got)
	}

	task, ok := state.CurrentFocusTask(st.State())
	if !ok || task.ID != "t1" {
		t.Errorf("expected focus on t1, got %v", task)
	}

	update(t, m, "esc")
	if st.State().FocusMode {
		t.Error("expected focus mode off after esc")
	}
}

func TestMoveTaskReorders(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	update(t, m, "J") // move first task down

	tasks := st.State().Projects[0].Tasks
	if tasks[0].ID != "t2" || tasks[1].ID != "t1" {
		t.Fatalf("expected t2,t1 after move, got %s,%s", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Order != 0 || tasks[1].Order != 1 {
		t.Errorf("expected orders renumbered 0,1, got %d,%d", tasks[0].Order, tasks[1].Order)
	}
}

func TestDeleteActiveProject(t *testing.T) {
	m, st := newTestModel(t, testProjects())

	update(t, m, "d")

	s := st.State()
	if len(s.Projects) != 1 {
		t.Fatalf("expected 1 project after delete, got %d", len(s.Projects))
	}
	if s.ActiveProjectID != "p2" {
		t.Errorf("expected p2 active after delete, got %q", s.ActiveProjectID)
	}
}

func TestIdeaInputFocusFlow(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, "i")
	if m.focus != focusIdea {
		t.Fatalf("expected idea focus, got %d", m.focus)
	}

	m = update(t, m, "esc")
	if m.focus != focusBrowse {
		t.Errorf("expected browse focus after esc, got %d", m.focus)
	}
}

func TestIdeaEnterEmptyIsNoOp(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, "i")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	if cmd != nil {
		t.Error("expected no command for empty idea")
	}
	if m.generating {
		t.Error("expected no generation for empty idea")
	}
}
