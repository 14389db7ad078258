// Package ui provides the interactive Bubble Tea interface for
// Traction: the tab bar, project list, idea input, focus mode, and
// sign-in form, all driven by actions dispatched to the store.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sirsjg/traction/auth"
	"github.com/sirsjg/traction/gen"
	"github.com/sirsjg/traction/state"
	"github.com/sirsjg/traction/store"
)

// inputFocus tracks which surface owns the keyboard.
type inputFocus int

const (
	focusBrowse inputFocus = iota
	focusIdea
	focusAuthEmail
	focusAuthPassword
)

// Model is the main TUI model.
type Model struct {
	width  int
	height int

	store     *store.Store
	bridge    *auth.Bridge
	generator gen.Generator

	ideaInput  textinput.Model
	emailInput textinput.Model
	passInput  textinput.Model
	spinner    spinner.Model

	focus      inputFocus
	signingUp  bool
	generating bool
	taskCursor int
	statusMsg  string
	errMsg     string
}

// Messages
type projectsLoadedMsg struct{ err error }

type projectCreatedMsg struct {
	project state.Project
	err     error
}

type authResultMsg struct{ err error }

// NewModel creates the TUI model over a store, bridge, and generator.
func NewModel(st *store.Store, bridge *auth.Bridge, generator gen.Generator) Model {
	idea := textinput.New()
	idea.Placeholder = "Describe a project idea and press enter..."
	idea.CharLimit = 500

	email := textinput.New()
	email.Placeholder = "email"

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Purple)

	return Model{
		store:      st,
		bridge:     bridge,
		generator:  generator,
		ideaInput:  idea,
		emailInput: email,
		passInput:  pass,
		spinner:    sp,
	}
}

// Init loads the initial project collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadProjects())
}

func (m Model) loadProjects() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return projectsLoadedMsg{err: st.LoadInitial(context.Background())}
	}
}

func (m Model) createProject(idea string) tea.Cmd {
	st := m.store
	generator := m.generator
	return func() tea.Msg {
		project, err := st.CreateProject(context.Background(), generator, idea)
		return projectCreatedMsg{project: project, err: err}
	}
}

func (m Model) signIn(email, password string, signUp bool) tea.Cmd {
	bridge := m.bridge
	return func() tea.Msg {
		if signUp {
			return authResultMsg{err: bridge.SignUp(email, password)}
		}
		return authResultMsg{err: bridge.SignIn(email, password)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case projectsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case projectCreatedMsg:
		m.generating = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Created " + msg.project.Name
		m.ideaInput.Reset()
		m.focus = focusBrowse
		m.ideaInput.Blur()
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Signed in"
		m.focus = focusBrowse
		m.emailInput.Reset()
		m.passInput.Reset()
		m.emailInput.Blur()
		m.passInput.Blur()
		return m, m.loadProjects()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusIdea:
		return m.handleIdeaKey(msg)
	case focusAuthEmail, focusAuthPassword:
		return m.handleAuthKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleIdeaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusBrowse
		m.ideaInput.Blur()
		return m, nil
	case "enter":
		idea := m.ideaInput.Value()
		if idea == "" {
			return m, nil
		}
		if m.generating {
			return m, nil
		}
		m.generating = true
		m.errMsg = ""
		return m, m.createProject(idea)
	}

	var cmd tea.Cmd
	m.ideaInput, cmd = m.ideaInput.Update(msg)
	return m, cmd
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusBrowse
		m.emailInput.Blur()
		m.passInput.Blur()
		return m, nil
	case "tab", "enter":
		if m.focus == focusAuthEmail {
			m.focus = focusAuthPassword
			m.emailInput.Blur()
			return m, m.passInput.Focus()
		}
		if msg.String() == "enter" {
			return m, m.signIn(m.emailInput.Value(), m.passInput.Value(), m.signingUp)
		}
		m.focus = focusAuthEmail
		m.passInput.Blur()
		return m, m.emailInput.Focus()
	}

	var cmd tea.Cmd
	if m.focus == focusAuthEmail {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.store.State()

	if s.FocusMode {
		return m.handleFocusModeKey(msg, s)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "i":
		m.focus = focusIdea
		m.statusMsg = ""
		return m, m.ideaInput.Focus()

	case "L":
		if m.bridge.Current() == nil {
			m.signingUp = false
			m.focus = focusAuthEmail
			return m, m.emailInput.Focus()
		}
		return m, nil

	case "S":
		if m.bridge.Current() == nil {
			m.signingUp = true
			m.focus = focusAuthEmail
			return m, m.emailInput.Focus()
		}
		return m, nil

	case "O":
		if m.bridge.Current() != nil {
			m.bridge.SignOut()
			m.statusMsg = "Signed out"
			return m, m.loadProjects()
		}
		return m, nil

	case "1":
		m.dispatch(state.SetActiveTab{Tab: state.TabActive})
		return m, nil
	case "2":
		m.dispatch(state.SetActiveTab{Tab: state.TabGantt})
		return m, nil
	case "3":
		m.dispatch(state.SetActiveTab{Tab: state.TabCompleted})
		return m, nil

	case "j", "down":
		m.selectAdjacentProject(s, 1)
		m.taskCursor = 0
		return m, nil
	case "k", "up":
		m.selectAdjacentProject(s, -1)
		m.taskCursor = 0
		return m, nil

	case "J":
		m.moveTask(s, 1)
		return m, nil
	case "K":
		m.moveTask(s, -1)
		return m, nil

	case "h", "l", "left", "right":
		m.moveTaskCursor(s, msg.String())
		return m, nil

	case " ":
		m.toggleTaskAtCursor(s)
		return m, nil

	case "f":
		if _, ok := state.ActiveProject(s); ok {
			m.dispatch(state.SetFocusMode{Enabled: true})
			m.dispatch(state.SetCurrentTaskIndex{Index: 0})
		}
		return m, nil

	case "d":
		if active, ok := state.ActiveProject(s); ok {
			m.dispatch(state.DeleteProject{ProjectID: active.ID})
			m.taskCursor = 0
		}
		return m, nil

	case "c":
		if active, ok := state.ActiveProject(s); ok {
			m.dispatch(state.CompleteProject{ProjectID: active.ID})
		}
		return m, nil

	case "o":
		if s.ActiveTab == state.TabCompleted {
			if completed := state.CompletedProjects(s); len(completed) > 0 {
				m.dispatch(state.ReopenProject{ProjectID: completed[0].ID})
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleFocusModeKey(msg tea.KeyMsg, s state.AppState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.dispatch(state.SetFocusMode{Enabled: false})
		return m, nil

	case "n", "right", "j":
		m.dispatch(state.NextTask{})
		return m, nil

	case "p", "left", "k":
		m.dispatch(state.PrevTask{})
		return m, nil

	case " ", "enter":
		active, ok := state.ActiveProject(s)
		if !ok {
			return m, nil
		}
		task, ok := state.CurrentFocusTask(s)
		if !ok {
			return m, nil
		}
		m.dispatch(state.CompleteTask{ProjectID: active.ID, TaskID: task.ID})
		// The incomplete view just shrank; keep the index in range.
		m.dispatch(state.SetCurrentTaskIndex{Index: state.ClampTaskIndex(m.store.State())})
		return m, nil
	}

	return m, nil
}

// dispatch forwards an action to the store, surfacing capacity errors
// in the status line.
func (m *Model) dispatch(action state.Action) {
	if err := m.store.Dispatch(action); err != nil {
		m.errMsg = err.Error()
	}
}

// selectAdjacentProject moves the active-project pointer through the
// open projects.
func (m *Model) selectAdjacentProject(s state.AppState, delta int) {
	open := state.OpenProjects(s)
	if len(open) == 0 {
		return
	}

	current := -1
	for i, p := range open {
		if p.ID == s.ActiveProjectID {
			current = i
			break
		}
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	if next > len(open)-1 {
		next = len(open) - 1
	}
	if current != next {
		m.dispatch(state.SetActiveProject{ProjectID: open[next].ID})
	}
}

// moveTaskCursor moves the task highlight within the active project.
func (m *Model) moveTaskCursor(s state.AppState, key string) {
	active, ok := state.ActiveProject(s)
	if !ok {
		return
	}
	n := len(active.Tasks)
	if n == 0 {
		return
	}

	if key == "l" || key == "right" {
		m.taskCursor++
	} else {
		m.taskCursor--
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
	if m.taskCursor > n-1 {
		m.taskCursor = n - 1
	}
}

// toggleTaskAtCursor flips the completion of the highlighted task.
func (m *Model) toggleTaskAtCursor(s state.AppState) {
	active, ok := state.ActiveProject(s)
	if !ok || len(active.Tasks) == 0 {
		return
	}
	idx := m.taskCursor
	if idx > len(active.Tasks)-1 {
		idx = len(active.Tasks) - 1
	}
	task := active.Tasks[idx]

	if task.Completed {
		m.dispatch(state.UncompleteTask{ProjectID: active.ID, TaskID: task.ID})
	} else {
		m.dispatch(state.CompleteTask{ProjectID: active.ID, TaskID: task.ID})
	}
}

// moveTask shifts the highlighted incomplete task up or down and
// dispatches a renumbered full reorder.
func (m *Model) moveTask(s state.AppState, delta int) {
	active, ok := state.ActiveProject(s)
	if !ok {
		return
	}
	incomplete := state.IncompleteTasks(active)
	if len(incomplete) < 2 {
		return
	}

	idx := m.taskCursor
	if idx > len(incomplete)-1 {
		idx = len(incomplete) - 1
	}
	target := idx + delta
	if target < 0 || target > len(incomplete)-1 {
		return
	}

	reordered := append([]state.Task(nil), incomplete...)
	reordered[idx], reordered[target] = reordered[target], reordered[idx]

	m.dispatch(state.ReorderTasks{
		ProjectID: active.ID,
		Tasks:     state.RenumberTasks(reordered, state.CompletedTasks(active)),
	})
	m.taskCursor = target
}
