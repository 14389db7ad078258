package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirsjg/traction/state"
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	s := m.store.State()

	if s.FocusMode {
		if _, ok := state.ActiveProject(s); ok {
			return m.renderFocusMode(s)
		}
	}

	var b strings.Builder

	logo := `_____                 _   _
|_   _| _ __ _ __ | |_(_) ___  _ __
 | || '__/ _' |/ __| __| |/ _ \| '_ \
 | || | | (_| | (__| |_| | (_) | | | |
 |_||_|  \__,_|\___|\__|_|\___/|_| |_|`
	b.WriteString(LogoStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(TaglineStyle.Render("turn ideas into action"))
	b.WriteString("  ")
	b.WriteString(m.renderIdentity())
	b.WriteString("\n\n")

	b.WriteString(m.renderTabBar(s))
	b.WriteString("\n\n")

	if s.Loading {
		b.WriteString(m.spinner.View() + " Loading projects...\n")
		return b.String()
	}

	switch s.ActiveTab {
	case state.TabGantt:
		b.WriteString(m.renderGantt(s))
	case state.TabCompleted:
		b.WriteString(m.renderCompleted(s))
	default:
		b.WriteString(m.renderActive(s))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderIdentity() string {
	if id := m.bridge.Current(); id != nil {
		return IdentityStyle.Render(id.Email)
	}
	return IdentityStyle.Render("guest")
}

func (m Model) renderTabBar(s state.AppState) string {
	tabs := []struct {
		tab   state.Tab
		label string
	}{
		{state.TabActive, "1 Active"},
		{state.TabGantt, "2 Gantt"},
		{state.TabCompleted, "3 Completed"},
	}

	var parts []string
	for _, t := range tabs {
		if t.tab == s.ActiveTab {
			parts = append(parts, ActiveTabStyle.Render(t.label))
		} else {
			parts = append(parts, TabStyle.Render(t.label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderActive(s state.AppState) string {
	var b strings.Builder

	// Idea input
	inputView := m.ideaInput.View()
	if m.generating {
		inputView = m.spinner.View() + " Generating tasks..."
	}
	if m.focus == focusIdea || m.generating {
		b.WriteString(FocusedPanelStyle.Width(m.width - 4).Render(inputView))
	} else {
		b.WriteString(PanelStyle.Width(m.width - 4).Render(inputView))
	}
	b.WriteString("\n\n")

	if m.focus == focusAuthEmail || m.focus == focusAuthPassword {
		b.WriteString(m.renderAuthForm())
		b.WriteString("\n")
		return b.String()
	}

	open := state.OpenProjects(s)
	if len(open) == 0 {
		b.WriteString(HelpStyle.Render("No projects yet. Press i and describe an idea."))
		b.WriteString("\n")
		return b.String()
	}

	for _, p := range open {
		active := p.ID == s.ActiveProjectID
		marker := "  "
		nameStyle := ProjectStyle
		if active {
			marker = "> "
			nameStyle = ActiveProjectStyle
		}

		done := len(state.CompletedTasks(p))
		b.WriteString(marker + nameStyle.Render(p.Name) +
			HelpStyle.Render(fmt.Sprintf("  %d/%d", done, len(p.Tasks))))
		b.WriteString("\n")

		if active {
			b.WriteString(m.renderTasks(p))
		}
	}
	return b.String()
}

func (m Model) renderTasks(p state.Project) string {
	var b strings.Builder
	for i, t := range p.Tasks {
		check := "[ ]"
		style := TaskStyle
		if t.Completed {
			check = "[x]"
			style = TaskDoneStyle
		}
		line := fmt.Sprintf("    %s %s", check, t.Title)
		if i == m.taskCursor {
			b.WriteString(TaskCursorStyle.Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAuthForm() string {
	var b strings.Builder
	title := "Sign in"
	if m.signingUp {
		title = "Sign up"
	}
	b.WriteString(FocusTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n")
	b.WriteString(m.passInput.View())
	return FocusedPanelStyle.Width(m.width - 4).Render(b.String())
}

func (m Model) renderFocusMode(s state.AppState) string {
	active, _ := state.ActiveProject(s)
	incomplete := state.IncompleteTasks(active)

	var b strings.Builder
	b.WriteString(TaglineStyle.Render(active.Name))
	b.WriteString("\n\n")

	if len(incomplete) == 0 {
		b.WriteString(StatusInfo.Render("All tasks done!"))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("esc back"))
		return b.String()
	}

	idx := state.ClampTaskIndex(s)
	task := incomplete[idx]

	b.WriteString(FocusTitleStyle.Render(task.Title))
	b.WriteString("\n\n")
	if task.Description != "" {
		b.WriteString(FocusDescStyle.Render(task.Description))
		b.WriteString("\n\n")
	}
	b.WriteString(FocusCountStyle.Render(fmt.Sprintf("task %d of %d", idx+1, len(incomplete))))
	b.WriteString("\n\n")

	help := HelpKeyStyle.Render("space") + HelpStyle.Render(" done  ") +
		HelpKeyStyle.Render("n/p") + HelpStyle.Render(" next/prev  ") +
		HelpKeyStyle.Render("esc") + HelpStyle.Render(" back")
	b.WriteString(help)

	return b.String()
}

func (m Model) renderCompleted(s state.AppState) string {
	completed := state.CompletedProjects(s)
	if len(completed) == 0 {
		return HelpStyle.Render("Nothing completed yet.") + "\n"
	}

	var b strings.Builder
	for _, p := range completed {
		when := ""
		if p.CompletedAt != nil {
			when = "  " + p.CompletedAt.Format("2006-01-02")
		}
		b.WriteString(CompletedStyle.Render(p.Name) + HelpStyle.Render(when))
		b.WriteString("\n")
	}
	return b.String()
}

// renderGantt draws a rough timeline bar per project with dates.
func (m Model) renderGantt(s state.AppState) string {
	open := state.OpenProjects(s)
	if len(open) == 0 {
		return HelpStyle.Render("No projects to chart.") + "\n"
	}

	var b strings.Builder
	now := time.Now()
	for _, p := range open {
		start := p.CreatedAt
		if p.StartDate != nil {
			start = *p.StartDate
		}
		end := now
		if p.EndDate != nil {
			end = *p.EndDate
		}

		days := int(end.Sub(start).Hours()/24) + 1
		if days < 1 {
			days = 1
		}
		if days > 40 {
			days = 40
		}

		label := fmt.Sprintf("%-20s", truncate(p.Name, 20))
		b.WriteString(GanttLabelStyle.Render(label))
		b.WriteString(GanttBarStyle.Render(strings.Repeat("█", days)))
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  %s", start.Format("Jan 02"))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusLine() string {
	if m.errMsg != "" {
		return StatusError.Render(m.errMsg)
	}
	if m.statusMsg != "" {
		return StatusInfo.Render(m.statusMsg)
	}
	return ""
}

func (m Model) renderHelp() string {
	if m.focus != focusBrowse {
		return HelpStyle.Render("enter submit  esc cancel")
	}

	parts := []string{
		HelpKeyStyle.Render("i") + HelpStyle.Render(" new idea"),
		HelpKeyStyle.Render("j/k") + HelpStyle.Render(" project"),
		HelpKeyStyle.Render("h/l") + HelpStyle.Render(" task"),
		HelpKeyStyle.Render("space") + HelpStyle.Render(" toggle"),
		HelpKeyStyle.Render("J/K") + HelpStyle.Render(" move"),
		HelpKeyStyle.Render("f") + HelpStyle.Render(" focus"),
		HelpKeyStyle.Render("c") + HelpStyle.Render(" complete"),
		HelpKeyStyle.Render("d") + HelpStyle.Render(" delete"),
	}
	if m.bridge.Current() == nil {
		parts = append(parts, HelpKeyStyle.Render("L")+HelpStyle.Render(" sign in"))
	} else {
		parts = append(parts, HelpKeyStyle.Render("O")+HelpStyle.Render(" sign out"))
	}
	parts = append(parts, HelpKeyStyle.Render("q")+HelpStyle.Render(" quit"))

	return strings.Join(parts, "  ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
