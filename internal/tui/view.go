package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/presenter"
	"github.com/existflow/taskboard/internal/view"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		m.width, m.height = 80, 24
	}

	var content string
	if m.s.screen == view.ScreenAuth {
		content = lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, m.renderAuth())
	} else {
		content = m.renderDashboard()
	}

	// Modals replace the main content, topmost first
	switch {
	case len(m.s.alerts) > 0:
		content = m.place(m.renderAlert())
	case m.s.confirm != nil:
		content = m.place(m.renderConfirm())
	case m.help:
		content = m.place(m.renderHelp())
	case m.s.screen == view.ScreenDashboard && m.s.open != "":
		content = m.place(m.renderForm())
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) place(modal string) string {
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderAuth() string {
	g := m.s.forms[m.s.authForm]

	s := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Taskboard") + "\n"
	s += HelpStyle.Render(g.title) + "\n\n"
	s += renderFields(g)

	if m.s.authMsg != "" {
		style := MessageErrorStyle
		if m.s.authKind == view.MessageSuccess {
			style = MessageSuccessStyle
		}
		s += "\n" + style.Render(m.s.authMsg) + "\n"
	}

	other := "ctrl+t: create an account"
	if m.s.authForm == form.Signup {
		other = "ctrl+t: sign in instead"
	}
	s += "\n" + HelpStyle.Render("enter:next/submit  tab:next field  "+other)

	return ModalStyle.Width(60).Render(s)
}

func renderFields(g *inputGroup) string {
	var s string
	for _, f := range g.fields {
		s += LabelStyle.Render(f.label) + f.input.View() + "\n"
	}
	return s
}

func (m Model) renderForm() string {
	g := m.s.forms[m.s.open]

	s := lipgloss.NewStyle().Bold(true).Render(g.title) + "\n\n"
	s += renderFields(g) + "\n"
	s += HelpStyle.Render("enter:next/save  tab:next field  esc:cancel")

	return ModalStyle.Width(64).Render(s)
}

func (m Model) renderDashboard() string {
	header := m.renderHeader()
	tabs := m.renderTabs()
	rule := lipgloss.NewStyle().Foreground(Border).Render(repeat("─", m.width))

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - 3
	var body string
	switch {
	case m.s.detail != nil:
		body = m.renderDetail(*m.s.detail)
	case m.s.tab == view.TabNotifications:
		body = m.renderNotifications(bodyHeight)
	default:
		body = m.renderTasks(bodyHeight)
	}
	body = ListStyle.Width(m.width).Height(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, rule, body)
}

func (m Model) renderHeader() string {
	name := clean(m.s.user.DisplayName())
	left := HeaderStyle.Render("Taskboard")
	right := HelpStyle.Render(truncate(name, max(m.width-16, 8)))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderTabs() string {
	tasks := fmt.Sprintf("Tasks (%d)", m.s.tasks.count)
	notes := "Notifications"

	taskStyle, noteStyle := TabActiveStyle, TabStyle
	if m.s.tab == view.TabNotifications {
		taskStyle, noteStyle = TabStyle, TabActiveStyle
	}

	row := taskStyle.Render(tasks) + noteStyle.Render(notes)
	if n := m.s.notifications.count; n > 0 {
		row += " " + BadgeStyle.Render(fmt.Sprint(n))
	}
	return row
}

func renderPlaceholder(ph presenter.Placeholder) string {
	style := EmptyStyle
	if ph.Kind == presenter.PlaceholderError {
		style = ErrorStyle
	}
	s := lipgloss.NewStyle().Bold(true).Render(clean(ph.Title))
	if ph.Message != "" {
		s += "\n" + clean(ph.Message)
	}
	if ph.Hint != "" {
		s += "\n\n" + HelpStyle.Render(clean(ph.Hint))
	}
	return style.Render(s)
}

// window returns the slice bounds that keep cursor within rows lines
func window(cursor, n, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := max(cursor-rows+1, 0)
	return start, min(start+rows, n)
}

func (m Model) loadingLine(loading bool, what string) string {
	if !loading {
		return ""
	}
	return HelpStyle.Render("Loading "+what+"...") + "\n"
}

func (m Model) renderTasks(height int) string {
	p := &m.s.tasks
	s := m.loadingLine(p.loading, "tasks")
	if p.hidden() {
		return s
	}

	if p.placeholder != nil {
		return s + renderPlaceholder(*p.placeholder)
	}

	now := m.s.now()
	titleWidth := max(m.width-44, 12)
	start, end := window(p.cursor, len(p.items), height-1)
	for i := start; i < end; i++ {
		t := p.items[i]
		cursor := "  "
		style := ItemStyle
		if i == p.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		due := ""
		if t.DueDate != nil {
			due = "due " + humanize.RelTime(*t.DueDate, now, "ago", "from now")
			if t.IsOverdue() {
				due = lipgloss.NewStyle().Foreground(Overdue).Render(due)
			}
		}

		line := style.Render(cursor + pad(clean(t.Title), titleWidth))
		s += line + " " + FormatStatus(string(t.Status)) + "  " + due + "\n"
	}
	return s
}

func (m Model) renderNotifications(height int) string {
	p := &m.s.notifications
	s := m.loadingLine(p.loading, "notifications")
	if p.hidden() {
		return s
	}

	if p.placeholder != nil {
		return s + renderPlaceholder(*p.placeholder)
	}

	now := m.s.now()
	titleWidth := max(m.width-48, 12)
	start, end := window(p.cursor, len(p.items), height-1)
	for i := start; i < end; i++ {
		n := p.items[i]
		cursor := "  "
		style := ItemStyle
		if n.IsRead() {
			style = ItemReadStyle
		}
		if i == p.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		marker := "●"
		if n.IsRead() {
			marker = " "
		}

		line := style.Render(cursor + marker + " " + pad(clean(n.Title), titleWidth))
		s += line + " " + pad(string(n.Type), 7) + " " + FormatStatus(string(n.Status)) +
			"  " + HelpStyle.Render(ago(n.CreatedAt, now)) + "\n"
	}
	return s
}

func ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func (m Model) renderDetail(d presenter.Detail) string {
	n := d.Notification
	now := m.s.now()

	s := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(clean(n.Title)) + "\n\n"
	s += clean(n.Message) + "\n\n"
	s += LabelStyle.Render("Type") + string(n.Type) + "\n"
	s += LabelStyle.Render("Status") + FormatStatus(string(n.Status)) + "\n"
	if !n.CreatedAt.IsZero() {
		s += LabelStyle.Render("Created") + n.CreatedAt.Local().Format("2006-01-02 15:04") +
			HelpStyle.Render(" ("+ago(n.CreatedAt, now)+")") + "\n"
	}
	if at, ok := d.ReadAt(); ok {
		s += LabelStyle.Render("Read") + at.Local().Format("2006-01-02 15:04") + "\n"
	}

	if len(n.Data) > 0 {
		s += "\n" + lipgloss.NewStyle().Bold(true).Render("Data") + "\n"
		keys := make([]string, 0, len(n.Data))
		for k := range n.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s += LabelStyle.Render(truncate(clean(k), 13)) + clean(fmt.Sprint(n.Data[k])) + "\n"
		}
	}

	var actions []string
	if d.CanMarkRead {
		actions = append(actions, "r:mark read")
	}
	if d.CanDelete {
		actions = append(actions, "d:delete")
	}
	actions = append(actions, "esc:back")
	s += "\n" + HelpStyle.Render(strings.Join(actions, "  "))

	return s
}

func (m Model) renderAlert() string {
	content := lipgloss.NewStyle().Bold(true).Foreground(Failed).Render("Error") + "\n\n"
	content += lipgloss.NewStyle().Width(50).Render(m.s.alerts[0]) + "\n\n"
	content += HelpStyle.Render("enter:dismiss")
	return AlertStyle.Render(content)
}

func (m Model) renderConfirm() string {
	content := lipgloss.NewStyle().Bold(true).Render("Confirm") + "\n\n"
	content += lipgloss.NewStyle().Width(50).Render(m.s.confirm.msg) + "\n\n"
	content += HelpStyle.Render("y:yes  n:no")
	return ModalStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	if m.s.noticeVisible() {
		return StatusBarStyle.Width(m.width).Render(m.s.notice)
	}

	help := "ctrl+c:quit"
	if m.s.screen == view.ScreenDashboard {
		help = "tab:switch  a:add  R:refresh  ?:help  L:logout  q:quit"
		if m.s.tab == view.TabNotifications {
			help = "tab:switch  enter:open  r:read  d:del  a:add  R:refresh  ?:help  L:logout  q:quit"
		}
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Keyboard Shortcuts")

	lines := []struct{ key, desc string }{
		{"tab / 1 / 2", "switch between tasks and notifications"},
		{"↑/k ↓/j", "move"},
		{"a", "add a task or notification"},
		{"n", "new notification"},
		{"enter", "open notification"},
		{"r", "mark notification read"},
		{"d", "delete notification"},
		{"R", "refresh current tab"},
		{"L", "logout"},
		{"q", "quit"},
	}

	s := title + "\n\n"
	for _, l := range lines {
		s += lipgloss.NewStyle().Foreground(Primary).Width(14).Render(l.key) + l.desc + "\n"
	}
	s += "\n" + HelpStyle.Render("Press any key to close")
	return ModalStyle.Render(s)
}
