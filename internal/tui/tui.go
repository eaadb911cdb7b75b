// Package tui is the full-screen task list.
//
// Every change goes through the task Manager as it happens, so the save
// policy applies exactly as it does in the menu; whatever is still unsaved
// when the program quits is written then, unless the file failed to load.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/ui"
)

// taskItem adapts a Task to bubbles/list.Item
type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string { return i.task.Description }
func (i taskItem) Description() string {
	return i.task.DueDate.String() + " " + i.task.Priority.String()
}
func (i taskItem) FilterValue() string { return i.task.Description }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	t := it.task
	th := ui.Current()
	box := mutedStyle.Render(th.BoxUnchecked)
	text := t.Description
	if t.Completed {
		box = successStyle.Render(th.BoxChecked)
		text = doneStyle.Render(text)
	}
	due := mutedStyle.Render(t.DueDate.String())
	prio := priorityStyle(t.Priority).Render(t.Priority.String())

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s  %s\n", prefix, box, text, due, prio)
}

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// Options tune a TUI session.
type Options struct {
	// DueDays is how far after Today a new task falls due.
	DueDays int
	// Today defaults to the local calendar date.
	Today func() model.Date
}

type Model struct {
	tasks *manager.Manager[model.Task]
	opts  Options

	list list.Model
	ti   textinput.Model

	mode     mode
	editID   int
	inputErr string
	status   string

	// single-level undo of the last delete
	undo *model.Task

	width, height int
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind     = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	priorityBind = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority"))
)

// New builds the list over the tasks currently held by tasks.
func New(tasks *manager.Manager[model.Task], opts Options) Model {
	if opts.Today == nil {
		opts.Today = func() model.Date { return model.DateOf(time.Now()) }
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	extra := func() []key.Binding {
		return []key.Binding{toggleBind, addBind, editBind, deleteBind, undoBind, priorityBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{tasks: tasks, opts: opts, list: l, ti: ti, width: 80, height: 24}
	m.resize()
	m.refresh()
	return m
}

// Run shows the list until the user quits, then saves anything unsaved.
func Run(tasks *manager.Manager[model.Task], opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(tasks, opts), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return err
	}
	return saveOnQuit(tasks)
}

func saveOnQuit(tasks *manager.Manager[model.Task]) error {
	if !tasks.Dirty() {
		return nil
	}
	return tasks.Save()
}

// refresh reloads the list rows and header from the manager. The returned
// command re-applies an active filter.
func (m *Model) refresh() tea.Cmd {
	all := m.tasks.List(nil)
	items := make([]list.Item, len(all))
	done := 0
	for i, t := range all {
		items[i] = taskItem{task: t}
		if t.Completed {
			done++
		}
	}
	cmd := m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(all)-done,
		accentStyle.Render("Total"), len(all),
		mutedStyle.Render(progressBar(done, len(all), 20)),
	)
	return cmd
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode != browsing {
		h -= 2
	}
	m.list.SetSize(m.width-2, h)
}

func (m *Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	return it.task, ok
}

// report turns a manager error into the status line; nil clears it.
func (m *Model) report(err error) {
	if err == nil {
		m.status = ""
		return
	}
	m.status = err.Error()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resize()
		return m, nil
	}
	if m.mode != browsing {
		return m.updateInput(msg)
	}

	k, isKey := msg.(tea.KeyMsg)
	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if t, ok := m.selected(); ok {
			done := !t.Completed
			m.report(m.tasks.Update(t.ID, model.TaskPatch{Completed: &done}))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case "p":
		if t, ok := m.selected(); ok {
			next := (t.Priority + 1) % model.Priority(len(model.Priorities))
			m.report(m.tasks.Update(t.ID, model.TaskPatch{Priority: &next}))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case "d":
		if t, ok := m.selected(); ok {
			_, err := m.tasks.Remove(t.ID)
			m.undo = &t
			m.report(err)
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case "u":
		if m.undo != nil {
			_, err := m.tasks.Add(*m.undo)
			m.undo = nil
			m.report(err)
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case "a":
		return m.startInput(adding, "", "New task description..."), textinput.Blink
	case "e":
		if t, ok := m.selected(); ok {
			m.editID = t.ID
			m = m.startInput(editing, t.Description, "Edit task description...")
			m.ti.CursorEnd()
			return m, textinput.Blink
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) startInput(md mode, value, placeholder string) Model {
	m.mode = md
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
	return m
}

func (m Model) stopInput() Model {
	m.mode = browsing
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
	return m
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m.stopInput(), nil
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.inputErr = "Description cannot be empty"
				return m, nil
			}
			var err error
			if m.mode == adding {
				due := m.opts.Today().AddDays(m.opts.DueDays)
				_, err = m.tasks.Add(model.NewTask(text, due, model.PriorityMedium))
			} else {
				err = m.tasks.Update(m.editID, model.TaskPatch{Description: &text})
			}
			var invalid *model.ValidationError
			if errors.As(err, &invalid) {
				m.inputErr = invalid.Error()
				return m, nil
			}
			m.report(err)
			cmd := m.refresh()
			return m.stopInput(), cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.list.View()
	if m.mode != browsing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add task"
		if m.mode == editing {
			title = fmt.Sprintf("Edit task %d", m.editID)
		}
		if m.inputErr != "" {
			title += ": " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + errorStyle.Render("✖ "+m.status)
	}
	return panelString(content)
}
