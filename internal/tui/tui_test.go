package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tally/internal/logging"
	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
	"github.com/idilsaglam/tally/internal/store/csvstore"
	"github.com/idilsaglam/tally/internal/ui"
)

var today = model.NewDate(2026, 3, 1)

func newModel(t *testing.T, path string, policy manager.Policy) (Model, *manager.Manager[model.Task]) {
	t.Helper()
	file := csvstore.New[model.Task](path, csvstore.TaskCodec{}, logging.Discard())
	mgr := manager.New[model.Task](store.New[model.Task](1), file, policy, logging.Discard())
	for _, task := range []model.Task{
		model.NewTask("Write report", today, model.PriorityMedium),
		model.NewTask("Call plumber", today.AddDays(1), model.PriorityHigh),
	} {
		_, err := mgr.Add(task)
		require.NoError(t, err)
	}
	return New(mgr, Options{DueDays: 7, Today: func() model.Date { return today }}), mgr
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(Model)
	}
	return m
}

func tempPath(t *testing.T) string { return filepath.Join(t.TempDir(), "tasks.txt") }

func TestToggleFollowsCursor(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, " ")
	first, _ := mgr.Find(1)
	assert.True(t, first.Completed)

	m = press(m, "down", " ")
	second, _ := mgr.Find(2)
	assert.True(t, second.Completed)

	press(m, " ")
	second, _ = mgr.Find(2)
	assert.False(t, second.Completed)
	assert.True(t, mgr.Dirty())
}

func TestDeleteAndUndoKeepsID(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, "d")
	assert.Equal(t, 1, mgr.Len())
	_, ok := mgr.Find(1)
	assert.False(t, ok)

	m = press(m, "u")
	require.Equal(t, 2, mgr.Len())
	restored, ok := mgr.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Write report", restored.Description)

	press(m, "u")
	assert.Equal(t, 2, mgr.Len(), "undo is single-level")
}

func TestAddUsesDefaults(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, "a", "Buy milk", "enter")
	assert.Equal(t, browsing, m.mode)

	added, ok := mgr.Find(3)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", added.Description)
	assert.Equal(t, model.NewDate(2026, 3, 8), added.DueDate)
	assert.Equal(t, model.PriorityMedium, added.Priority)
	assert.Len(t, m.list.Items(), 3)
}

func TestAddRejectsBlank(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, "a", "   ", "enter")
	assert.Equal(t, adding, m.mode)
	assert.Contains(t, m.View(), "Description cannot be empty")

	m = press(m, "esc")
	assert.Equal(t, browsing, m.mode)
	assert.Equal(t, 2, mgr.Len())
}

func TestAddRejectsCSVDelimiters(t *testing.T) {
	path := tempPath(t)
	m, mgr := newModel(t, path, manager.SaveAuto)

	m = press(m, "a", "Buy milk, eggs", "enter")
	assert.Equal(t, adding, m.mode)
	assert.Contains(t, m.View(), "invalid description")
	assert.Equal(t, 2, mgr.Len())

	m.ti.SetValue("Buy milk and eggs")
	m = press(m, "enter")
	assert.Equal(t, browsing, m.mode)
	assert.Equal(t, 3, mgr.Len())
	assert.Empty(t, m.status)
}

func TestEditDescription(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, "down", "e")
	require.Equal(t, editing, m.mode)
	assert.Equal(t, "Call plumber", m.ti.Value())

	m.ti.SetValue("Call the plumber")
	press(m, "enter")
	task, _ := mgr.Find(2)
	assert.Equal(t, "Call the plumber", task.Description)
	assert.Equal(t, model.PriorityHigh, task.Priority)
}

func TestPriorityCycles(t *testing.T) {
	m, mgr := newModel(t, tempPath(t), manager.SaveManual)

	m = press(m, "p")
	task, _ := mgr.Find(1)
	assert.Equal(t, model.PriorityHigh, task.Priority)

	press(m, "p")
	task, _ = mgr.Find(1)
	assert.Equal(t, model.PriorityLow, task.Priority)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, tempPath(t), manager.SaveManual)

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAutosaveFailureShownInStatus(t *testing.T) {
	dir := t.TempDir()
	file := csvstore.New[model.Task](dir, csvstore.TaskCodec{}, logging.Discard())
	mgr := manager.New[model.Task](store.New[model.Task](1), file, manager.SaveAuto, logging.Discard())
	m := New(mgr, Options{DueDays: 7, Today: func() model.Date { return today }})

	m = press(m, "a", "Buy milk", "enter")
	assert.Equal(t, 1, mgr.Len())
	assert.Contains(t, m.View(), "autosave")
}

func TestWindowSize(t *testing.T) {
	m, _ := newModel(t, tempPath(t), manager.SaveManual)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Contains(t, m.View(), "Write report")
}

func TestQuitDoesNotSaveOverUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	file := csvstore.New[model.Task](dir, csvstore.TaskCodec{}, logging.Discard())
	mgr := manager.New[model.Task](store.New[model.Task](1), file, manager.SaveManual, logging.Discard())
	_, err := mgr.Load()
	require.Error(t, err)
	_, err = mgr.Add(model.NewTask("Buy milk", today, model.PriorityLow))
	require.NoError(t, err)

	assert.ErrorIs(t, saveOnQuit(mgr), manager.ErrLoadFailed)
	assert.True(t, mgr.Dirty())
}

func TestPriorityStyleFollowsTheme(t *testing.T) {
	t.Cleanup(func() { ui.SetTheme("classic") })

	ui.SetTheme("classic")
	assert.Equal(t, lipgloss.Color("9"), priorityStyle(model.PriorityHigh).GetForeground())
	assert.True(t, priorityStyle(model.PriorityHigh).GetBold())

	ui.SetTheme("mono")
	assert.Equal(t, lipgloss.NoColor{}, priorityStyle(model.PriorityLow).GetForeground())
}
