package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
	"github.com/idilsaglam/tally/internal/ui"
)

type taskMenu struct {
	m   *manager.Manager[model.Task]
	p   *Prompter
	out io.Writer
}

// RunTasks runs the task menu over m until exit or end of input.
func RunTasks(m *manager.Manager[model.Task], in io.Reader, out io.Writer) error {
	t := &taskMenu{m: m, p: NewPrompter(in, out), out: out}
	menu := &Menu{
		Title: "Task Manager",
		Options: []Option{
			{1, "Add task", t.add},
			{2, "Delete task", t.remove},
			{3, "Mark task completed", t.complete},
			{4, "Update task", t.update},
			{5, "List all tasks", t.listAll},
			{6, "List completed tasks", t.listDone(true)},
			{7, "List pending tasks", t.listDone(false)},
			{8, "List tasks by priority", t.listByPriority},
			{9, "Save", t.save},
			{10, "Reload from disk", t.reload},
		},
		OnExit:   t.exit,
		prompter: t.p,
		out:      out,
	}
	return menu.Run()
}

func (t *taskMenu) add() error {
	desc, err := t.p.AskString("Description: ")
	if err != nil {
		return err
	}
	due, err := t.p.AskDate("Due date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	pr, err := t.p.AskPriority("Priority (LOW/MEDIUM/HIGH): ")
	if err != nil {
		return err
	}
	id, err := t.m.Add(model.NewTask(desc, due, pr))
	if id != 0 {
		ui.OK(t.out, fmt.Sprintf("Task added with id %d", id))
	}
	return err
}

func (t *taskMenu) remove() error {
	id, err := t.p.AskInt("Task id to delete: ")
	if err != nil {
		return err
	}
	ok, err := t.m.Remove(id)
	if !ok {
		notFound(t.out, "task", id)
		return nil
	}
	ui.OK(t.out, fmt.Sprintf("Task %d deleted", id))
	return err
}

func (t *taskMenu) complete() error {
	id, err := t.p.AskInt("Task id to mark completed: ")
	if err != nil {
		return err
	}
	done := true
	return t.apply(id, model.TaskPatch{Completed: &done}, "marked completed")
}

func (t *taskMenu) update() error {
	id, err := t.p.AskInt("Task id to update: ")
	if err != nil {
		return err
	}
	cur, ok := t.m.Find(id)
	if !ok {
		notFound(t.out, "task", id)
		return nil
	}
	fmt.Fprintln(t.out, "  "+ui.Dim("Current: "+cur.String()))
	fmt.Fprintln(t.out, "  "+ui.Dim("Leave a field blank to keep it."))

	var patch model.TaskPatch
	if patch.Description, err = t.p.OptionalString("Description: "); err != nil {
		return err
	}
	if patch.DueDate, err = t.p.OptionalDate("Due date (YYYY-MM-DD): "); err != nil {
		return err
	}
	if patch.Priority, err = t.p.OptionalPriority("Priority (LOW/MEDIUM/HIGH): "); err != nil {
		return err
	}
	if patch.Completed, err = t.p.OptionalBool("Completed (yes/no): "); err != nil {
		return err
	}
	if patch.Empty() {
		ui.Warn(t.out, "nothing to change")
		return nil
	}
	return t.apply(id, patch, "updated")
}

func (t *taskMenu) apply(id int, patch model.TaskPatch, what string) error {
	err := t.m.Update(id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(t.out, "task", id)
		return nil
	case err == nil:
		ui.OK(t.out, fmt.Sprintf("Task %d %s", id, what))
		return nil
	}
	var saveErr *manager.SaveError
	if errors.As(err, &saveErr) {
		ui.OK(t.out, fmt.Sprintf("Task %d %s", id, what))
	}
	return err
}

func (t *taskMenu) listAll() error {
	t.print("All tasks", t.m.List(nil))
	return nil
}

func (t *taskMenu) listDone(done bool) func() error {
	title := "Pending tasks"
	if done {
		title = "Completed tasks"
	}
	return func() error {
		t.print(title, t.m.List(model.TaskDone(done)))
		return nil
	}
}

func (t *taskMenu) listByPriority() error {
	pr, err := t.p.AskPriority("Priority (LOW/MEDIUM/HIGH): ")
	if err != nil {
		return err
	}
	t.print(pr.String()+" priority tasks", t.m.List(model.TaskWithPriority(pr)))
	return nil
}

func (t *taskMenu) print(title string, tasks []model.Task) {
	fmt.Fprintln(t.out, "\n  "+ui.C(ui.Current().Title, title))
	if len(tasks) == 0 {
		fmt.Fprintln(t.out, "  "+ui.Dim("(no tasks)"))
		return
	}
	rows := make([][]string, len(tasks))
	for i, task := range tasks {
		rows[i] = TaskRow(task)
	}
	ui.Table(t.out, []string{"ID", "Description", "Due", "Priority", "Status"}, rows, 0)
}

// TaskRow is the table row for task.
func TaskRow(task model.Task) []string {
	th := ui.Current()
	status := ui.C(th.Pending, "pending")
	if task.Completed {
		status = ui.C(th.Success, "done")
	}
	return []string{strconv.Itoa(task.ID), task.Description, task.DueDate.String(), ui.PriorityLabel(task.Priority), status}
}

func (t *taskMenu) save() error { return save(t.p, t.out, t.m, "tasks") }

func (t *taskMenu) reload() error {
	if t.m.Dirty() {
		ok, err := t.p.Confirm("Discard unsaved changes and reload (yes/no)? ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(t.out, "  Cancelled.")
			return nil
		}
	}
	return load(t.out, t.m, "tasks")
}

func (t *taskMenu) exit() {
	if t.m.Dirty() {
		ui.Warn(t.out, "exiting with unsaved task changes")
	}
	fmt.Fprintln(t.out, "  Goodbye!")
}

// save writes m. After a failed load it asks before replacing the file.
func save[T store.Entity[T]](p *Prompter, w io.Writer, m *manager.Manager[T], kind string) error {
	write := m.Save
	if m.LoadFailed() {
		ui.Warn(w, "the data file could not be loaded when the program started or on the last reload")
		ok, err := p.Confirm(fmt.Sprintf("Overwrite it with the %d %s in memory (yes/no)? ", m.Len(), kind))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "  Cancelled.")
			return nil
		}
		write = m.Overwrite
	}
	if err := write(); err != nil {
		return err
	}
	ui.OK(w, fmt.Sprintf("Saved %d %s", m.Len(), kind))
	return nil
}

// load reloads m and reports each skipped record.
func load[T store.Entity[T]](w io.Writer, m *manager.Manager[T], kind string) error {
	warnings, err := m.Load()
	if err != nil {
		return err
	}
	for _, warn := range warnings {
		ui.Warn(w, "skipped: "+warn.Error())
	}
	ui.OK(w, fmt.Sprintf("Loaded %d %s", m.Len(), kind))
	return nil
}
