package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tally/internal/menu"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/ui"
)

func (a *app) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Task menu, or a one-shot task command",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openTasks()
			if m == nil {
				return err
			}
			defer func() { _ = closeFn() }()
			if err != nil {
				a.loadFailed(err)
			}
			return endSession(m, menu.RunTasks(m, a.in, a.out))
		},
	}
	cmd.AddCommand(a.tasksListCommand(), a.tasksAddCommand(), a.tasksDoneCommand(), a.tasksRemoveCommand())
	return cmd
}

func (a *app) tasksListCommand() *cobra.Command {
	var (
		status   string
		priority string
		group    bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print tasks in a panel with a progress bar",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := taskFilter(status, priority)
			if err != nil {
				return err
			}
			m, closeFn, err := a.openTasks()
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			all := m.List(nil)
			shown := m.List(keep)
			done := len(m.List(model.TaskDone(true)))

			th := ui.Current()
			lines := []string{
				fmt.Sprintf("%s  %s %d  %s %d  %s %d",
					ui.C(th.Title, "Tasks"),
					ui.C(th.Success, th.SymDone), done,
					ui.C(th.Pending, th.SymUnchecked), len(all)-done,
					ui.C(th.Accent, "Total"), len(all)),
				ui.C(th.Muted, ui.ProgressBar(done, len(all), 28)),
				"",
			}
			if group {
				lines = append(lines, groupLines(shown)...)
			} else {
				lines = append(lines, flatLines(shown)...)
			}
			lines = append(lines, "", ui.C(th.Muted, `Tip: add with "tally tasks add Buy milk"`))
			ui.Panel(a.out, lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, done or pending")
	cmd.Flags().StringVar(&priority, "priority", "", "only tasks of this priority (LOW, MEDIUM, HIGH)")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (a *app) tasksAddCommand() *cobra.Command {
	var (
		due      string
		priority string
	)
	cmd := &cobra.Command{
		Use:   "add <description...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := model.DateOf(time.Now()).AddDays(a.cfg.Tasks.DefaultDueDays)
			if due != "" {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				date = d
			}
			pr, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			m, closeFn, err := a.openTasks()
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			id, err := m.Add(model.NewTask(strings.Join(args, " "), date, pr))
			if err != nil {
				return err
			}
			if m.Dirty() {
				if err := m.Save(); err != nil {
					return err
				}
			}
			ui.OK(a.out, fmt.Sprintf("added task %d", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (default: today plus tasks.default_due_days)")
	cmd.Flags().StringVar(&priority, "priority", model.PriorityMedium.String(), "LOW, MEDIUM or HIGH")
	return cmd
}

func (a *app) tasksDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeTask(args[0], "toggled", func(t model.Task) model.TaskPatch {
				done := !t.Completed
				return model.TaskPatch{Completed: &done}
			})
		},
	}
}

func (a *app) tasksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeTask(args[0], "removed", nil)
		},
	}
}

// changeTask applies patch to the task with the given id, or removes it when
// patch is nil, and makes sure the result is on disk.
func (a *app) changeTask(arg, what string, patch func(model.Task) model.TaskPatch) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("not a task id: %s", arg)
	}
	m, closeFn, err := a.openTasks()
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	t, ok := m.Find(id)
	if !ok {
		ui.Fail(a.errOut, fmt.Sprintf("task %d not found", id))
		fmt.Fprintln(a.errOut, ui.Dim("Hint: run `tally tasks ls` to see task ids"))
		return fmt.Errorf("task %d not found", id)
	}
	if patch == nil {
		_, err = m.Remove(id)
	} else {
		err = m.Update(id, patch(t))
	}
	if err != nil {
		return err
	}
	if m.Dirty() {
		if err := m.Save(); err != nil {
			return err
		}
	}
	ui.OK(a.out, fmt.Sprintf("task %d %s", id, what))
	return nil
}

func taskFilter(status, priority string) (func(model.Task) bool, error) {
	var keep []func(model.Task) bool
	switch strings.ToLower(status) {
	case "", "all":
	case "done":
		keep = append(keep, model.TaskDone(true))
	case "pending":
		keep = append(keep, model.TaskDone(false))
	default:
		return nil, fmt.Errorf("--status: want all, done or pending, got %q", status)
	}
	if priority != "" {
		p, err := model.ParsePriority(priority)
		if err != nil {
			return nil, fmt.Errorf("--priority: %w", err)
		}
		keep = append(keep, model.TaskWithPriority(p))
	}
	return func(t model.Task) bool {
		for _, k := range keep {
			if !k(t) {
				return false
			}
		}
		return true
	}, nil
}

func flatLines(tasks []model.Task) []string {
	th := ui.Current()
	if len(tasks) == 0 {
		return []string{ui.C(th.Muted, "no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		box, color := th.BoxUnchecked, th.Muted
		if t.Completed {
			box, color = th.BoxChecked, th.Success
		}
		desc := t.Description
		if r := []rune(desc); len(r) > 60 {
			desc = string(r[:57]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s %s",
			ui.Dim(fmt.Sprintf("%3d.", t.ID)), ui.C(color, box), desc,
			ui.C(th.Muted, t.DueDate.String()), ui.PriorityLabel(t.Priority)))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, t := range tasks {
		if t.Completed {
			done = append(done, t)
		} else {
			pend = append(pend, t)
		}
	}
	th := ui.Current()
	var lines []string
	lines = append(lines, ui.C(th.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "", ui.C(th.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
