package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tally/internal/tui"
)

func (a *app) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen task list",
		Long: `Full-screen task list.

Keys: space toggles done, a adds, e edits, d deletes, u undoes the last
delete, p cycles the priority, / filters, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := a.openTasks()
			if m == nil {
				return err
			}
			defer func() { _ = closeFn() }()
			if err != nil {
				a.loadFailed(err)
			}
			return tui.Run(m, tui.Options{DueDays: a.cfg.Tasks.DefaultDueDays}, a.in, a.out)
		},
	}
}
