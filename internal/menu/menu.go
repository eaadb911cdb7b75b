// Package menu runs the numbered command loops for tasks and inventory.
//
// Every handler returns an error instead of printing it; the loop reports
// the error and asks for the next choice, so nothing short of end of input
// or the exit choice ends a session.
package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/store"
	"github.com/idilsaglam/tally/internal/ui"
)

// ExitKey is the choice that leaves every menu.
const ExitKey = 0

type Option struct {
	Key   int
	Label string
	Run   func() error
}

type Menu struct {
	Title   string
	Options []Option
	// OnExit runs once when the loop ends, whether by choice or end of input.
	OnExit func()

	prompter *Prompter
	out      io.Writer
}

func (m *Menu) render() {
	lines := []string{ui.C(ui.Current().Title, m.Title), ""}
	for _, o := range m.Options {
		lines = append(lines, fmt.Sprintf("%2d. %s", o.Key, o.Label))
	}
	lines = append(lines, fmt.Sprintf("%2d. Exit", ExitKey))
	fmt.Fprintln(m.out)
	ui.Panel(m.out, lines)
}

// Run loops until the exit choice or end of input. Only a read failure is
// returned.
func (m *Menu) Run() error {
	handlers := make(map[int]func() error, len(m.Options))
	for _, o := range m.Options {
		handlers[o.Key] = o.Run
	}
	if m.OnExit != nil {
		defer m.OnExit()
	}
	for {
		m.render()
		s, err := m.prompter.Line("Choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(s)
		if err != nil {
			ui.Warn(m.out, "please enter a number")
			continue
		}
		if choice == ExitKey {
			return nil
		}
		run, ok := handlers[choice]
		if !ok {
			ui.Warn(m.out, fmt.Sprintf("unknown option %d", choice))
			continue
		}
		err = run()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			report(m.out, err)
		}
	}
}

// report prints err in the wording the user should see.
func report(w io.Writer, err error) {
	var saveErr *manager.SaveError
	switch {
	case errors.Is(err, manager.ErrLoadFailed):
		ui.Fail(w, "change kept in memory only: the data file could not be loaded, so it was not overwritten. Reload to retry or Save to overwrite it.")
	case errors.As(err, &saveErr):
		ui.Fail(w, "change kept in memory but not written: "+saveErr.Err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		ui.Fail(w, "that id is already in use: "+err.Error())
	default:
		ui.Fail(w, err.Error())
	}
}

func notFound(w io.Writer, kind string, id int) {
	ui.Fail(w, fmt.Sprintf("%s %d not found", kind, id))
}
