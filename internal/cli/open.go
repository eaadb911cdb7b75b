package cli

import (
	"fmt"
	"log/slog"

	"github.com/idilsaglam/tally/internal/config"
	"github.com/idilsaglam/tally/internal/manager"
	"github.com/idilsaglam/tally/internal/model"
	"github.com/idilsaglam/tally/internal/store"
	"github.com/idilsaglam/tally/internal/store/csvstore"
	"github.com/idilsaglam/tally/internal/store/jsonstore"
	"github.com/idilsaglam/tally/internal/store/sqlitestore"
	"github.com/idilsaglam/tally/internal/store/yamlstore"
	"github.com/idilsaglam/tally/internal/ui"
)

// First ids handed out per record kind.
const (
	firstTaskID    = 1
	firstProductID = 1000
)

func noClose() error { return nil }

// openPersister picks the backend named by storage.format. The returned
// func releases it.
func openPersister[T store.Entity[T]](format, path, table string, codec csvstore.Codec[T], logger *slog.Logger) (store.Persister[T], func() error, error) {
	switch format {
	case config.FormatJSON:
		return jsonstore.New[T](path, logger), noClose, nil
	case config.FormatYAML:
		return yamlstore.New[T](path, logger), noClose, nil
	case config.FormatSQLite:
		db, err := sqlitestore.Open[T](path, table, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.FormatCSV:
		return csvstore.New(path, codec, logger), noClose, nil
	}
	return nil, nil, fmt.Errorf("unknown storage format %q", format)
}

// openManager builds a manager over the configured backend and loads it.
// Skipped records are reported as warnings. A failed load is returned with a
// usable, empty manager so interactive callers can carry on.
func openManager[T store.Entity[T]](a *app, kind, path, table, policy string, start int, codec csvstore.Codec[T]) (*manager.Manager[T], func() error, error) {
	pol, err := manager.ParsePolicy(policy)
	if err != nil {
		return nil, nil, err
	}
	p, closeFn, err := openPersister(a.cfg.Storage.Format, path, table, codec, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", kind, err)
	}
	m := manager.New(store.New[T](start), p, pol, a.logger.With(slog.String("kind", kind)))
	warnings, err := m.Load()
	for _, w := range warnings {
		ui.Warn(a.errOut, "skipped: "+w.Error())
	}
	return m, closeFn, err
}

// loadFailed reports a failed load before an interactive session starts.
func (a *app) loadFailed(err error) {
	ui.Fail(a.errOut, err.Error())
	fmt.Fprintln(a.errOut, ui.Dim("Changes stay in memory; the file is only replaced if you choose Save and confirm."))
}

// endSession turns changes stranded by a failed load into a failing exit.
func endSession[T store.Entity[T]](m *manager.Manager[T], err error) error {
	if err == nil && m.LoadFailed() && m.Dirty() {
		return fmt.Errorf("changes were not written: %w", manager.ErrLoadFailed)
	}
	return err
}

func (a *app) openTasks() (*manager.Manager[model.Task], func() error, error) {
	return openManager(a, "tasks", a.cfg.TasksPath(), "tasks", a.cfg.Tasks.SavePolicy, firstTaskID, csvstore.Codec[model.Task](csvstore.TaskCodec{}))
}

func (a *app) openInventory() (*manager.Manager[model.Product], func() error, error) {
	return openManager(a, "inventory", a.cfg.InventoryPath(), "products", a.cfg.Inventory.SavePolicy, firstProductID, csvstore.Codec[model.Product](csvstore.ProductCodec{}))
}
