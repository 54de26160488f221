package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/markscan/internal/store"
)

// initStore opens and migrates the configured history backend. It returns
// a nil Store when history is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.SQLitePath())
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: database_url is required for postgres (MARKSCAN_STORE_DATABASE_URL)")
		}
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// requireStore is initStore for commands that only make sense with history.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run history is disabled (set store.driver to sqlite or postgres)")
	}
	return st, nil
}
