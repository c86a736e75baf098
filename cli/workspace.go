// ABOUTME: Opens the configured storage backend and builds the store and analyzer session
// ABOUTME: Shared by every command that touches customer data
package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/charm"
	"github.com/harperreed/acctnotes/config"
	"github.com/harperreed/acctnotes/db"
	"github.com/harperreed/acctnotes/observability"
	"github.com/harperreed/acctnotes/store"
)

// Workspace is a loaded store plus the analyzer session over it.
type Workspace struct {
	Store   *store.Store
	Session *analyzer.Session
	// DB is nil unless the sqlite backend is in use.
	DB *sql.DB

	closers []func() error
}

// OpenWorkspace opens the backend named in cfg and loads every customer.
func OpenWorkspace(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Workspace, error) {
	ws := &Workspace{}

	var persister store.Persister
	sessionOpts := []analyzer.SessionOption{
		analyzer.WithTiming(cfg.Timing()),
		analyzer.WithLogger(logger),
		analyzer.WithMetrics(metrics),
	}

	switch cfg.Backend {
	case config.BackendCharm:
		client, err := charm.GetClient()
		if err != nil {
			return nil, fmt.Errorf("failed to open charm store: %w", err)
		}
		ws.closers = append(ws.closers, client.Close)
		persister = charm.NewPersister(client)
	default:
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		ws.DB = database
		ws.closers = append(ws.closers, database.Close)
		persister = db.NewPersister(database)
		sessionOpts = append(sessionOpts, analyzer.WithMessageLog(&db.MessageLog{DB: database}))
	}

	ws.Store = store.New(persister, store.WithLogger(logger), store.WithMetrics(metrics))
	if err := ws.Store.Load(ctx); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	ws.Session = analyzer.NewSession(ws.Store, sessionOpts...)

	logger.Debug("workspace opened",
		zap.String("backend", cfg.Backend),
		zap.Int("customers", len(ws.Store.List())))
	return ws, nil
}

// Close stops the session and releases the backend.
func (ws *Workspace) Close() error {
	if ws.Session != nil {
		ws.Session.Close()
	}
	var firstErr error
	for i := len(ws.closers) - 1; i >= 0; i-- {
		if err := ws.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
