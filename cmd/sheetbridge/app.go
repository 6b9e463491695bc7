package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/config"
	"github.com/sagarc03/sheetbridge/database"
	"github.com/sagarc03/sheetbridge/sheets"
)

// newService wires the sheets reader and, when enabled, the journal into a
// SheetService. The returned func releases the journal connection.
func newService(ctx context.Context, cfg *config.Config) (*sheetbridge.SheetService, func(), error) {
	sa, err := cfg.RequireUpstream()
	if err != nil {
		return nil, nil, err
	}

	reader, err := sheets.NewReader(ctx, cfg.ReaderConfig(), sa)
	if err != nil {
		return nil, nil, fmt.Errorf("create sheets reader: %w", err)
	}

	cleanup := func() {}
	var journal sheetbridge.FetchJournal

	if cfg.Journal.Enabled {
		db, openErr := database.Open(ctx, cfg.Journal.Config, cfg.Journal.AutoMigrate)
		if openErr != nil {
			return nil, nil, fmt.Errorf("open journal: %w", openErr)
		}
		slog.Info("journal enabled", "type", cfg.Journal.Type, "table", cfg.Journal.Tables.Fetches)

		journal = db.GetJournal()
		cleanup = func() { _ = db.Close() }
	}

	service, err := sheetbridge.NewSheetService(reader, sheetbridge.ServiceConfig{
		FetchTimeout: cfg.Upstream.FetchTimeout(),
		Journal:      journal,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, cleanup, nil
}

// openJournal connects to the configured journal database whether or not
// the server has journaling turned on.
func openJournal(ctx context.Context, cfg *config.Config, migrate bool) (database.Database, error) {
	db, err := database.Open(ctx, cfg.Journal.Config, migrate)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return db, nil
}
