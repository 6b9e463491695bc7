// Package database stores the fetch journal in SQLite or PostgreSQL.
//
// The journal keeps one row per upstream read: which endpoint and range were
// read, how many rows came back, the outcome, and how long it took. Cell
// contents are never stored.
//
// # Supported Backends
//
//   - PostgreSQL: pgx connection pool, suited to shared deployments
//   - SQLite: modernc.org/sqlite, no cgo, suited to a single instance
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "sheetbridge.db",
//	    Tables: sheetbridge.Tables{Fetches: "sheetbridge_fetches"},
//	}
//
//	db, err := database.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	service, err := sheetbridge.NewSheetService(reader, sheetbridge.ServiceConfig{
//	    Journal: db.GetJournal(),
//	})
//
// Connect only opens the backend. Open additionally pings it, runs
// migrations when asked to, and validates the schema.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
