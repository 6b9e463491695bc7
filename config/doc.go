// Package config provides configuration loading and validation for sheetbridge.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (SHEETBRIDGE_ prefix, plus the legacy bare names)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with SHEETBRIDGE_ prefix:
//   - server.port → SHEETBRIDGE_SERVER_PORT
//   - sheet.id → SHEETBRIDGE_SHEET_ID
//   - journal.dsn → SHEETBRIDGE_JOURNAL_DSN
//
// Four keys also read the names used by earlier deployments, checked after
// the prefixed name: SHEET_ID, CLIENT_EMAIL, PRIVATE_KEY and PORT.
//
// # Endpoints
//
// Endpoints can only be set in a config file. With none configured, the
// two defaults from sheetbridge.DefaultEndpoints are served:
//
//	endpoints:
//	  - name: codes
//	    path: /api/codes
//	    range: Hoja1!A2:A
//	    fields: [code]
//	    shape: values
//	  - name: questions
//	    path: /api/questions
//	    range: Hoja2!A2:C
//	    fields: [id, question, answer]
//	    shape: records
//
// shape defaults to records and blank_rows to keep. Paths are static:
// route patterns ({, }, *) and the reserved /wakeup and /api/_journal are
// rejected.
//
// # Validation
//
// Load validates struct tags, every endpoint, and the journal table name when
// the journal is enabled. Failures wrap sheetbridge.ErrConfig. The sheet id and
// credentials are only checked by RequireUpstream, so commands that never read
// the spreadsheet work without them.
package config
