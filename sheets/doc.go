// Package sheets implements sheetbridge.RangeReader on top of the Google
// Sheets v4 API.
//
// Requests are authenticated with a service account through the OAuth2 JWT
// flow using the read-only spreadsheets scope:
//
//	sa, err := credentials.Load(cfg.Credentials)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reader, err := sheets.NewReader(ctx, sheets.Config{SpreadsheetID: id}, sa)
//	rows, err := reader.ReadRange(ctx, "Hoja2!A2:C")
//
// Every read waits on a token bucket so bursts of requests stay inside the
// per-user read quota. Failures are classified into the sheetbridge failure
// kinds (ErrUnauthorized, ErrInvalidRange, ErrUnavailable, ErrTimeout).
// Only ErrUnavailable is retried, and only when MaxRetries > 0.
package sheets
