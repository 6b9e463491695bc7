// Package http serves spreadsheet ranges as JSON over HTTP.
//
// Every configured endpoint becomes one GET route. A records endpoint wraps
// its record set under the endpoint key:
//
//	GET /api/questions
//	{"questions": [{"id": "1", "question": "What is 2+2?", "answer": "4"}]}
//
// A values endpoint flattens its single field into an array, with null for
// rows that had no cell at that position:
//
//	GET /api/codes
//	{"codes": ["A1", "B2", null]}
//
// Any fetch failure answers 500 with the endpoint's failure message and
// nothing else; the classified cause is only logged:
//
//	{"error": "Error obteniendo códigos"}
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    Endpoints: sheetbridge.DefaultEndpoints(),
//	    CORS:      http.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":3000", handler.Router())
//
// The service parameter must implement the Service interface with Fetch,
// Values, and ListFetches methods; *sheetbridge.SheetService does.
//
// # Other routes
//
//   - GET /wakeup returns {"status":"ok","message":"Wakeup OK"} without touching the sheet.
//   - GET /api/_journal?endpoint=&limit=&cursor= pages through recorded fetches
//     when HandlerConfig.Journal is set.
//   - Unknown routes return {"error":"Not found"} with status 404.
//
// # Middleware
//
// Router installs RequestID, RequestLogger, chi's Recoverer, and CORS when
// enabled. RequestID and RequestLogger are exported for use with other routers.
package http
