// Package sheetbridge serves ranges of a Google spreadsheet as JSON endpoints.
//
// Each configured Endpoint binds an HTTP route to one A1 range of a single
// spreadsheet. On every request the range is read from the Sheets API and the
// returned rows are projected into records by position: cell 0 becomes the
// first field, cell 1 the second, and so on. Cells the row does not have are
// reported as missing, which is different from an empty cell.
//
// # Key Components
//
//   - Project / Projection: the pure row-to-record transformation
//   - Service: reads a range through a RangeReader and projects it
//   - RangeReader: upstream interface (see the sheets package)
//   - FetchJournal: optional log of fetch outcomes (see the database package)
//
// # Example Usage
//
//	rows := []sheetbridge.Row{{"1", "What is 2+2?", "4"}, {"2"}}
//	records := sheetbridge.Project(rows, []string{"id", "question", "answer"})
//
//	id, _ := records[1].Get("id")         // "2", true
//	_, ok := records[1].Get("question")   // "", false (missing)
//
// A RecordSet is built fresh for every request; nothing is cached.
//
// See the http package for the REST surface and the sheets package for the
// Google Sheets backed RangeReader.
package sheetbridge
