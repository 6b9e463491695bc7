package sheetbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cell is one projected value. Present is false when the source row had no
// cell at that position; that is the missing marker, and it is not the same
// as a present cell holding "".
type Cell struct {
	Value   string
	Present bool
}

// Missing is the missing marker.
var Missing = Cell{}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Present: true}
}

// Record is one row projected onto an ordered list of field names.
type Record struct {
	Fields []string
	Cells  []Cell
}

// Get returns the value of field and whether it was present in the source row.
// Unknown fields report as missing.
func (r Record) Get(field string) (string, bool) {
	for i, f := range r.Fields {
		if f == field {
			return r.Cells[i].Value, r.Cells[i].Present
		}
	}
	return "", false
}

// MarshalJSON writes the record as an object with keys in field order.
// Missing fields are left out of the object, empty cells are written as "".
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for i, field := range r.Fields {
		if i >= len(r.Cells) || !r.Cells[i].Present {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(field)
		if err != nil {
			return nil, fmt.Errorf("marshal record key %q: %w", field, err)
		}
		val, err := json.Marshal(r.Cells[i].Value)
		if err != nil {
			return nil, fmt.Errorf("marshal record value %q: %w", field, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordSet is an ordered sequence of records, one per source row.
type RecordSet []Record

// Column flattens one field of every record. A missing value is nil, which
// encodes as JSON null.
func (rs RecordSet) Column(field string) []*string {
	out := make([]*string, len(rs))
	for i, r := range rs {
		if v, ok := r.Get(field); ok {
			out[i] = &v
		}
	}
	return out
}

// Projection maps rows onto records by column position.
type Projection struct {
	Fields    []string
	BlankRows BlankRowPolicy
}

// Apply projects rows in order. Position i of a row becomes Fields[i]; a row
// shorter than Fields gets the missing marker for the remaining fields, and
// cells past the last field are ignored. Values are copied verbatim.
func (p Projection) Apply(rows []Row) RecordSet {
	out := make(RecordSet, 0, len(rows))

	for _, row := range rows {
		if p.BlankRows == BlankRowsSkip && isBlank(row) {
			continue
		}

		cells := make([]Cell, len(p.Fields))
		for i := range p.Fields {
			if i < len(row) {
				cells[i] = Text(row[i])
			} else {
				cells[i] = Missing
			}
		}

		out = append(out, Record{Fields: p.Fields, Cells: cells})
	}

	return out
}

// Project maps every row onto fields by position, keeping blank rows, so the
// result always has len(rows) records. It never fails.
func Project(rows []Row, fields []string) RecordSet {
	return Projection{Fields: fields, BlankRows: BlankRowsKeep}.Apply(rows)
}
