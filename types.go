package sheetbridge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is one spreadsheet row as returned by the data source. Cells past the
// populated range are absent, so rows in the same range may differ in length.
type Row []string

// Shape selects how an endpoint's records are wrapped in the response.
type Shape string

const (
	// ShapeRecords responds with {"<key>": [{field: value, ...}, ...]}.
	ShapeRecords Shape = "records"
	// ShapeValues responds with {"<key>": [value, ...]} for a single field.
	ShapeValues Shape = "values"
)

func (s Shape) IsValid() bool {
	switch s {
	case ShapeRecords, ShapeValues:
		return true
	default:
		return false
	}
}

// BlankRowPolicy decides what happens to rows with no non-empty cells.
type BlankRowPolicy string

const (
	// BlankRowsKeep emits a record (with every field missing or empty) for a blank row.
	BlankRowsKeep BlankRowPolicy = "keep"
	// BlankRowsSkip drops blank rows from the record set.
	BlankRowsSkip BlankRowPolicy = "skip"
)

func (p BlankRowPolicy) IsValid() bool {
	switch p {
	case BlankRowsKeep, BlankRowsSkip:
		return true
	default:
		return false
	}
}

func ParseBlankRowPolicy(s string) (BlankRowPolicy, error) {
	if s == "" {
		return BlankRowsKeep, nil
	}
	p := BlankRowPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid blank row policy: %s (valid policies: keep, skip): %w", s, ErrInvalidInput)
	}
	return p, nil
}

// Endpoint binds an HTTP route to one range of the configured spreadsheet.
type Endpoint struct {
	Name      string         `mapstructure:"name" json:"name"`
	Path      string         `mapstructure:"path" json:"path"`
	Range     string         `mapstructure:"range" json:"range"`
	Key       string         `mapstructure:"key" json:"key"`
	Fields    []string       `mapstructure:"fields" json:"fields"`
	Shape     Shape          `mapstructure:"shape" json:"shape"`
	BlankRows BlankRowPolicy `mapstructure:"blank_rows" json:"blank_rows"`

	// ErrorMessage is returned to clients when the fetch fails.
	ErrorMessage string `mapstructure:"error_message" json:"error_message,omitempty"`
}

// EnvelopeKey returns the top-level JSON key the records are served under.
func (e Endpoint) EnvelopeKey() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Name
}

// FailureMessage returns the client-facing message for a failed fetch.
func (e Endpoint) FailureMessage() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return "Error fetching " + e.Name
}

// ShapeOrDefault returns the response shape, records when unset.
func (e Endpoint) ShapeOrDefault() Shape {
	if e.Shape == "" {
		return ShapeRecords
	}
	return e.Shape
}

// Projection returns the projection configured for this endpoint.
func (e Endpoint) Projection() Projection {
	policy := e.BlankRows
	if policy == "" {
		policy = BlankRowsKeep
	}
	return Projection{Fields: e.Fields, BlankRows: policy}
}

// Validate checks that the endpoint can be served.
func (e Endpoint) Validate() error {
	if e.Name == "" {
		return errors.New("validate endpoint: name cannot be empty")
	}

	if !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("validate endpoint %s: path must start with /: %q", e.Name, e.Path)
	}

	// Paths are static routes; chi would read these as patterns.
	if strings.ContainsAny(e.Path, "{}*") {
		return fmt.Errorf("validate endpoint %s: path cannot contain route patterns: %q", e.Name, e.Path)
	}

	if !IsValidRange(e.Range) {
		return fmt.Errorf("validate endpoint %s: invalid A1 range: %q", e.Name, e.Range)
	}

	if len(e.Fields) == 0 {
		return fmt.Errorf("validate endpoint %s: at least one field is required", e.Name)
	}

	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if f == "" {
			return fmt.Errorf("validate endpoint %s: field names cannot be empty", e.Name)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("validate endpoint %s: duplicate field %q", e.Name, f)
		}
		seen[f] = struct{}{}
	}

	if e.Shape != "" && !e.Shape.IsValid() {
		return fmt.Errorf("validate endpoint %s: invalid shape: %s (valid shapes: records, values)", e.Name, e.Shape)
	}

	if e.ShapeOrDefault() == ShapeValues && len(e.Fields) != 1 {
		return fmt.Errorf("validate endpoint %s: values shape needs exactly one field, got %d", e.Name, len(e.Fields))
	}

	if e.BlankRows != "" && !e.BlankRows.IsValid() {
		return fmt.Errorf("validate endpoint %s: invalid blank row policy: %s", e.Name, e.BlankRows)
	}

	return nil
}

// DefaultEndpoints are served when no endpoints are configured.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{
			Name:      "codes",
			Path:      "/api/codes",
			Range:     "Hoja1!A2:A",
			Fields:    []string{"code"},
			Shape:     ShapeValues,
			BlankRows: BlankRowsKeep,

			ErrorMessage: "Error obteniendo códigos",
		},
		{
			Name:      "questions",
			Path:      "/api/questions",
			Range:     "Hoja2!A2:C",
			Fields:    []string{"id", "question", "answer"},
			Shape:     ShapeRecords,
			BlankRows: BlankRowsKeep,

			ErrorMessage: "Error obteniendo preguntas",
		},
	}
}

// Outcome labels a fetch result in the journal.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeInvalidRange Outcome = "invalid_range"
	OutcomeUnavailable  Outcome = "unavailable"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeError        Outcome = "error"
)

// OutcomeOf maps a failure kind sentinel to its outcome label.
func OutcomeOf(kind error) Outcome {
	switch {
	case kind == nil:
		return OutcomeError
	case errors.Is(kind, ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(kind, ErrInvalidRange):
		return OutcomeInvalidRange
	case errors.Is(kind, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(kind, ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

// FetchEntry is one journal row. It never carries cell contents.
type FetchEntry struct {
	ID         uuid.UUID `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Range      string    `json:"range"`
	Rows       int       `json:"rows"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type JournalQuery struct {
	Endpoint string
	Limit    int
	Cursor   string
}

type JournalPage struct {
	Items      []FetchEntry `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Tables holds configurable table names for the journal.
type Tables struct {
	Fetches string `mapstructure:"fetches"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Fetches == "" {
		return errors.New("validate tables: fetches table name cannot be empty")
	}

	if !IsValidTableName(t.Fetches) {
		return fmt.Errorf("validate tables: invalid fetches table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Fetches)
	}

	return nil
}
