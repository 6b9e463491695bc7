package sheetbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RangeReader reads rows of cells from the configured spreadsheet.
//
// Implementations should respect context cancellation and deadlines, and
// wrap failures with one of ErrUnauthorized, ErrInvalidRange, ErrUnavailable
// or ErrTimeout when the cause is known.
type RangeReader interface {
	// ReadRange returns the rows of an A1 range, top to bottom. A range with
	// no values yields an empty slice and no error.
	ReadRange(ctx context.Context, a1Range string) ([]Row, error)
}

// FetchJournal persists one entry per upstream fetch.
type FetchJournal interface {
	// Record stores entry. ID and CreatedAt are filled in by the caller.
	Record(ctx context.Context, entry FetchEntry) error

	// List returns entries newest first, optionally filtered by endpoint.
	List(ctx context.Context, q JournalQuery) (JournalPage, error)
}

type SheetService struct {
	reader         RangeReader
	journal        FetchJournal
	fetchTimeout   time.Duration
	journalTimeout time.Duration
	now            func() time.Time
}

// ServiceConfig holds configuration options for SheetService.
type ServiceConfig struct {
	FetchTimeout time.Duration // Deadline for one upstream read (default: 10s)
	Journal      FetchJournal  // Optional; nil disables journaling
}

func NewSheetService(reader RangeReader, cfg ServiceConfig) (*SheetService, error) {
	if reader == nil {
		return nil, fmt.Errorf("new sheet service: range reader is required: %w", ErrConfig)
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &SheetService{
		reader:         reader,
		journal:        cfg.Journal,
		fetchTimeout:   fetchTimeout,
		journalTimeout: 5 * time.Second,
		now:            time.Now,
	}, nil
}

// Fetch reads the endpoint's range and projects the rows into records.
//
// The upstream read runs under its own deadline so a hung call cannot hold
// the request forever. Any upstream failure is returned as a *FetchError,
// which matches ErrFetch with errors.Is.
func (s *SheetService) Fetch(ctx context.Context, ep Endpoint) (RecordSet, error) {
	start := s.now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	rows, err := s.reader.ReadRange(fetchCtx, ep.Range)
	cancel()

	if err != nil {
		kind := ClassifyKind(err)
		if kind == nil && errors.Is(err, context.DeadlineExceeded) {
			kind = ErrTimeout
		}
		fetchErr := &FetchError{Endpoint: ep.Name, Range: ep.Range, Kind: kind, Err: err}
		s.record(ctx, ep, 0, fetchErr.Outcome(), fetchErr, start)
		return nil, fetchErr
	}

	records := ep.Projection().Apply(rows)
	s.record(ctx, ep, len(records), OutcomeOK, nil, start)

	slog.Debug("fetched range", "endpoint", ep.Name, "range", ep.Range, "rows", len(rows), "records", len(records))
	return records, nil
}

// Values fetches a single-field endpoint and flattens it to one value per record.
func (s *SheetService) Values(ctx context.Context, ep Endpoint) ([]*string, error) {
	if len(ep.Fields) != 1 {
		return nil, fmt.Errorf("values %s: need exactly one field, got %d: %w", ep.Name, len(ep.Fields), ErrInvalidInput)
	}

	records, err := s.Fetch(ctx, ep)
	if err != nil {
		return nil, err
	}
	return records.Column(ep.Fields[0]), nil
}

// ListFetches pages through the journal. It returns ErrNotFound when
// journaling is off.
func (s *SheetService) ListFetches(ctx context.Context, q JournalQuery) (JournalPage, error) {
	if s.journal == nil {
		return JournalPage{}, fmt.Errorf("list fetches: %w", ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return JournalPage{}, fmt.Errorf("list fetches: %w", err)
	}
	return s.journal.List(ctx, q)
}

// record writes a journal entry. Journal failures are logged and dropped so
// they never fail the request.
func (s *SheetService) record(ctx context.Context, ep Endpoint, rows int, outcome Outcome, fetchErr error, start time.Time) {
	if s.journal == nil {
		return
	}

	entry := FetchEntry{
		ID:         uuid.New(),
		Endpoint:   ep.Name,
		Range:      ep.Range,
		Rows:       rows,
		Outcome:    outcome,
		DurationMS: s.now().Sub(start).Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if fetchErr != nil {
		entry.Error = fetchErr.Error()
	}

	// The request context may already be done after an upstream timeout.
	journalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.journalTimeout)
	defer cancel()

	if err := s.journal.Record(journalCtx, entry); err != nil {
		slog.Warn("failed to record fetch", "endpoint", ep.Name, "error", err)
	}
}
