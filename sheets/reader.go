package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/sagarc03/sheetbridge"
	"github.com/sagarc03/sheetbridge/credentials"
)

// Config holds upstream read settings.
type Config struct {
	SpreadsheetID string
	Endpoint      string        // Sheets API base URL override, e.g. for an emulator
	RatePerSecond float64       // Sustained reads per second; <= 0 disables limiting
	Burst         int           // Token bucket size (default: 1)
	MaxRetries    int           // Retries for transient failures (default: 0)
	RetryMaxWait  time.Duration // Upper bound on total retry time (default: 30s)
}

// Reader reads A1 ranges of a single spreadsheet.
type Reader struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	limiter       *rate.Limiter
	maxRetries    int
	retryMaxWait  time.Duration
}

// NewReader creates a Reader authenticated as the given service account.
// ctx is used for token refreshes and should outlive the Reader.
func NewReader(ctx context.Context, cfg Config, sa credentials.ServiceAccount) (*Reader, error) {
	tokenURL := sa.TokenURL
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}

	jwtCfg := &jwt.Config{
		Email:      sa.Email,
		PrivateKey: sa.PrivateKey,
		Scopes:     []string{sheetsapi.SpreadsheetsReadonlyScope},
		TokenURL:   tokenURL,
	}

	return NewReaderWithOptions(ctx, cfg, option.WithHTTPClient(jwtCfg.Client(ctx)))
}

// NewReaderWithOptions creates a Reader from raw client options. It is used
// by NewReader and by tests that point the client at a fake endpoint.
func NewReaderWithOptions(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Reader, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("new reader: spreadsheet id is required: %w", sheetbridge.ErrConfig)
	}

	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new reader: create sheets service: %w", err)
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	retryMaxWait := cfg.RetryMaxWait
	if retryMaxWait <= 0 {
		retryMaxWait = 30 * time.Second
	}

	return &Reader{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		limiter:       rate.NewLimiter(limit, burst),
		maxRetries:    max(0, cfg.MaxRetries),
		retryMaxWait:  retryMaxWait,
	}, nil
}

// ReadRange implements sheetbridge.RangeReader.
func (r *Reader) ReadRange(ctx context.Context, a1Range string) ([]sheetbridge.Row, error) {
	if r.maxRetries == 0 {
		return r.read(ctx, a1Range)
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = r.retryMaxWait
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(r.maxRetries)), ctx)

	rows, err := backoff.RetryNotifyWithData(func() ([]sheetbridge.Row, error) {
		rows, err := r.read(ctx, a1Range)
		if err != nil && !errors.Is(err, sheetbridge.ErrUnavailable) {
			return nil, backoff.Permanent(err)
		}
		return rows, err
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("retrying range read", "range", a1Range, "wait", wait, "error", err)
	})
	if err != nil && sheetbridge.ClassifyKind(err) == nil {
		// backoff reports the bare context error when the deadline ends the retries.
		return nil, classify(a1Range, err)
	}
	return rows, err
}

func (r *Reader) read(ctx context.Context, a1Range string) ([]sheetbridge.Row, error) {
	// Wait fails early when the deadline would pass before a token frees up.
	if err := r.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("read range %s: rate limiter wait: %w", a1Range, err)
		}
		return nil, fmt.Errorf("read range %s: rate limiter wait: %w: %w", a1Range, sheetbridge.ErrTimeout, err)
	}

	resp, err := r.values.Get(r.spreadsheetID, a1Range).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(a1Range, err)
	}

	return toRows(resp.Values), nil
}

// toRows converts API values to text rows. FORMATTED_VALUE yields strings;
// anything else is rendered with fmt.Sprint so values still pass through.
func toRows(values [][]interface{}) []sheetbridge.Row {
	rows := make([]sheetbridge.Row, len(values))
	for i, vs := range values {
		row := make(sheetbridge.Row, len(vs))
		for j, v := range vs {
			switch tv := v.(type) {
			case nil:
				row[j] = ""
			case string:
				row[j] = tv
			default:
				row[j] = fmt.Sprint(tv)
			}
		}
		rows[i] = row
	}
	return rows
}

// classify wraps err with the sheetbridge failure kind it represents.
func classify(a1Range string, err error) error {
	kind := kindOf(err)
	if kind == nil {
		return fmt.Errorf("read range %s: %w", a1Range, err)
	}
	return fmt.Errorf("read range %s: %w: %w", a1Range, kind, err)
}

func kindOf(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return sheetbridge.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch {
		case gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden:
			return sheetbridge.ErrUnauthorized
		case gErr.Code == http.StatusBadRequest || gErr.Code == http.StatusNotFound:
			return sheetbridge.ErrInvalidRange
		case gErr.Code == http.StatusTooManyRequests || gErr.Code >= http.StatusInternalServerError:
			return sheetbridge.ErrUnavailable
		default:
			return nil
		}
	}

	// Token exchange failures (bad key, disabled account) surface as RetrieveError.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return sheetbridge.ErrUnauthorized
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return sheetbridge.ErrTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return sheetbridge.ErrUnavailable
	}

	return nil
}
