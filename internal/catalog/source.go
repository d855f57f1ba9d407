package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/micheltwotravel/bot-ventas/pkg/logging"
)

// Source loads the flat table of bookable offers. There is no write path.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
}

// SheetSource fetches a published Google Sheet as CSV over HTTP.
type SheetSource struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewSheetSource creates a catalog source reading from the given CSV URL.
func NewSheetSource(url string, logger *logging.Logger) *SheetSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &SheetSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Load downloads and decodes the catalog. Rows with a short field count are
// skipped rather than failing the load.
func (s *SheetSource) Load(ctx context.Context) ([]Entry, error) {
	if s.url == "" {
		s.logger.Warn("catalog: sheet URL not configured")
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: download: unexpected status %d", resp.StatusCode)
	}

	entries, err := decodeCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog: loaded", "rows", len(entries))
	return entries, nil
}

func decodeCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}
	for i := range header {
		header[i] = Normalize(header[i])
	}

	var entries []Entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read row: %w", err)
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		entries = append(entries, entryFromRecord(rec))
	}
	return entries, nil
}

// CachedSource wraps a Source with a short TTL cache so the ranker does not
// re-download the sheet on every request.
type CachedSource struct {
	inner Source
	ttl   time.Duration

	mu       sync.Mutex
	entries  []Entry
	loadedAt time.Time
}

// NewCachedSource wraps inner with the given TTL. A non-positive TTL
// disables caching.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, ttl: ttl}
}

// Load returns cached entries while fresh, refreshing from the inner source
// otherwise. A failed refresh falls back to the stale copy when one exists.
func (c *CachedSource) Load(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 && c.entries != nil && time.Since(c.loadedAt) < c.ttl {
		return c.entries, nil
	}

	entries, err := c.inner.Load(ctx)
	if err != nil {
		if c.entries != nil {
			return c.entries, nil
		}
		return nil, err
	}
	c.entries = entries
	c.loadedAt = time.Now()
	return entries, nil
}
