package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
)

// ErrSourceUnavailable signals that the external sheet could not be fetched
// or returned a malformed top-level structure. Callers fall back to the last
// good snapshot; they must never treat it as a per-row problem.
var ErrSourceUnavailable = errors.New("sheet source unavailable")

// Source is the fetch contract the refresh cycle depends on. The sheet
// behind it is an opaque collaborator; only the row shape is agreed.
type Source interface {
	Fetch(ctx context.Context) ([]domain.RawRow, error)
}

// Client fetches the published spreadsheet as CSV over HTTP.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a new sheet client. url is the CSV export endpoint of
// the spreadsheet; token may be empty for publicly published sheets.
func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the sheet and decodes it into raw rows in source order.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	rows, err := DecodeCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return rows, nil
}

// DecodeCSV reads a header row plus data rows into RawRow maps keyed by
// lower-cased, trimmed column names. A sheet with only a header (or nothing
// at all) decodes to zero rows, not an error.
func DecodeCSV(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}
