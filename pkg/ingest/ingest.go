// Package ingest fetches spreadsheet-backed resources and parses them into
// row-oriented tables with named columns.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"deskhub/pkg/model"
)

// DefaultTimeout bounds a single table fetch. There is no retry; a failed
// fetch degrades to "no data" at the caller.
const DefaultTimeout = 10 * time.Second

// sheetIDPattern matches the long opaque document identifier embedded in a
// spreadsheet's human-facing edit URL.
var sheetIDPattern = regexp.MustCompile(`[A-Za-z0-9_-]{25,}`)

// Client fetches delimiter-separated tables over HTTP.
type Client struct {
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a table fetch client. A nil logger is replaced with a
// no-op logger.
func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http: &http.Client{Timeout: DefaultTimeout},
		log:  log,
	}
}

// ExportURL rewrites a user-supplied spreadsheet locator to its canonical
// CSV export form by extracting the document identifier from anywhere in the
// string. When no identifier is found the original locator is returned
// verbatim so that plain CSV links keep working.
func ExportURL(raw string) string {
	id := sheetIDPattern.FindString(raw)
	if id == "" {
		return raw
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", id)
}

// FetchTable retrieves the resource at rawURL and parses it as a table.
// token, when non-empty, is sent as a bearer credential.
func (c *Client) FetchTable(ctx context.Context, rawURL, token string) (*model.Table, error) {
	exportURL := ExportURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build table request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("table fetch failed", zap.String("url", exportURL), zap.Error(err))
		return nil, fmt.Errorf("fetch table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("table fetch returned non-success status",
			zap.String("url", exportURL), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("fetch table: unexpected status %s", resp.Status)
	}

	table, err := ParseCSV(resp.Body)
	if err != nil {
		c.log.Warn("table parse failed", zap.String("url", exportURL), zap.Error(err))
		return nil, fmt.Errorf("parse table: %w", err)
	}
	return table, nil
}

// ParseCSV parses delimiter-separated text with a header row into a Table.
// Header names are trimmed of surrounding whitespace, blank lines are
// skipped, and short rows are padded so every row maps every column.
func ParseCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return &model.Table{}, nil
	}

	header := records[0]
	columns := make([]string, 0, len(header))
	for _, h := range header {
		columns = append(columns, strings.TrimSpace(h))
	}

	table := &model.Table{Columns: columns}
	for _, record := range records[1:] {
		if recordEmpty(record) {
			continue
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func recordEmpty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
