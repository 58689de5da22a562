package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a header row and the data rows beneath it. Rows whose cells
// are all blank are skipped; short rows read missing cells as empty.
func ParseCSV(r io.Reader) ([]domain.Row, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows := []domain.Row{}
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		if blank(cells) {
			continue
		}
		rows = append(rows, domain.NewRow(header, cells))
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// HTTPCSV downloads a CSV export, such as a published spreadsheet.
type HTTPCSV struct {
	url    string
	client *http.Client
}

// NewHTTPCSV creates a CSV source for url. A nil client uses
// http.DefaultClient.
func NewHTTPCSV(url string, client *http.Client) *HTTPCSV {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPCSV{url: url, client: client}
}

func (s *HTTPCSV) Kind() string     { return KindCSV }
func (s *HTTPCSV) Location() string { return s.url }

func (s *HTTPCSV) Fetch(ctx context.Context) ([]domain.Row, error) {
	body, err := get(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	br := bufio.NewReader(body)
	// A sign-in or error page comes back as HTML with a 200.
	if lead, _ := br.Peek(64); looksLikeHTML(lead) {
		return nil, errors.New("response is an HTML page, not CSV")
	}
	return ParseCSV(br)
}

func looksLikeHTML(lead []byte) bool {
	s := strings.ToLower(strings.TrimSpace(string(lead)))
	return strings.HasPrefix(s, "<!doctype html") || strings.HasPrefix(s, "<html")
}

// FileCSV reads a CSV file from disk.
type FileCSV struct {
	path string
}

// NewFileCSV creates a source reading the CSV file at path.
func NewFileCSV(path string) *FileCSV {
	return &FileCSV{path: path}
}

func (s *FileCSV) Kind() string     { return KindFile }
func (s *FileCSV) Location() string { return s.path }

func (s *FileCSV) Fetch(_ context.Context) ([]domain.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
