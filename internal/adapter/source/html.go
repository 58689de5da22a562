package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

// HTMLTable reads a sheet published as a web page. The first table on the
// page is used; its first row of data cells is the header.
type HTMLTable struct {
	url    string
	client *http.Client
}

// NewHTMLTable creates a source for the published sheet page at url. A nil
// client uses http.DefaultClient.
func NewHTMLTable(url string, client *http.Client) *HTMLTable {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTMLTable{url: url, client: client}
}

func (s *HTMLTable) Kind() string     { return KindHTML }
func (s *HTMLTable) Location() string { return s.url }

func (s *HTMLTable) Fetch(ctx context.Context) ([]domain.Row, error) {
	body, err := get(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ParseHTMLTable(body)
}

// ParseHTMLTable extracts rows from the first table in an HTML document.
// Row-number <th> cells are ignored.
func ParseHTMLTable(r io.Reader) ([]domain.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no table found")
	}

	var header []string
	rows := []domain.Row{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})
		if blank(cells) {
			return
		}
		if header == nil {
			header = cells
			return
		}
		rows = append(rows, domain.NewRow(header, cells))
	})
	if header == nil {
		return nil, errors.New("table has no header row")
	}
	return rows, nil
}
