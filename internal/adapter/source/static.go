package source

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

// staticCSV is a small demo sheet served when nothing else can be read.
//
//go:embed static.csv
var staticCSV []byte

// Static serves the bundled demo sheet.
type Static struct{}

// NewStatic returns the bundled sheet source.
func NewStatic() Static { return Static{} }

func (Static) Kind() string     { return KindStatic }
func (Static) Location() string { return "embedded" }

func (Static) Fetch(_ context.Context) ([]domain.Row, error) {
	return ParseCSV(bytes.NewReader(staticCSV))
}
