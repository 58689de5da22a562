package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/coffee-map/internal/adapter/source"
	"github.com/couchcryptid/coffee-map/internal/domain"
)

var errValidationFailed = errors.New("validation failed")

var validateNoGeocode bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the sheet for missing columns, bad coordinates and unresolved cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateNoGeocode {
			cfg.MapboxEnabled = false
		}
		a := newApp(cfg)
		defer a.close()

		ctx := cmd.Context()
		res, err := a.chain.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch sheet: %w", err)
		}
		records, _ := domain.MapRows(res.Rows)
		cities, err := a.resolver.ResolveAll(ctx, domain.CityNames(records))
		if err != nil {
			return fmt.Errorf("resolve cities: %w", err)
		}

		cached, err := a.store.Len(ctx)
		if err != nil {
			logger.Warn("city cache size unavailable", "error", err)
			cached = -1
		}

		phases := runPhases(res.Rows, records, cities)
		if !printReport(cmd.OutOrStdout(), res, len(records), cached, phases) {
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoGeocode, "no-geocode", false, "Resolve cities from the cache and built-in table only")
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runPhases(rows []domain.Row, records []domain.Record, cities domain.CityMap) []*phase {
	return []*phase{
		validateColumns(rows),
		validateCoordinates(rows),
		validateProcesses(records),
		validateCities(records, cities),
		validateIdentity(records),
	}
}

// printReport writes the phase table and details. cached < 0 means the city
// cache size is unknown.
func printReport(w io.Writer, res source.Result, records, cached int, phases []*phase) bool {
	fmt.Fprintln(w, "=== Coffee Sheet Validation ===")
	fmt.Fprintf(w, "Source: %s %s\n\n", res.Kind, res.Location)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d read, %d records, %d dropped\n", len(res.Rows), records, len(res.Rows)-records)
	if cached >= 0 {
		fmt.Fprintf(w, "City cache: %d entries\n", cached)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

// requiredColumns must match at least one header of the sheet.
var requiredColumns = []struct {
	name     string
	variants []string
}{
	{"timestamp", domain.HeaderTimestamp},
	{"uploader", domain.HeaderUploader},
	{"latitude", domain.HeaderLat},
	{"longitude", domain.HeaderLng},
	{"process", domain.HeaderProcess},
	{"roaster city", domain.HeaderRoasterCity},
	{"consumed city", domain.HeaderConsumedCity},
}

func validateColumns(rows []domain.Row) *phase {
	p := &phase{name: "Required columns"}
	if len(rows) == 0 {
		p.errorf("sheet has no rows")
		return p
	}
	// A row whose cells are its own header names reveals which variant
	// matched.
	header := rows[0].Header
	probe := domain.NewRow(header, header)
	for _, c := range requiredColumns {
		if probe.Pick(c.variants) == "" {
			p.errorf("no column for %s (accepted: %q)", c.name, c.variants)
		}
	}
	return p
}

// sheetLine is the spreadsheet line of a data row; line 1 is the header.
func sheetLine(i int) int { return i + 2 }

func validateCoordinates(rows []domain.Row) *phase {
	p := &phase{name: "Coordinates"}
	for i, row := range rows {
		lat, latOK := domain.ParseCoordinate(row.Pick(domain.HeaderLat))
		lng, lngOK := domain.ParseCoordinate(row.Pick(domain.HeaderLng))
		switch {
		case !latOK:
			p.errorf("line %d: latitude %q is not a number", sheetLine(i), row.Pick(domain.HeaderLat))
		case !lngOK:
			p.errorf("line %d: longitude %q is not a number", sheetLine(i), row.Pick(domain.HeaderLng))
		case math.Abs(lat) > 90:
			p.errorf("line %d: latitude %v out of range", sheetLine(i), lat)
		case math.Abs(lng) > 180:
			p.errorf("line %d: longitude %v out of range", sheetLine(i), lng)
		}
	}
	return p
}

func validateProcesses(records []domain.Record) *phase {
	p := &phase{name: "Process categories"}
	for _, rec := range records {
		if rec.Process != "" && rec.ProcessNorm == domain.ProcessOther {
			p.errorf("%s (%s): process %q matches no category", rec.Timestamp, rec.Uploader, rec.Process)
		}
	}
	return p
}

func validateCities(records []domain.Record, cities domain.CityMap) *phase {
	p := &phase{name: "Cities resolved"}
	for _, name := range domain.CityNames(records) {
		if _, ok := cities.Lookup(name); !ok {
			p.errorf("city %q has no coordinates", name)
		}
	}
	return p
}

func validateIdentity(records []domain.Record) *phase {
	p := &phase{name: "Unique record IDs"}
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		if prev, ok := seen[rec.ID]; ok {
			p.errorf("%s duplicates %s at (%v, %v)", rec.Timestamp, prev, rec.FarmLng5, rec.FarmLat5)
			continue
		}
		seen[rec.ID] = rec.Timestamp
	}
	return p
}
