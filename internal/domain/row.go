package domain

import (
	"slices"
	"strings"
)

// Accepted header variants per logical field, in priority order.
var (
	HeaderTimestamp       = []string{"Timestamp"}
	HeaderEmail           = []string{"Email Address"}
	HeaderUploader        = []string{"Uploader"}
	HeaderOriginCountry   = []string{"Origin country"}
	HeaderOriginRegion    = []string{"Origin region"}
	HeaderFarmName        = []string{"Farm name"}
	HeaderProcess         = []string{"Process"}
	HeaderBrewMethod      = []string{"Brew method"}
	HeaderWhereConsumed   = []string{"Where consumed"}
	HeaderCafeName        = []string{"Cafe name"}
	HeaderCafeURL         = []string{"Cafe URL"}
	HeaderConsumedCity    = []string{"Consumed city", "Consumed city "}
	HeaderConsumedAddr    = []string{"Consumed address"}
	HeaderRecipe          = []string{"Recipe"}
	HeaderRoasterName     = []string{"Roaster name"}
	HeaderRoasterCity     = []string{"Roaster city"}
	HeaderFileUpload      = []string{"File upload", "File upload "}
	HeaderLat             = []string{"Latitude (lat)", "Latitude"}
	HeaderLng             = []string{"Longitude (lng)", "Longitude"}
	HeaderPhotoURL        = []string{"Photo (URL)"}
	HeaderGeocodeSource   = []string{"Geocode source"}
	HeaderGeocodeAccuracy = []string{"Geocode accuracy"}
	HeaderMatchedName     = []string{"Matched name"}
	HeaderCountryISO2     = []string{"Country ISO2"}
	HeaderFlagEmoji       = []string{"Flag emoji"}
)

// Row is one spreadsheet row keyed by column name. Header keeps the column
// order of the source so prefix matching is deterministic.
type Row struct {
	Header []string
	Values map[string]string
}

// NewRow zips a header with a row of cells. Missing trailing cells read as
// empty; surplus cells are ignored. A repeated column name keeps its last
// value.
func NewRow(header, cells []string) Row {
	values := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(cells) {
			values[h] = cells[i]
		} else {
			values[h] = ""
		}
	}
	return Row{Header: header, Values: values}
}

// RowFromMap builds a row from a plain map. Keys are ordered
// lexicographically since maps carry no column order.
func RowFromMap(m map[string]string) Row {
	header := make([]string, 0, len(m))
	for k := range m {
		header = append(header, k)
	}
	slices.Sort(header)
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Row{Header: header, Values: values}
}

// Pick returns the first non-empty value for a logical field, trying in
// order:
//
//  1. an exact column name from variants;
//  2. a column whose normalized name equals a normalized variant;
//  3. a column whose normalized name starts with a normalized variant.
//
// Normalization lower-cases, collapses whitespace and trims. Pick returns ""
// when nothing matches.
func (r Row) Pick(variants []string) string {
	for _, k := range variants {
		if v, ok := r.Values[k]; ok && v != "" {
			return v
		}
	}

	keys, normalized := r.normalized()
	for _, cand := range variants {
		if v := normalized[normKey(cand)]; v != "" {
			return v
		}
	}
	for _, cand := range variants {
		nc := normKey(cand)
		if nc == "" {
			continue
		}
		for _, key := range keys {
			if strings.HasPrefix(key, nc) && normalized[key] != "" {
				return normalized[key]
			}
		}
	}
	return ""
}

// normalized returns the distinct normalized column names in header order
// and the value for each. When two columns normalize to the same name the
// later column's value wins.
func (r Row) normalized() ([]string, map[string]string) {
	keys := make([]string, 0, len(r.Header))
	values := make(map[string]string, len(r.Header))
	for _, h := range r.Header {
		k := normKey(h)
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = r.Values[h]
	}
	return keys, values
}

func normKey(s string) string {
	return CanonicalKey(s)
}
