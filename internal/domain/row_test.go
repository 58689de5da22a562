package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowPick(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		cells    []string
		variants []string
		want     string
	}{
		{
			name:     "exact match",
			header:   []string{"Latitude (lat)"},
			cells:    []string{"41.7"},
			variants: HeaderLat,
			want:     "41.7",
		},
		{
			name:     "second variant when first absent",
			header:   []string{"Latitude"},
			cells:    []string{"41.7"},
			variants: HeaderLat,
			want:     "41.7",
		},
		{
			name:     "first variant wins over second",
			header:   []string{"Latitude", "Latitude (lat)"},
			cells:    []string{"1", "2"},
			variants: HeaderLat,
			want:     "2",
		},
		{
			name:     "empty exact value falls through to next variant",
			header:   []string{"Latitude (lat)", "Latitude"},
			cells:    []string{"", "3"},
			variants: HeaderLat,
			want:     "3",
		},
		{
			name:     "case and whitespace drift",
			header:   []string{"  roaster   CITY "},
			cells:    []string{"Berlin"},
			variants: HeaderRoasterCity,
			want:     "Berlin",
		},
		{
			name:     "prefix match on renamed column",
			header:   []string{"Timestamp", "Roaster city (where roasted)"},
			cells:    []string{"x", "Tbilisi"},
			variants: HeaderRoasterCity,
			want:     "Tbilisi",
		},
		{
			name:     "prefix match follows header order",
			header:   []string{"Process notes", "Process detail"},
			cells:    []string{"first", "second"},
			variants: HeaderProcess,
			want:     "first",
		},
		{
			name:     "prefix skips empty values",
			header:   []string{"Process notes", "Process detail"},
			cells:    []string{"", "second"},
			variants: HeaderProcess,
			want:     "second",
		},
		{
			name:     "nothing matches",
			header:   []string{"Something"},
			cells:    []string{"x"},
			variants: HeaderRecipe,
			want:     "",
		},
		{
			name:     "missing trailing cell reads empty",
			header:   []string{"Recipe"},
			cells:    nil,
			variants: HeaderRecipe,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewRow(tt.header, tt.cells)
			assert.Equal(t, tt.want, row.Pick(tt.variants))
		})
	}
}

func TestRowPick_HeaderPermutations(t *testing.T) {
	// Every ordering of the same synthetic columns resolves the same field.
	columns := []string{"Latitude", "Longitude", "uploader ", "CONSUMED CITY"}
	values := map[string]string{
		"Latitude":      "1",
		"Longitude":     "2",
		"uploader ":     "anna",
		"CONSUMED CITY": "Rome",
	}

	permute(columns, func(header []string) {
		cells := make([]string, len(header))
		for i, h := range header {
			cells[i] = values[h]
		}
		row := NewRow(header, cells)
		assert.Equal(t, "1", row.Pick(HeaderLat), header)
		assert.Equal(t, "2", row.Pick(HeaderLng), header)
		assert.Equal(t, "anna", row.Pick(HeaderUploader), header)
		assert.Equal(t, "Rome", row.Pick(HeaderConsumedCity), header)
	})
}

func TestRowFromMap(t *testing.T) {
	row := RowFromMap(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, row.Header)
	assert.Equal(t, "2", row.Pick([]string{"B"}))
}

func permute(items []string, visit func([]string)) {
	var rec func(int)
	buf := append([]string(nil), items...)
	rec = func(k int) {
		if k == len(buf) {
			visit(append([]string(nil), buf...))
			return
		}
		for i := k; i < len(buf); i++ {
			buf[k], buf[i] = buf[i], buf[k]
			rec(k + 1)
			buf[k], buf[i] = buf[i], buf[k]
		}
	}
	rec(0)
}
