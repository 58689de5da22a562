package textimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/coffee-map/internal/config"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Fields
	}{
		{
			name: "labelled english label",
			text: "Roaster: Stamba\nCoffee: Hambela Alaka\nOrigin: Ethiopia, Guji\nProducer: Alaka\nProcess: Washed\nNotes: jasmine, peach",
			want: Fields{
				CoffeeName:  "Hambela Alaka",
				RoasterName: "Stamba",
				Country:     "Ethiopia",
				Region:      "Guji",
				Farm:        "Alaka",
				Process:     "Washed",
				Notes:       "jasmine, peach",
			},
		},
		{
			name: "unlabelled russian label",
			text: "Tasty Coffee\nКолумбия / Уила\nнатуральная обработка\nэспрессо\nшоколад и орех",
			want: Fields{
				CoffeeName: "Tasty Coffee",
				Country:    "Colombia",
				Region:     "Уила",
				Process:    "Natural",
				BrewMethod: "эспрессо",
				Notes:      "шоколад и орех",
			},
		},
		{
			name: "empty",
			text: "  \n\n",
			want: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFields(tt.text))
		})
	}
}

func TestNormalizeOCR(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"label value on next line", "Roaster:\n  Stamba", "Roaster: Stamba"},
		{"crlf", "a\r\nb", "a\nb"},
		{"zero inside cyrillic word", "Эфи0пия", "Эфиопия"},
		{"three at word start", "3ерно", "зерно"},
		{"one inside cyrillic word", "ме1ьница", "мельница"},
		{"dashes and quotes", "«Alaka» — Guji", `"Alaka" - Guji`},
		{"ukrainian letters", "Кен\u0456я", "Кения"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeOCR(tt.in))
		})
	}
}

func TestSplitOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want origin
	}{
		{"Ethiopia, Yirgacheffe region, Konga washing station", origin{country: "Ethiopia", region: "Yirgacheffe", farm: "Konga"}},
		{"Колумбия / Уила", origin{country: "Colombia", region: "Уила"}},
		{"Kenya", origin{country: "Kenya"}},
		{"", origin{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigin(tt.in))
		})
	}
}

func TestNewEntries_Continuation(t *testing.T) {
	entries := newEntries([]string{"Region -", "Guji", "Process: Honey"})
	require.Len(t, entries, 3)

	assert.Equal(t, "Region", entries[0].label)
	assert.Equal(t, "Guji", entries[0].value)
	assert.Equal(t, 1, entries[0].valueIndex)
	assert.True(t, entries[1].continuation)
	assert.True(t, entries[2].hasProcess)
	assert.Equal(t, "Honey", entries[2].process)
}

func TestDetectors(t *testing.T) {
	assert.Equal(t, "Honey", detectProcess("Red Honey"))
	assert.Equal(t, "Anaerobic", detectProcess("Carbonic maceration"))
	assert.Equal(t, "Washed", detectProcess("Fully washed"))
	assert.Equal(t, "Natural", detectProcess("натуральная"))
	assert.Equal(t, "Experimental", detectProcess("Double fermentation"))
	assert.Empty(t, detectProcess("Stamba"))

	assert.Equal(t, "V60", detectBrewMethod("brewed in a V60"))
	assert.Equal(t, "French press", detectBrewMethod("French   press"))
	assert.Empty(t, detectBrewMethod("jasmine"))
}

func TestBuildPrefillURL(t *testing.T) {
	cfg := config.Prefill{
		Enabled:     true,
		BaseURL:     "https://docs.google.com/forms/d/e/form-id/viewform",
		EntryMap:    map[string]string{"coffeeName": "entry.1", "country": "entry.2", "notes": ""},
		ExtraParams: map[string]string{"usp": "pp_url"},
	}
	f := Fields{CoffeeName: "Alaka", Country: "Ethiopia", Notes: "unmapped"}

	assert.Equal(t,
		"https://docs.google.com/forms/d/e/form-id/viewform?entry.1=Alaka&entry.2=Ethiopia&usp=pp_url",
		BuildPrefillURL(f, cfg))

	bare := config.Prefill{Enabled: true, BaseURL: cfg.BaseURL}
	assert.Equal(t, cfg.BaseURL, BuildPrefillURL(Fields{}, bare))

	cfg.Enabled = false
	assert.Empty(t, BuildPrefillURL(f, cfg))
}

func TestSummary(t *testing.T) {
	f := Fields{CoffeeName: "Alaka", Notes: "peach", RawText: "raw"}
	assert.Equal(t, "Название кофе: Alaka\nЗаметки: peach\n\nРаспознанный текст:\nraw", Summary(f))
	assert.Empty(t, Summary(Fields{}))
}
