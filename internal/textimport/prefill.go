package textimport

import (
	"net/url"
	"strings"

	"github.com/couchcryptid/coffee-map/internal/config"
)

// fieldLabels are the form labels, in form order.
var fieldLabels = []struct {
	key   string
	label string
}{
	{"coffeeName", "Название кофе"},
	{"roasterName", "Ростер"},
	{"country", "Страна"},
	{"region", "Регион"},
	{"farm", "Ферма / кооператив"},
	{"process", "Обработка"},
	{"brewMethod", "Метод заваривания"},
	{"notes", "Заметки"},
}

// BuildPrefillURL renders a form link carrying the non-empty fields. It
// returns "" when prefill is disabled or has no base URL.
func BuildPrefillURL(f Fields, cfg config.Prefill) string {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return ""
	}
	params := url.Values{}
	for k, v := range cfg.ExtraParams {
		params.Set(k, v)
	}
	for field, entryID := range cfg.EntryMap {
		if entryID == "" {
			continue
		}
		if v := f.Get(field); v != "" {
			params.Add(entryID, v)
		}
	}
	if len(params) == 0 {
		return cfg.BaseURL
	}
	return cfg.BaseURL + "?" + params.Encode()
}

// Summary formats the fields as labelled lines for pasting, followed by the
// recognized text.
func Summary(f Fields) string {
	var parts []string
	for _, l := range fieldLabels {
		if v := f.Get(l.key); v != "" {
			parts = append(parts, l.label+": "+v)
		}
	}
	if f.RawText != "" {
		parts = append(parts, "", "Распознанный текст:", f.RawText)
	}
	return strings.Join(parts, "\n")
}
