package textimport

import (
	"regexp"
	"strings"
)

var (
	spaceRe          = regexp.MustCompile(`\s+`)
	doubleSpaceRe    = regexp.MustCompile(`[ \t]{2,}`)
	labelBreakRe     = regexp.MustCompile(`([:;])\s*\n\s*`)
	leadingPunctRe   = regexp.MustCompile(`^[:\-\s]+`)
	cyrillicThreeRe1 = regexp.MustCompile(`(?i)(^|[^0-9a-zа-яё])3([а-яё])`)
	cyrillicThreeRe2 = regexp.MustCompile(`(?i)([а-яё])3([^а-яё]|$)`)
	cyrillicZeroRe   = regexp.MustCompile(`(?i)([а-яё])[0o]([а-яё])`)
	cyrillicOneRe    = regexp.MustCompile(`(?i)([а-яё])1([а-яё])`)
)

// ocrReplacer folds typographic quotes and dashes, and Ukrainian letters that
// OCR returns for Russian text.
var ocrReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "´", "'", "`", "'",
	"“", `"`, "”", `"`, "«", `"`, "»", `"`,
	"–", "-", "—", "-",
	"і", "и", "ї", "и", "є", "е", "ґ", "г", "ӏ", "л",
)

// normalizeSpace collapses whitespace runs and trims.
func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// normalizeOCR cleans raw recognizer output: unified newlines, labels joined
// with values broken onto the next line, and digits misread inside Cyrillic
// words restored to letters.
func normalizeOCR(raw string) string {
	if raw == "" {
		return ""
	}
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = labelBreakRe.ReplaceAllString(text, "$1 ")
	text = ocrReplacer.Replace(text)

	text = cyrillicThreeRe1.ReplaceAllString(text, "${1}з${2}")
	text = cyrillicThreeRe2.ReplaceAllString(text, "${1}з${2}")
	text = cyrillicZeroRe.ReplaceAllString(text, "${1}о${2}")
	text = cyrillicOneRe.ReplaceAllString(text, "${1}л${2}")
	text = doubleSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitLines returns the non-blank trimmed lines of normalized text.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// cleanKeywordValue strips the keyword and any leading punctuation, falling
// back to the whole value when nothing is left.
func cleanKeywordValue(value string, keyword *regexp.Regexp) string {
	normalized := normalizeSpace(value)
	if normalized == "" {
		return ""
	}
	cleaned := normalizeSpace(leadingPunctRe.ReplaceAllString(keyword.ReplaceAllString(normalized, ""), ""))
	if cleaned == "" {
		return normalized
	}
	return cleaned
}
