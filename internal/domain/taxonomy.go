package domain

import (
	"regexp"
	"strings"
)

// Process is the normalized processing category of a coffee.
type Process string

const (
	ProcessWashed       Process = "washed"
	ProcessNatural      Process = "natural"
	ProcessHoney        Process = "honey"
	ProcessAnaerobic    Process = "anaerobic"
	ProcessExperimental Process = "experimental"
	ProcessOther        Process = "other"
)

// Processes lists every category in display order.
var Processes = []Process{
	ProcessWashed, ProcessNatural, ProcessHoney, ProcessAnaerobic, ProcessExperimental, ProcessOther,
}

// ParseProcess reports whether s names one of the fixed categories.
func ParseProcess(s string) (Process, bool) {
	for _, p := range Processes {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// rule is one step of an ordered classifier.
type rule[T any] struct {
	pattern *regexp.Regexp
	result  T
}

// processRules run against lower-cased text. Order matters: "Double
// Fermentation Anaerobic" must land in anaerobic, not experimental.
var processRules = []rule[Process]{
	{regexp.MustCompile(`honey|red honey|yellow honey|white honey|black honey`), ProcessHoney},
	{regexp.MustCompile(`anaer|carbonic|cm|термо|thermal|macerat|carbonique`), ProcessAnaerobic},
	{regexp.MustCompile(`wash|fully washed|wet|мыта|мытый|вымыт`), ProcessWashed},
	{regexp.MustCompile(`natur|dry|сух`), ProcessNatural},
	{regexp.MustCompile(`yeast|који|koji|enzym|фермент|co-?ferment|double|triple|wine|experiment`), ProcessExperimental},
}

// NormalizeProcess classifies free text into exactly one Process. Empty or
// unmatched text is ProcessOther. Applying it to its own output is a no-op.
func NormalizeProcess(raw string) Process {
	s := strings.ToLower(raw)
	if s == "" {
		return ProcessOther
	}
	return classify(processRules, s, ProcessOther)
}

func classify[T any](rules []rule[T], s string, fallback T) T {
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.result
		}
	}
	return fallback
}

// Canonical brew-method labels.
const (
	BrewEspresso    = "espresso"
	BrewV60         = "v60"
	BrewKalita      = "kalita"
	BrewAeropress   = "aeropress"
	BrewBatch       = "batch brew"
	BrewFrenchPress = "french press"
	BrewSyphon      = "syphon"
	BrewChemex      = "chemex"
	BrewColdBrew    = "cold brew"
	BrewIbrik       = "ibrik"
	BrewClever      = "clever"
)

var brewRules = []rule[string]{
	{regexp.MustCompile(`espresso|эспрессо|ristretto|доппио`), BrewEspresso},
	{regexp.MustCompile(`v\s?60`), BrewV60},
	{regexp.MustCompile(`kalita`), BrewKalita},
	{regexp.MustCompile(`aero|аэро|аэропресс`), BrewAeropress},
	{regexp.MustCompile(`batch`), BrewBatch},
	{regexp.MustCompile(`french\s?press|press\s?pot|френч|пресс-пот`), BrewFrenchPress},
	{regexp.MustCompile(`syphon|siphon|сифон`), BrewSyphon},
	{regexp.MustCompile(`chemex`), BrewChemex},
	{regexp.MustCompile(`cold\s?(brew|drip)|колд`), BrewColdBrew},
	{regexp.MustCompile(`turk|ibrik|джезв`), BrewIbrik},
	{regexp.MustCompile(`clever`), BrewClever},
}

// CanonicalBrewMethods returns every canonical label matching the text, in
// rule order. Text that matches no rule is returned as its own canonical
// key. Empty text yields nil.
func CanonicalBrewMethods(raw string) []string {
	key := CanonicalKey(raw)
	if key == "" {
		return nil
	}
	var out []string
	for _, r := range brewRules {
		if r.pattern.MatchString(key) {
			out = append(out, r.result)
		}
	}
	if len(out) == 0 {
		return []string{key}
	}
	return out
}

// CanonicalBrewMethod returns the first canonical label for the text.
func CanonicalBrewMethod(raw string) string {
	methods := CanonicalBrewMethods(raw)
	if len(methods) == 0 {
		return ""
	}
	return methods[0]
}

var (
	// homeRe marks a cup brewed at home.
	homeRe = regexp.MustCompile(`(?i)home|дом|house|дома`)

	carbonicRe = regexp.MustCompile(`carbonic|карбоник`)
)

// IsHome reports whether a "where consumed" answer means home.
func IsHome(whereConsumed string) bool {
	return whereConsumed != "" && homeRe.MatchString(whereConsumed)
}

// Palette holds the colors used for a process category.
type Palette struct {
	Point      string `json:"point,omitempty"`
	Background string `json:"bg"`
	Border     string `json:"br"`
	Text       string `json:"txt"`
}

var processPalettes = map[Process]Palette{
	ProcessWashed:       {Point: "#2e7d32", Background: "#d7f0df", Border: "#82b998", Text: "#205b3a"},
	ProcessNatural:      {Point: "#c0392b", Background: "#ffd9d2", Border: "#e59883", Text: "#7a1d12"},
	ProcessHoney:        {Point: "#c77f0a", Background: "#ffe9c6", Border: "#e9b86a", Text: "#6b4800"},
	ProcessAnaerobic:    {Point: "#6a3cbc", Background: "#e6d7ff", Border: "#b79de5", Text: "#3b2b6f"},
	ProcessExperimental: {Point: "#2c5aa0", Background: "#dde9f7", Border: "#9bb9e6", Text: "#1f3a63"},
}

var otherPalette = Palette{Point: "#777777", Background: "#eeeeee", Border: "#cccccc", Text: "#333333"}

// ProcessPalette returns the colors for a category; unknown values get the
// neutral palette.
func ProcessPalette(p Process) Palette {
	if c, ok := processPalettes[p]; ok {
		return c
	}
	return otherPalette
}

// ProcessColorExpression is the map-engine "match" expression that colors
// points by their process_norm property.
func ProcessColorExpression() []any {
	expr := []any{"match", []any{"get", "process_norm"}}
	for _, p := range Processes {
		if p == ProcessOther {
			continue
		}
		expr = append(expr, string(p), ProcessPalette(p).Point)
	}
	return append(expr, otherPalette.Point)
}
