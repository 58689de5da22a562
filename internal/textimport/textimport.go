// Package textimport extracts tasting form fields from text recognized on a
// coffee bag label and renders them as a form prefill link.
package textimport

import (
	"regexp"
	"strings"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

// Fields are the form values guessed from one label.
type Fields struct {
	CoffeeName  string `json:"coffeeName"`
	RoasterName string `json:"roasterName"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	Farm        string `json:"farm"`
	Process     string `json:"process"`
	BrewMethod  string `json:"brewMethod"`
	Notes       string `json:"notes"`
	RawText     string `json:"rawText,omitempty"`
}

// Get returns a field by its form key.
func (f Fields) Get(key string) string {
	switch key {
	case "coffeeName":
		return f.CoffeeName
	case "roasterName":
		return f.RoasterName
	case "country":
		return f.Country
	case "region":
		return f.Region
	case "farm":
		return f.Farm
	case "process":
		return f.Process
	case "brewMethod":
		return f.BrewMethod
	case "notes":
		return f.Notes
	case "rawText":
		return f.RawText
	}
	return ""
}

var (
	labelLineRe   = regexp.MustCompile(`^\s*([^:\x{2013}\x{2014}-]+?)\s*[:\x{2013}\x{2014}-]\s*(.*)$`)
	labelPrefixRe = regexp.MustCompile(`^\s*[^:\x{2013}\x{2014}-]{1,60}\s*[:\x{2013}\x{2014}-]`)

	processLabel = regexp.MustCompile(`process|обработ|method|метод`)
	brewLabel    = regexp.MustCompile(`brew|завар|способ|method`)
	notesLabel   = regexp.MustCompile(`notes|вкус|flavor|tasting|profile`)
	roasterLabel = regexp.MustCompile(`roaster|roastery|обжар|rost|ростер`)
	coffeeLabel  = regexp.MustCompile(`coffee|название|lot|blend|кофе|сорт`)
)

var processHints = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`honey|медов`), "Honey"},
	{regexp.MustCompile(`anaer|carbonic|мц|фермент|који|koji|wine|macera`), "Anaerobic"},
	{regexp.MustCompile(`wash|мыта|мытый|вымыт|wet`), "Washed"},
	{regexp.MustCompile(`natur|dry|натурал|сух`), "Natural"},
	{regexp.MustCompile(`experimental|ferment|double|triple|enzym`), "Experimental"},
}

var brewPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)espresso|эспрессо`),
	regexp.MustCompile(`(?i)v60|kalita|chemex|пуровер|pour\s*over|filter`),
	regexp.MustCompile(`(?i)aeropress|аэропресс`),
	regexp.MustCompile(`(?i)french\s*press|френч\s*пресс`),
	regexp.MustCompile(`(?i)turk|турк|джезв|ibrik|cezve`),
	regexp.MustCompile(`(?i)moka|мока|гейзер`),
	regexp.MustCompile(`(?i)cold\s*brew|колд\s*брю`),
	regexp.MustCompile(`(?i)batch\s*brew|batchbrew|брювер`),
	regexp.MustCompile(`(?i)capsule|капсул`),
}

func detectProcess(line string) string {
	lowered := strings.ToLower(line)
	for _, h := range processHints {
		if h.re.MatchString(lowered) {
			return h.name
		}
	}
	return ""
}

func detectBrewMethod(line string) string {
	for _, re := range brewPatterns {
		if m := re.FindString(line); m != "" {
			return normalizeSpace(m)
		}
	}
	return ""
}

// entry is one label line, split into "label: value" when it has that shape.
type entry struct {
	index      int
	normalized string
	label      string
	lowerLabel string
	value      string
	valueIndex int

	fromValue origin
	fromLine  origin
	process   string
	brew      string

	hasProcess bool
	hasBrew    bool
	hasNotes   bool
	hasRoaster bool
	hasCoffee  bool

	continuation bool
}

func (e *entry) origin() origin {
	return origin{
		country: firstNonEmpty(e.fromValue.country, e.fromLine.country),
		region:  firstNonEmpty(e.fromValue.region, e.fromLine.region),
		farm:    firstNonEmpty(e.fromValue.farm, e.fromLine.farm),
	}
}

func (e *entry) markUsed(used map[int]bool) {
	used[e.index] = true
	used[e.valueIndex] = true
}

// newEntries splits each line into label and value. A label with no value
// borrows the next line unless that line is itself labelled.
func newEntries(lines []string) []*entry {
	entries := make([]*entry, len(lines))
	continuations := make(map[int]bool)
	for i, raw := range lines {
		e := &entry{index: i, normalized: normalizeSpace(raw), valueIndex: i}
		e.value = e.normalized
		if m := labelLineRe.FindStringSubmatch(raw); m != nil {
			e.label = normalizeSpace(m[1])
			e.value = normalizeSpace(m[2])
			if e.value == "" && i+1 < len(lines) {
				next := normalizeSpace(lines[i+1])
				if next != "" && !labelPrefixRe.MatchString(lines[i+1]) {
					e.value = next
					e.valueIndex = i + 1
					continuations[i+1] = true
				}
			}
		}
		e.lowerLabel = strings.ToLower(e.label)
		e.fromValue = splitOrigin(e.value)
		e.fromLine = splitOrigin(e.normalized)
		e.process = detectProcess(e.normalized)
		e.brew = detectBrewMethod(e.normalized)
		e.hasProcess = processLabel.MatchString(e.lowerLabel)
		e.hasBrew = brewLabel.MatchString(e.lowerLabel)
		e.hasNotes = notesLabel.MatchString(e.lowerLabel)
		e.hasRoaster = roasterLabel.MatchString(e.lowerLabel)
		e.hasCoffee = coffeeLabel.MatchString(e.lowerLabel)
		entries[i] = e
	}
	for _, e := range entries {
		e.continuation = continuations[e.index]
	}
	return entries
}

// ParseFields guesses form fields from recognized label text. Labelled lines
// are matched first, origin lines are scored, and unused lines fill the notes
// (last line) and coffee and roaster names (first lines).
func ParseFields(text string) Fields {
	lines := splitLines(normalizeOCR(text))
	entries := newEntries(lines)
	used := make(map[int]bool)
	var f Fields

	for _, e := range entries {
		if e.continuation || e.value == "" {
			continue
		}
		if applyLabelled(e, &f) {
			e.markUsed(used)
		}
	}

	applyOriginAnalysis(entries, &f, used)

	if f.Process == "" {
		for _, e := range entries {
			if !e.continuation && e.process != "" {
				f.Process = e.process
				e.markUsed(used)
				break
			}
		}
	}
	if f.BrewMethod == "" {
		for _, e := range entries {
			if !e.continuation && e.brew != "" {
				f.BrewMethod = e.brew
				if e.hasBrew {
					f.BrewMethod = e.value
				}
				e.markUsed(used)
				break
			}
		}
	}

	o := dedupeOrigin(origin{country: f.Country, region: f.Region, farm: f.Farm})
	f.Country, f.Region, f.Farm = o.country, o.region, o.farm

	if f.Notes == "" {
		f.Notes = takeUnused(lines, used, true)
	}
	if f.CoffeeName == "" {
		f.CoffeeName = takeUnused(lines, used, false)
	}
	if f.RoasterName == "" {
		for _, e := range entries {
			if !e.continuation && e.hasRoaster && e.value != "" {
				f.RoasterName = e.value
				e.markUsed(used)
				break
			}
		}
	}
	if f.RoasterName == "" {
		f.RoasterName = takeUnused(lines, used, false)
	}
	return f
}

// applyLabelled assigns a value by its label keyword. It reports whether the
// entry was consumed.
func applyLabelled(e *entry, f *Fields) bool {
	if originLabel.MatchString(e.lowerLabel) {
		combined := e.origin()
		f.Country = firstNonEmpty(f.Country, combined.country)
		f.Region = firstNonEmpty(f.Region, combined.region)
		f.Farm = firstNonEmpty(f.Farm, combined.farm)
		if combined.empty() && f.Country == "" {
			f.Country = firstNonEmpty(domain.DetectCountryName(e.value), domain.DetectCountryName(e.normalized))
		}
		return true
	}

	if f.Region == "" && e.label != "" && regionKeywords.MatchString(e.label) {
		if v := cleanKeywordValue(e.value, regionKeywords); v != "" {
			f.Region = v
			return true
		}
	}
	if f.Farm == "" && e.label != "" && farmKeywords.MatchString(e.label) {
		if v := cleanKeywordValue(e.value, farmKeywords); v != "" && !varietyKeywords.MatchString(v) {
			f.Farm = v
			return true
		}
	}

	switch {
	case f.RoasterName == "" && e.hasRoaster:
		f.RoasterName = e.value
	case f.Process == "" && e.hasProcess:
		f.Process = firstNonEmpty(e.process, e.value)
	case f.BrewMethod == "" && e.hasBrew:
		f.BrewMethod = firstNonEmpty(e.brew, e.value)
	case f.Notes == "" && e.hasNotes:
		f.Notes = e.value
	case f.CoffeeName == "" && e.hasCoffee:
		f.CoffeeName = e.value
	default:
		return false
	}
	return true
}

// takeUnused claims the first unused line, or the last when fromEnd is set.
func takeUnused(lines []string, used map[int]bool, fromEnd bool) string {
	for k := range lines {
		i := k
		if fromEnd {
			i = len(lines) - 1 - k
		}
		if used[i] {
			continue
		}
		if candidate := normalizeSpace(lines[i]); candidate != "" {
			used[i] = true
			return candidate
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
