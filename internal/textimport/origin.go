package textimport

import (
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

var (
	regionKeywords  = regexp.MustCompile(`(?i)region|регион|province|провинц|county|округ|area|зона|district|дистрикт|state|штат|терруар|terroir|valley|долин`)
	farmKeywords    = regexp.MustCompile(`(?i)farm|estate|mill|station|washing|producer|cooperativ|coop|кооперат|ферм|станц|милл|хасиенд|finca|beneficio`)
	varietyKeywords = regexp.MustCompile(`(?i)sl\s*-?\d+|bourbon|бурбон|caturra|катур|typica|типик|heirloom|gesha|geisha|гейш|кастильо|catuai|катуаи|pacas|pacamara|maragogype|марагоджип|рубика|ruiru|batian|руиру|кофе\s*арабика`)
	originLabel     = regexp.MustCompile(`origin|country|страна`)
	originSplitRe   = regexp.MustCompile(`[,;/\x{2022}]|\s+-\s+`)
	listLikeRe      = regexp.MustCompile(`[,;/]`)
)

// origin is a country, region and farm guessed from one piece of text.
type origin struct {
	country string
	region  string
	farm    string
}

func (o origin) empty() bool {
	return o.country == "" && o.region == "" && o.farm == ""
}

func (o origin) field(name string) string {
	switch name {
	case "country":
		return o.country
	case "region":
		return o.region
	default:
		return o.farm
	}
}

func sameText(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// splitOrigin reads a value such as "Ethiopia, Guji, Hambela washing
// station" into its parts.
func splitOrigin(value string) origin {
	normalized := normalizeSpace(value)
	if normalized == "" {
		return origin{}
	}

	country := domain.DetectCountryName(normalized)
	var tokens []string
	for _, part := range originSplitRe.Split(normalized, -1) {
		token := normalizeSpace(part)
		if token == "" {
			continue
		}
		tokenCountry := domain.DetectCountryName(token)
		if country == "" && tokenCountry != "" {
			country = tokenCountry
			continue
		}
		if country != "" && tokenCountry == country {
			continue
		}
		tokens = append(tokens, token)
	}

	var o origin
	o.country = country
	for _, token := range tokens {
		if regionKeywords.MatchString(token) {
			o.region = cleanKeywordValue(token, regionKeywords)
			break
		}
	}
	if o.region == "" {
		for _, token := range tokens {
			if detectProcess(token) == "" && !farmKeywords.MatchString(token) && !varietyKeywords.MatchString(token) {
				o.region = token
				break
			}
		}
	}

	for _, token := range tokens {
		if farmKeywords.MatchString(token) {
			o.farm = cleanKeywordValue(token, farmKeywords)
			break
		}
	}
	if o.farm == "" && len(tokens) > 1 {
		for _, token := range tokens {
			if token != o.region && detectProcess(token) == "" && !varietyKeywords.MatchString(token) {
				o.farm = token
				break
			}
		}
	}

	return dedupeOrigin(o)
}

// dedupeOrigin clears a region equal to the country and a farm that repeats
// the region or names the country.
func dedupeOrigin(o origin) origin {
	if sameText(o.region, o.country) {
		o.region = ""
	}
	if sameText(o.farm, o.region) {
		o.farm = ""
	}
	if o.farm != "" && o.country != "" && domain.DetectCountryName(o.farm) == o.country {
		o.farm = ""
	}
	return o
}

// acceptFarm reports whether a farm candidate is neither the region, the
// country, nor a coffee variety.
func acceptFarm(candidate string, f *Fields) bool {
	if sameText(candidate, f.Region) {
		return false
	}
	if f.Country != "" && domain.DetectCountryName(candidate) == f.Country {
		return false
	}
	return !varietyKeywords.MatchString(candidate)
}

type originCandidate struct {
	entry    *entry
	combined origin
	score    float64
}

// applyOriginAnalysis fills the origin fields from the best-scoring lines,
// then falls back to a per-field search.
func applyOriginAnalysis(entries []*entry, f *Fields, used map[int]bool) {
	var candidates []originCandidate
	for _, e := range entries {
		if e.continuation {
			continue
		}
		combined := e.origin()
		if combined.empty() {
			continue
		}
		score := 0.0
		if originLabel.MatchString(e.lowerLabel) {
			score += 5
		}
		if regionKeywords.MatchString(e.label) {
			score += 3
		}
		if farmKeywords.MatchString(e.label) {
			score += 3
		}
		if combined.country != "" {
			score += 3
		}
		if combined.region != "" {
			score += 2
		}
		if combined.farm != "" {
			score += 2
		}
		if listLikeRe.MatchString(e.value) {
			score++
		}
		score += float64(max(0, 3-e.index)) * 0.5
		candidates = append(candidates, originCandidate{entry: e, combined: combined, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	for _, c := range candidates {
		updated := false
		if f.Country == "" && c.combined.country != "" {
			f.Country = c.combined.country
			updated = true
		}
		if f.Region == "" && c.combined.region != "" && !sameText(c.combined.region, f.Country) {
			f.Region = c.combined.region
			updated = true
		}
		if f.Farm == "" && c.combined.farm != "" && acceptFarm(c.combined.farm, f) {
			f.Farm = c.combined.farm
			updated = true
		}
		if updated {
			c.entry.markUsed(used)
		}
	}

	targets := []struct {
		field string
		dst   *string
	}{
		{"country", &f.Country},
		{"region", &f.Region},
		{"farm", &f.Farm},
	}
	for _, t := range targets {
		if *t.dst != "" {
			continue
		}
		if value, e := bestOriginField(entries, t.field, f); e != nil {
			*t.dst = value
			e.markUsed(used)
		}
	}
}

// bestOriginField scores every line for one origin field and returns the
// winner, or a nil entry.
func bestOriginField(entries []*entry, field string, f *Fields) (string, *entry) {
	var (
		best      *entry
		bestValue string
		bestScore = -1
	)
	for _, e := range entries {
		if e.continuation {
			continue
		}
		combined := e.origin()
		candidate := combined.field(field)
		if candidate == "" {
			switch field {
			case "country":
				candidate = domain.DetectCountryName(e.value)
				if candidate == "" {
					candidate = domain.DetectCountryName(e.normalized)
				}
			case "region":
				if regionKeywords.MatchString(e.label) || regionKeywords.MatchString(e.value) {
					candidate = cleanKeywordValue(e.value, regionKeywords)
				}
			case "farm":
				if farmKeywords.MatchString(e.label) || farmKeywords.MatchString(e.value) {
					candidate = cleanKeywordValue(e.value, farmKeywords)
				}
			}
		}
		if candidate == "" {
			continue
		}
		if field == "region" && sameText(candidate, f.Country) {
			continue
		}
		if field == "farm" && !acceptFarm(candidate, f) {
			continue
		}

		score := 0
		switch {
		case field == "country" && originLabel.MatchString(e.lowerLabel):
			score += 4
		case field == "region" && regionKeywords.MatchString(e.label):
			score += 3
		case field == "farm" && farmKeywords.MatchString(e.label):
			score += 3
		}
		if combined.field(field) != "" {
			score += 2
		}
		if e.index <= 2 {
			score++
		}
		if score > bestScore {
			best, bestValue, bestScore = e, candidate, score
		}
	}
	return bestValue, best
}
