package domain

import (
	"math"
	"sort"
)

// Achievement is a catalog entry: a predicate over a Snapshot with a
// progress ratio and an optional prerequisite.
type Achievement struct {
	ID          string
	Emoji       string
	Title       string
	Description string
	Color       Palette
	Requires    string

	earned   func(Snapshot) bool
	progress func(Snapshot) float64
}

// Icon is the relative path of the achievement's badge image.
func (a Achievement) Icon() string {
	return "img/achievements/" + a.ID + ".png"
}

// AchievementResult is an achievement evaluated against one snapshot.
type AchievementResult struct {
	ID          string  `json:"id"`
	Emoji       string  `json:"emoji"`
	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       Palette `json:"color"`
	Requires    string  `json:"requires,omitempty"`
	Earned      bool    `json:"earned"`
	Progress    float64 `json:"progress"`
	Visible     bool    `json:"visible"`
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ratioProgress is current/target clamped to [0,1]. A non-positive target
// means any non-zero current is complete.
func ratioProgress(current, target float64) float64 {
	if target <= 0 {
		if current != 0 {
			return 1
		}
		return 0
	}
	return clamp01(current / target)
}

func flagProgress(flags ...bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	done := 0
	for _, f := range flags {
		if f {
			done++
		}
	}
	return ratioProgress(float64(done), float64(len(flags)))
}

func allOf(flags ...bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

// threshold builds an achievement earned once count(s) reaches target.
func threshold(a Achievement, target int, count func(Snapshot) int) Achievement {
	a.earned = func(s Snapshot) bool { return count(s) >= target }
	a.progress = func(s Snapshot) float64 { return ratioProgress(float64(count(s)), float64(target)) }
	return a
}

func flags(a Achievement, get func(Snapshot) []bool) Achievement {
	a.earned = func(s Snapshot) bool { return allOf(get(s)...) }
	a.progress = func(s Snapshot) float64 { return flagProgress(get(s)...) }
	return a
}

var catalog = []Achievement{
	threshold(Achievement{
		ID: "world_wanderer", Emoji: "🌍", Title: "Мировой скиталец",
		Description: "Попробовать кофе из 5 разных стран.",
		Color:       Palette{Background: "#e6f7ff", Border: "#b3e5fc", Text: "#01579b"},
	}, 5, func(s Snapshot) int { return len(s.CountryCodes) }),
	threshold(Achievement{
		ID: "bean_passport", Emoji: "🛂", Title: "Паспорт в зернах",
		Description: "Попробовать кофе из 10 стран.",
		Color:       Palette{Background: "#fff3e0", Border: "#ffcc80", Text: "#e65100"},
		Requires:    "world_wanderer",
	}, 10, func(s Snapshot) int { return len(s.CountryCodes) }),
	threshold(Achievement{
		ID: "coffee_united", Emoji: "🏅", Title: "Coffee United Nations",
		Description: "Попробовать кофе из 20+ стран.",
		Color:       Palette{Background: "#f3e5f5", Border: "#d1c4e9", Text: "#4a148c"},
		Requires:    "bean_passport",
	}, 20, func(s Snapshot) int { return len(s.CountryCodes) }),
	threshold(Achievement{
		ID: "global_champion", Emoji: "🌐", Title: "Глобальный чемпион",
		Description: "Попробовать кофе хотя бы из 30 стран.",
		Color:       Palette{Background: "#fffde7", Border: "#fff176", Text: "#f57f17"},
		Requires:    "coffee_united",
	}, 30, func(s Snapshot) int { return len(s.CountryCodes) }),
	{
		ID: "continental", Emoji: "🗺️", Title: "Континентальный",
		Description: "Собрать кофе с каждого континента, где он растёт.",
		Color:       Palette{Background: "#e8f5e9", Border: "#a5d6a7", Text: "#1b5e20"},
		earned:      func(s Snapshot) bool { return s.HasAllCoffeeContinents },
		progress: func(s Snapshot) float64 {
			return ratioProgress(float64(len(s.Continents)), float64(len(CoffeeContinents)))
		},
	},
	threshold(Achievement{
		ID: "africa_explorer", Emoji: "🌍", Title: "Африканский исследователь",
		Description: "Попробовать кофе минимум из 5 африканских стран.",
		Color:       Palette{Background: "#fbe9e7", Border: "#ffab91", Text: "#bf360c"},
	}, 5, func(s Snapshot) int { return len(s.AfricanCountries) }),
	threshold(Achievement{
		ID: "latin_gourmet", Emoji: "🌎", Title: "Латиноамериканский гурман",
		Description: "Попробовать кофе из 5 стран Латинской Америки.",
		Color:       Palette{Background: "#f1f8e9", Border: "#c5e1a5", Text: "#33691e"},
	}, 5, func(s Snapshot) int { return len(s.LatinCountries) }),
	threshold(Achievement{
		ID: "asia_collector", Emoji: "🌏", Title: "Азиатский коллекционер",
		Description: "Попробовать кофе из 3 азиатских стран.",
		Color:       Palette{Background: "#e0f7fa", Border: "#80deea", Text: "#006064"},
	}, 3, func(s Snapshot) int { return len(s.AsianCountries) }),
	threshold(Achievement{
		ID: "island_hunter", Emoji: "🏝️", Title: "Архипелаговый искатель",
		Description: "Попробовать кофе с островов.",
		Color:       Palette{Background: "#fff0f6", Border: "#f8bbd0", Text: "#ad1457"},
	}, 3, func(s Snapshot) int { return len(s.IslandCountries) }),
	threshold(Achievement{
		ID: "ethiopia_tracker", Emoji: "🇪🇹", Title: "Эфиопский следопыт",
		Description: "Попробовать кофе из 3 разных регионов Эфиопии.",
		Color:       Palette{Background: "#f1f8ff", Border: "#bbdefb", Text: "#0d47a1"},
	}, 3, func(s Snapshot) int { return s.EthiopiaRegions }),
	threshold(Achievement{
		ID: "colombia_tracker", Emoji: "🇨🇴", Title: "Колумбийский трекер",
		Description: "Собрать кофе из 3 зон Колумбии.",
		Color:       Palette{Background: "#fff8e1", Border: "#ffe082", Text: "#ff6f00"},
	}, 3, func(s Snapshot) int { return s.ColombiaRegions }),
	threshold(Achievement{
		ID: "deep_dive", Emoji: "📍", Title: "Глубокое погружение",
		Description: "Попробовать кофе из 5 регионов в одной стране.",
		Color:       Palette{Background: "#ede7f6", Border: "#b39ddb", Text: "#311b92"},
	}, 5, func(s Snapshot) int { return s.MaxRegionsInCountry }),
	threshold(Achievement{
		ID: "regional_champion", Emoji: "🏆", Title: "Региональный чемпион",
		Description: "Попробовать кофе из 15+ уникальных регионов.",
		Color:       Palette{Background: "#fff3f0", Border: "#ffab91", Text: "#bf360c"},
	}, 15, func(s Snapshot) int { return s.UniqueRegions }),
	threshold(Achievement{
		ID: "washed_master", Emoji: "💧", Title: "Мытый мастер",
		Description: "Попробовать 5 сортов мытой обработки.",
		Color:       Palette{Background: "#e0f2f1", Border: "#80cbc4", Text: "#004d40"},
	}, 5, func(s Snapshot) int { return s.WashedCount }),
	threshold(Achievement{
		ID: "natural_gourmet", Emoji: "☀️", Title: "Сухой гурман",
		Description: "Попробовать 5 сортов натуральной обработки.",
		Color:       Palette{Background: "#fff8e1", Border: "#ffe0b2", Text: "#e65100"},
	}, 5, func(s Snapshot) int { return s.NaturalCount }),
	flags(Achievement{
		ID: "experimenter", Emoji: "⚗️", Title: "Экспериментатор",
		Description: "Попробовать honey, anaerobic и carbonic maceration.",
		Color:       Palette{Background: "#edeefc", Border: "#c5cae9", Text: "#283593"},
	}, func(s Snapshot) []bool { return []bool{s.HasHoney, s.HasAnaerobic, s.HasCarbonic} }),
	threshold(Achievement{
		ID: "fermentation_maniac", Emoji: "🧪", Title: "Ферментационный маньяк",
		Description: "Попробовать 5+ экспериментальных методов обработки.",
		Color:       Palette{Background: "#f3e5f5", Border: "#ce93d8", Text: "#6a1b9a"},
	}, 5, func(s Snapshot) int { return len(s.ExperimentalMethods) }),
	flags(Achievement{
		ID: "industrial_romantic", Emoji: "🏭", Title: "Промышленный романтик",
		Description: "Попробовать rare washed и honey с геопривязкой.",
		Color:       Palette{Background: "#f1f8e9", Border: "#aed581", Text: "#33691e"},
	}, func(s Snapshot) []bool { return []bool{s.GeotagWashed, s.GeotagHoney} }),
	flags(Achievement{
		ID: "filter_geek", Emoji: "☕", Title: "Фильтр-гик",
		Description: "Попробовать 3 метода фильтра: v60, Kalita, Aeropress.",
		Color:       Palette{Background: "#e8eaf6", Border: "#c5cae9", Text: "#283593"},
	}, func(s Snapshot) []bool { return []bool{s.FilterHits.V60, s.FilterHits.Kalita, s.FilterHits.Aeropress} }),
	threshold(Achievement{
		ID: "multi_brew", Emoji: "🌀", Title: "Мульти-брю",
		Description: "Попробовать хотя бы 5 разных способов заварки.",
		Color:       Palette{Background: "#f9fbe7", Border: "#dce775", Text: "#827717"},
	}, 5, func(s Snapshot) int { return len(s.BrewMethods) }),
	threshold(Achievement{
		ID: "espresso_master", Emoji: "🍵", Title: "Эспрессо-мастер",
		Description: "Попробовать эспрессо в 5 разных городах.",
		Color:       Palette{Background: "#fff3e0", Border: "#ffb74d", Text: "#e65100"},
	}, 5, func(s Snapshot) int { return len(s.EspressoCities) }),
	threshold(Achievement{
		ID: "local_patriot", Emoji: "🏘️", Title: "Локальный патриот",
		Description: "Попробовать кофе от 3 обжарщиков из своего города.",
		Color:       Palette{Background: "#f1f8e9", Border: "#dcedc8", Text: "#33691e"},
	}, 3, func(s Snapshot) int { return s.RoastersInHomeCity }),
	threshold(Achievement{
		ID: "international_roasters", Emoji: "🌐", Title: "Интернациональный сет",
		Description: "Попробовать кофе от обжарщиков из 5 разных стран.",
		Color:       Palette{Background: "#e0f2f1", Border: "#80cbc4", Text: "#004d40"},
	}, 5, func(s Snapshot) int { return len(s.RoasterCountries) }),
	threshold(Achievement{
		ID: "home_barista", Emoji: "🏠", Title: "Домашний бариста",
		Description: "Выпить 10 чашек дома.",
		Color:       Palette{Background: "#fff8e1", Border: "#ffe0b2", Text: "#ef6c00"},
	}, 10, func(s Snapshot) int { return s.HomeCups }),
	threshold(Achievement{
		ID: "coffee_tourist", Emoji: "🧳", Title: "Кофейный турист",
		Description: "Попробовать кофе в 5 разных городах.",
		Color:       Palette{Background: "#e3f2fd", Border: "#90caf9", Text: "#1565c0"},
	}, 5, func(s Snapshot) int { return len(s.ConsumedCities) }),
	threshold(Achievement{
		ID: "cafe_explorer", Emoji: "🏛️", Title: "Кафейный исследователь",
		Description: "Посетить 10 уникальных кофеен.",
		Color:       Palette{Background: "#fce4ec", Border: "#f48fb1", Text: "#880e4f"},
	}, 10, func(s Snapshot) int { return len(s.Cafes) }),
}

// Catalog returns the achievement definitions in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate scores every catalog entry against the snapshot, in catalog
// order. An achievement counts as earned only when its own predicate holds
// and its prerequisite chain is earned as well, so a prerequisite is always
// earned whenever its dependant is. Earned achievements report progress 1.
//
// Visibility: an achievement is shown when its prerequisite is earned (or
// it has none, or it is earned itself) and it is either earned or has some
// progress.
func Evaluate(s Snapshot) []AchievementResult {
	return evaluate(catalog, s)
}

func evaluate(defs []Achievement, s Snapshot) []AchievementResult {
	byID := make(map[string]Achievement, len(defs))
	for _, a := range defs {
		byID[a.ID] = a
	}

	memo := make(map[string]bool, len(defs))
	var earned func(id string, depth int) bool
	earned = func(id string, depth int) bool {
		if v, ok := memo[id]; ok {
			return v
		}
		a, ok := byID[id]
		if !ok || depth > len(defs) {
			return false
		}
		v := a.earned(s) && (a.Requires == "" || earned(a.Requires, depth+1))
		memo[id] = v
		return v
	}

	out := make([]AchievementResult, 0, len(defs))
	for _, a := range defs {
		isEarned := earned(a.ID, 0)
		progress := clamp01(a.progress(s))
		if isEarned {
			progress = 1
		}
		requirementMet := a.Requires == "" || earned(a.Requires, 0)
		out = append(out, AchievementResult{
			ID:          a.ID,
			Emoji:       a.Emoji,
			Icon:        a.Icon(),
			Title:       a.Title,
			Description: a.Description,
			Color:       a.Color,
			Requires:    a.Requires,
			Earned:      isEarned,
			Progress:    progress,
			Visible:     (requirementMet || isEarned) && (isEarned || progress > 0),
		})
	}
	return out
}

// Visible filters results down to the displayed ones and orders them:
// earned first, then by progress descending, then in catalog order.
func Visible(results []AchievementResult) []AchievementResult {
	out := make([]AchievementResult, 0, len(results))
	for _, r := range results {
		if r.Visible {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Earned != out[j].Earned {
			return out[i].Earned
		}
		return out[i].Progress > out[j].Progress
	})
	return out
}

// EarnedCount returns how many results are earned.
func EarnedCount(results []AchievementResult) int {
	n := 0
	for _, r := range results {
		if r.Earned {
			n++
		}
	}
	return n
}
