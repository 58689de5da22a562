package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultByID(t *testing.T, results []AchievementResult, id string) AchievementResult {
	t.Helper()
	for _, r := range results {
		if r.ID == id {
			return r
		}
	}
	require.Failf(t, "achievement not found", "id %q", id)
	return AchievementResult{}
}

func countries(n int) []string {
	codes := []string{"ET", "KE", "CO", "BR", "PE", "ID", "YE", "RW", "BI", "GT", "HN", "MX"}
	return codes[:n]
}

func TestEvaluate_WorldWanderer(t *testing.T) {
	tests := []struct {
		name         string
		countries    int
		wantEarned   bool
		wantProgress float64
	}{
		{"none", 0, false, 0},
		{"three", 3, false, 0.6},
		{"five", 5, true, 1},
		{"more", 7, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{CountryCodes: countries(tt.countries)}
			r := resultByID(t, Evaluate(s), "world_wanderer")
			assert.Equal(t, tt.wantEarned, r.Earned)
			assert.InDelta(t, tt.wantProgress, r.Progress, 1e-9)
			assert.Equal(t, tt.countries > 0, r.Visible)
		})
	}
}

func TestEvaluate_PrerequisiteChain(t *testing.T) {
	s := Snapshot{CountryCodes: countries(12)}
	results := Evaluate(s)

	assert.True(t, resultByID(t, results, "world_wanderer").Earned)
	assert.True(t, resultByID(t, results, "bean_passport").Earned)

	united := resultByID(t, results, "coffee_united")
	assert.False(t, united.Earned)
	assert.InDelta(t, 0.6, united.Progress, 1e-9)
	assert.True(t, united.Visible)

	// Prerequisite not earned, so the next tier stays hidden despite progress.
	champion := resultByID(t, results, "global_champion")
	assert.False(t, champion.Earned)
	assert.Greater(t, champion.Progress, 0.0)
	assert.False(t, champion.Visible)
}

func TestEvaluate_EarnedImpliesPrerequisiteEarned(t *testing.T) {
	snapshots := []Snapshot{
		{},
		{CountryCodes: countries(5)},
		{CountryCodes: countries(12), HasHoney: true, HasAnaerobic: true, HasCarbonic: true},
		{HomeCups: 10, WashedCount: 5, NaturalCount: 4},
	}
	for i, s := range snapshots {
		results := Evaluate(s)
		byID := make(map[string]AchievementResult, len(results))
		for _, r := range results {
			byID[r.ID] = r
		}
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Progress, 0.0)
			assert.LessOrEqual(t, r.Progress, 1.0)
			if r.Earned {
				assert.InDelta(t, 1.0, r.Progress, 1e-9)
				if r.Requires != "" {
					assert.True(t, byID[r.Requires].Earned, "snapshot %d: %s earned without %s", i, r.ID, r.Requires)
				}
			}
		}
	}
}

func TestEvaluate_PredicateWithoutPrerequisite(t *testing.T) {
	defs := []Achievement{
		threshold(Achievement{ID: "base"}, 5, func(s Snapshot) int { return len(s.CountryCodes) }),
		threshold(Achievement{ID: "next", Requires: "base"}, 1, func(s Snapshot) int { return len(s.CountryCodes) }),
	}
	results := evaluate(defs, Snapshot{CountryCodes: countries(2)})

	assert.False(t, results[0].Earned)
	assert.False(t, results[1].Earned)
	assert.InDelta(t, 1.0, results[1].Progress, 1e-9)
	assert.False(t, results[1].Visible)
}

func TestEvaluate_CyclicRequirementTerminates(t *testing.T) {
	defs := []Achievement{
		threshold(Achievement{ID: "a", Requires: "b"}, 1, func(s Snapshot) int { return s.HomeCups }),
		threshold(Achievement{ID: "b", Requires: "a"}, 1, func(s Snapshot) int { return s.HomeCups }),
	}
	results := evaluate(defs, Snapshot{HomeCups: 1})
	require.Len(t, results, 2)
	assert.False(t, results[0].Earned)
	assert.False(t, results[1].Earned)
}

func TestEvaluate_FlagAchievements(t *testing.T) {
	s := Snapshot{HasHoney: true, HasAnaerobic: true}
	r := resultByID(t, Evaluate(s), "experimenter")
	assert.False(t, r.Earned)
	assert.InDelta(t, 2.0/3.0, r.Progress, 1e-9)

	s.HasCarbonic = true
	r = resultByID(t, Evaluate(s), "experimenter")
	assert.True(t, r.Earned)
}

func TestEvaluate_Continental(t *testing.T) {
	s := Snapshot{Continents: []string{ContinentAfrica, ContinentAsia}}
	r := resultByID(t, Evaluate(s), "continental")
	assert.False(t, r.Earned)
	assert.InDelta(t, 0.4, r.Progress, 1e-9)

	s = Snapshot{Continents: CoffeeContinents, HasAllCoffeeContinents: true}
	assert.True(t, resultByID(t, Evaluate(s), "continental").Earned)
}

func TestVisible(t *testing.T) {
	results := []AchievementResult{
		{ID: "low", Progress: 0.2, Visible: true},
		{ID: "hidden", Progress: 0.9, Visible: false},
		{ID: "high", Progress: 0.8, Visible: true},
		{ID: "done", Earned: true, Progress: 1, Visible: true},
		{ID: "also_low", Progress: 0.2, Visible: true},
	}

	got := Visible(results)
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"done", "high", "low", "also_low"}, ids)
	assert.Equal(t, 1, EarnedCount(results))
}

func TestCatalog(t *testing.T) {
	defs := Catalog()
	require.Len(t, defs, 26)

	ids := make(map[string]struct{}, len(defs))
	for _, a := range defs {
		_, dup := ids[a.ID]
		assert.False(t, dup, a.ID)
		ids[a.ID] = struct{}{}
		assert.Equal(t, fmt.Sprintf("img/achievements/%s.png", a.ID), a.Icon())
	}
	for _, a := range defs {
		if a.Requires != "" {
			assert.Contains(t, ids, a.Requires, a.ID)
		}
	}
}

func TestRatioProgress(t *testing.T) {
	assert.InDelta(t, 0.5, ratioProgress(1, 2), 1e-9)
	assert.InDelta(t, 1.0, ratioProgress(4, 2), 1e-9)
	assert.InDelta(t, 1.0, ratioProgress(3, 0), 1e-9)
	assert.InDelta(t, 0.0, ratioProgress(0, 0), 1e-9)
	assert.InDelta(t, 0.0, ratioProgress(-1, 2), 1e-9)
}
