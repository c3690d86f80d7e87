package converter

import "strings"

// RenderFunc produces a SQL statement from normalized question text.
type RenderFunc func(text string) string

// Rule pairs a trigger substring with the template it selects.
type Rule struct {
	Trigger string
	Render  RenderFunc
}

// PatternGroup is an ordered list of rules sharing one priority slot.
// The first rule whose trigger appears in the text wins, regardless of
// where in the text it appears.
type PatternGroup struct {
	ID    string
	Rules []Rule
}

func (g PatternGroup) match(text string) (Rule, bool) {
	for _, r := range g.Rules {
		if strings.Contains(text, r.Trigger) {
			return r, true
		}
	}
	return Rule{}, false
}

// Phrase is a standalone check tested after every group. It matches when
// all of AllOf are present, or when any of AnyOf is present.
type Phrase struct {
	ID     string
	AllOf  []string
	AnyOf  []string
	Render RenderFunc
}

func (p Phrase) match(text string) (string, bool) {
	if len(p.AllOf) > 0 {
		for _, s := range p.AllOf {
			if !strings.Contains(text, s) {
				return "", false
			}
		}
		return strings.Join(p.AllOf, "+"), true
	}
	for _, s := range p.AnyOf {
		if strings.Contains(text, s) {
			return s, true
		}
	}
	return "", false
}

// Group and phrase identifiers reported in Result.Pattern.
const (
	PatternWindow            = "window"
	PatternCTE               = "cte"
	PatternAnalytics         = "analytics"
	PatternBasket            = "basket"
	PatternPivot             = "pivot"
	PatternTopPerCategory    = "top_per_category"
	PatternNthHighest        = "nth_highest"
	PatternNegativeExistence = "negative_existence"
	PatternAboveAverage      = "above_average"
	PatternInventoryTurnover = "inventory_turnover"
	PatternFallback          = "fallback"
)

// groups is tested in slice order. Reordering changes which template
// overlapping questions resolve to.
var groups = []PatternGroup{
	{
		ID: PatternWindow,
		Rules: []Rule{
			{"running total", fixed(runningTotalSQL)},
			{"moving average", renderMovingAverage},
			{"rank", fixed(rankSQL)},
			{"row number", fixed(rowNumberSQL)},
			{"lag", fixed(lagLeadSQL)},
			{"lead", fixed(lagLeadSQL)},
			{"ntile", fixed(ntileSQL)},
		},
	},
	{
		ID: PatternCTE,
		Rules: []Rule{
			{"with", fixed(multiStepCTESQL)},
			{"recursive", fixed(recursiveHierarchySQL)},
			{"hierarchical", fixed(recursiveHierarchySQL)},
			{"step by step", fixed(multiStepCTESQL)},
		},
	},
	{
		ID: PatternAnalytics,
		Rules: []Rule{
			{"cohort", fixed(cohortRetentionSQL)},
			{"churn", fixed(churnSQL)},
			{"retention", fixed(cohortRetentionSQL)},
			{"lifetime value", fixed(lifetimeValueSQL)},
			{"z-score", fixed(zScoreSQL)},
			{"percentile", fixed(percentileSQL)},
		},
	},
	{
		ID: PatternBasket,
		Rules: []Rule{
			{"frequently bought together", fixed(marketBasketSQL)},
			{"market basket", fixed(marketBasketSQL)},
			{"association rules", fixed(marketBasketSQL)},
			{"confidence", fixed(marketBasketSQL)},
		},
	},
	{
		ID: PatternPivot,
		Rules: []Rule{
			{"pivot", fixed(pivotSQL)},
			{"crosstab", fixed(pivotSQL)},
			{"transpose", fixed(pivotSQL)},
		},
	},
}

var phrases = []Phrase{
	{ID: PatternTopPerCategory, AllOf: []string{"top", "each", "category"}, Render: renderTopPerCategory},
	{ID: PatternNthHighest, AnyOf: []string{"second highest", "nth highest", "2nd highest"}, Render: fixed(nthHighestSQL)},
	{ID: PatternNegativeExistence, AnyOf: []string{"haven't", "but not"}, Render: fixed(negativeExistenceSQL)},
	{ID: PatternAboveAverage, AnyOf: []string{"above average", "above median"}, Render: fixed(aboveAverageSQL)},
	{ID: PatternInventoryTurnover, AnyOf: []string{"inventory turnover"}, Render: fixed(inventoryTurnoverSQL)},
}

type selection struct {
	pattern string
	trigger string
	render  RenderFunc
}

// match walks groups then phrases and returns the first hit.
func match(text string) (selection, bool) {
	for _, g := range groups {
		if r, ok := g.match(text); ok {
			return selection{pattern: g.ID, trigger: r.Trigger, render: r.Render}, true
		}
	}
	for _, p := range phrases {
		if trigger, ok := p.match(text); ok {
			return selection{pattern: p.ID, trigger: trigger, render: p.Render}, true
		}
	}
	return selection{}, false
}

// CatalogEntry describes one slot of the dispatch table.
type CatalogEntry struct {
	Priority int      `json:"priority"`
	ID       string   `json:"id"`
	Kind     string   `json:"kind"` // "group", "phrase" or "fallback"
	Triggers []string `json:"triggers"`
	// RequireAll is set for phrases that need every trigger present.
	RequireAll bool `json:"require_all,omitempty"`
}

// Catalog returns the dispatch table in the order it is evaluated.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(groups)+len(phrases)+1)
	for _, g := range groups {
		triggers := make([]string, len(g.Rules))
		for i, r := range g.Rules {
			triggers[i] = r.Trigger
		}
		entries = append(entries, CatalogEntry{
			Priority: len(entries) + 1,
			ID:       g.ID,
			Kind:     "group",
			Triggers: triggers,
		})
	}
	for _, p := range phrases {
		triggers := p.AnyOf
		if len(p.AllOf) > 0 {
			triggers = p.AllOf
		}
		entries = append(entries, CatalogEntry{
			Priority:   len(entries) + 1,
			ID:         p.ID,
			Kind:       "phrase",
			Triggers:   append([]string(nil), triggers...),
			RequireAll: len(p.AllOf) > 0,
		})
	}
	entries = append(entries, CatalogEntry{
		Priority: len(entries) + 1,
		ID:       PatternFallback,
		Kind:     "fallback",
		Triggers: append([]string(nil), fallbackTriggers...),
	})
	return entries
}
