// Package analytics derives presentation-ready aggregates from a ledger
// snapshot. Both projections are pure functions of their input: no I/O, no
// mutation, total over any well-formed transaction slice including the
// empty one.
package analytics

import (
	"math"
	"sort"
	"time"

	"finnova/internal/core"
)

// DayAmount is one bucket of the 7-day spending series. Amount is in major
// units.
type DayAmount struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

// CategoryAmount is one slice of the category breakdown. Value is rounded
// to whole major units; Color is the chart color key for the category.
type CategoryAmount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

var categoryColors = map[core.Category]string{
	core.CategoryFood:     "#00C48C",
	core.CategoryTech:     "#3B74FF",
	core.CategoryTravel:   "#35E3FF",
	core.CategoryBills:    "#FFD36E",
	core.CategoryShopping: "#FF6E6E",
	core.CategoryOthers:   "#9CA3AF",
}

const defaultCategoryColor = "#9CA3AF"

// DailySpend buckets outflows into the trailing 7 days ending at today,
// labeled with weekday short names in chronological order. Matching is by
// weekday label, not by date: a transaction from a prior week that shares a
// bucket's weekday label is accumulated into that bucket. That collision is
// intentional, it mirrors the behavior the dashboard has always shown.
func DailySpend(txs []core.Transaction, today time.Time) []DayAmount {
	buckets := make([]DayAmount, 0, 7)
	index := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		label := weekdayLabel(today.AddDate(0, 0, -i))
		index[label] = len(buckets)
		buckets = append(buckets, DayAmount{Day: label})
	}

	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		if i, ok := index[weekdayLabel(tx.Date)]; ok {
			buckets[i].Amount += core.MajorUnits(-tx.Amount)
		}
	}
	return buckets
}

// CategoryBreakdown sums absolute outflow per category in major units and
// returns the top N categories by rounded value, descending. Categories
// beyond N are dropped, not merged into an "other" slice. Ties break by
// name so the output is deterministic.
func CategoryBreakdown(txs []core.Transaction, topN int) []CategoryAmount {
	sums := make(map[core.Category]float64)
	for _, tx := range txs {
		if tx.Amount < 0 && tx.Category != "" {
			sums[tx.Category] += core.MajorUnits(-tx.Amount)
		}
	}

	out := make([]CategoryAmount, 0, len(sums))
	for cat, total := range sums {
		color, ok := categoryColors[cat]
		if !ok {
			color = defaultCategoryColor
		}
		out = append(out, CategoryAmount{
			Name:  titleCase(string(cat)),
			Value: int64(math.Round(total)),
			Color: color,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// weekdayLabel is the en-US short weekday name ("Mon", "Tue", ...).
func weekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
