package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CategoryAmount represents an amount aggregated under a label, either a
// category name or a month label.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryCount is how many entries use a category.
type CategoryCount struct {
	Name  string
	Count int
}

// Summary holds the headline figures of a set of entries.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money
}

const (
	// DefaultChartMonths is how many months the dashboard chart shows.
	DefaultChartMonths = 6

	// FoodTipThreshold is the food spending (in cents, last 30 days) above
	// which the meal planning tip is shown.
	FoodTipThreshold = 150_00

	TipHighSpending = "You've spent more than 50% of your income in the last 30 days."
	TipHighFood     = "Your food expenses are high. Consider meal planning."
)

// Totals sums income and expense and derives the balance.
func Totals(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Type {
		case Income:
			s.Income = s.Income.Add(e.Amount)
		case Expense:
			s.Expense = s.Expense.Add(e.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// MonthLabel renders a month the way the chart axis shows it, e.g. "July 2025".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String(), year)
}

// MonthlyBreakdown groups expense entries by calendar month in chronological
// order and keeps the most recent `months` of them. months <= 0 keeps all.
func MonthlyBreakdown(entries []Entry, months int) []CategoryAmount {
	type key struct {
		year  int
		month time.Month
	}
	totals := make(map[key]Money)
	for _, e := range entries {
		if !e.IsExpense() {
			continue
		}
		k := key{year: e.Date.Year(), month: e.Date.Month()}
		totals[k] = totals[k].Add(e.Amount)
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	out := make([]CategoryAmount, 0, len(keys))
	for _, k := range keys {
		out = append(out, CategoryAmount{Name: MonthLabel(k.year, k.month), Amount: totals[k]})
	}
	return out
}

// CategoryBreakdown sums expenses per category, in order of first appearance.
func CategoryBreakdown(entries []Entry) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, e := range entries {
		if !e.IsExpense() {
			continue
		}
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryAmount{Name: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// TopCategories returns the n most used categories across all entry types.
func TopCategories(entries []Entry, n int) []CategoryCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, CategoryCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Tips derives spending advice from the entries as of now.
func Tips(entries []Entry, now time.Time) []string {
	var tips []string

	s := Totals(entries)
	if s.Income.Cents > 0 && s.Expense.Cents*2 > s.Income.Cents {
		tips = append(tips, TipHighSpending)
	}

	cutoff := DateOf(now).AddDate(0, 0, -30)
	var food Money
	for _, e := range entries {
		if e.IsExpense() && !e.Date.Before(cutoff) && strings.EqualFold(e.Category, "food") {
			food = food.Add(e.Amount)
		}
	}
	if food.Cents > FoodTipThreshold {
		tips = append(tips, TipHighFood)
	}
	return tips
}
