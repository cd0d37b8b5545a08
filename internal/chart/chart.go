// Package chart builds numeric series for the frontend to render.
// No drawing happens here; a Chart is plain data.
package chart

import (
	"sort"
	"time"

	"finchat/internal/core"
	"finchat/internal/report"
)

// Chart is a renderer-agnostic data series.
type Chart struct {
	Type   string    `json:"type"`
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// CategoryPie breaks expenses down by category. Nil when there is nothing
// to plot.
func CategoryPie(byCategory []report.CategoryAmount) *Chart {
	if len(byCategory) == 0 {
		return nil
	}

	c := &Chart{Type: "pie"}
	for _, ca := range byCategory {
		c.Labels = append(c.Labels, ca.Name)
		c.Data = append(c.Data, ca.Amount.Float())
	}
	return c
}

// SpendingTrend plots daily expense totals over time, oldest day first.
func SpendingTrend(transactions []core.Transaction) *Chart {
	daily := make(map[string]int64)
	for _, t := range transactions {
		if t.Type != core.Expense {
			continue
		}
		daily[t.Date.Format(time.DateOnly)] += t.Amount.Cents
	}
	if len(daily) == 0 {
		return nil
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	c := &Chart{Type: "line"}
	for _, day := range days {
		c.Labels = append(c.Labels, day)
		c.Data = append(c.Data, core.Money{Cents: daily[day]}.Float())
	}
	return c
}

// SavingsComparison compares savings, expenses, and the net for a summary.
func SavingsComparison(s report.Summary) *Chart {
	return &Chart{
		Type:   "bar",
		Labels: []string{"Savings", "Expenses", "Net"},
		Data:   []float64{s.TotalSavings.Float(), s.TotalExpenses.Float(), s.Net().Float()},
	}
}
