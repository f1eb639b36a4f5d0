package core

import "sort"

// CashFlowPoint is one point of the cumulative cash-flow curve: the net
// position over time up to and including Date.
type CashFlowPoint struct {
	Date       Date
	Cumulative Money
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    Money
}

// Summarize sums the amounts of the given transactions. An empty or nil
// input yields zero. Callers use it independently for the income total,
// the expense total, and their difference for the balance card.
func Summarize(txs []Transaction) Money {
	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
	}
	return Money{Cents: total}
}

// Balance returns income minus expense totals.
func Balance(income, expense []Transaction) Money {
	return Money{Cents: Summarize(income).Cents - Summarize(expense).Cents}
}

// BuildCashFlowSeries computes the cumulative net (income minus expense)
// series over time, restricted to the selected categories.
//
// An empty selection on either side filters that side to nothing: nothing
// selected means nothing charted, not "all categories". Dates present on
// only one side are zero-filled on the other, never dropped. The result
// has one point per distinct date across both filtered inputs, ascending.
func BuildCashFlowSeries(income, expense []Transaction, incomeCategories, expenseCategories []string) []CashFlowPoint {
	perDateIncome := sumPerDate(income, incomeCategories)
	perDateExpense := sumPerDate(expense, expenseCategories)

	// Full outer join on date.
	dates := make(map[Date]struct{}, len(perDateIncome)+len(perDateExpense))
	for d := range perDateIncome {
		dates[d] = struct{}{}
	}
	for d := range perDateExpense {
		dates[d] = struct{}{}
	}
	if len(dates) == 0 {
		return nil
	}

	ordered := make([]Date, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j].Time) })

	series := make([]CashFlowPoint, 0, len(ordered))
	var running int64
	for _, d := range ordered {
		running += perDateIncome[d] - perDateExpense[d]
		series = append(series, CashFlowPoint{Date: d, Cumulative: Money{Cents: running}})
	}
	return series
}

// sumPerDate filters transactions to the selected categories and groups
// amounts by normalized calendar date.
func sumPerDate(txs []Transaction, selected []string) map[Date]int64 {
	if len(selected) == 0 {
		return nil
	}
	allow := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		allow[c] = struct{}{}
	}
	sums := make(map[Date]int64)
	for _, tx := range txs {
		if _, ok := allow[tx.Category]; !ok {
			continue
		}
		sums[tx.Date.Normalize()] += tx.Amount.Cents
	}
	return sums
}

// GroupByCategory sums transaction amounts per category, sorted by
// descending total then name. Feeds the per-category breakdown chart.
func GroupByCategory(txs []Transaction) []CategoryTotal {
	sums := make(map[string]int64)
	for _, tx := range txs {
		sums[tx.Category] += tx.Amount.Cents
	}
	totals := make([]CategoryTotal, 0, len(sums))
	for name, cents := range sums {
		totals = append(totals, CategoryTotal{Category: name, Total: Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total.Cents != totals[j].Total.Cents {
			return totals[i].Total.Cents > totals[j].Total.Cents
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}
