package core

import "testing"

func tx(typ TransactionType, y, m, d int, cents int64, category string) Transaction {
	return Transaction{
		Type:     typ,
		Date:     NewDate(y, m, d),
		Amount:   Money{Cents: cents},
		Category: category,
		OwnerID:  1,
	}
}

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got.Cents != 0 {
		t.Fatalf("empty input: got %d, want 0", got.Cents)
	}
	txs := []Transaction{
		tx(Income, 2024, 1, 1, 1000, "Salário"),
		tx(Income, 2024, 1, 2, 550, "Salário"),
	}
	if got := Summarize(txs); got.Cents != 1550 {
		t.Fatalf("got %d, want 1550", got.Cents)
	}
}

func TestBalance(t *testing.T) {
	income := []Transaction{tx(Income, 2024, 1, 1, 10000, "Salário")}
	expense := []Transaction{tx(Expense, 2024, 1, 2, 4000, "Aluguel")}
	if got := Balance(income, expense); got.Cents != 6000 {
		t.Fatalf("got %d, want 6000", got.Cents)
	}
}

func TestBuildCashFlowSeries(t *testing.T) {
	income := []Transaction{tx(Income, 2024, 1, 1, 10000, "Salário")}
	expense := []Transaction{tx(Expense, 2024, 1, 2, 4000, "Aluguel")}

	series := BuildCashFlowSeries(income, expense, []string{"Salário"}, []string{"Aluguel"})
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2", len(series))
	}
	if series[0].Date != NewDate(2024, 1, 1) || series[0].Cumulative.Cents != 10000 {
		t.Fatalf("point 0 = (%s, %d), want (2024-01-01, 10000)", series[0].Date, series[0].Cumulative.Cents)
	}
	if series[1].Date != NewDate(2024, 1, 2) || series[1].Cumulative.Cents != 6000 {
		t.Fatalf("point 1 = (%s, %d), want (2024-01-02, 6000)", series[1].Date, series[1].Cumulative.Cents)
	}
}

func TestBuildCashFlowSeriesEmptySelection(t *testing.T) {
	income := []Transaction{
		tx(Income, 2024, 1, 1, 10000, "Salário"),
		tx(Income, 2024, 1, 3, 2000, "Comissão"),
	}
	expense := []Transaction{tx(Expense, 2024, 1, 2, 4000, "Aluguel")}

	// Nothing selected means nothing charted, regardless of volume.
	if got := BuildCashFlowSeries(income, expense, nil, nil); len(got) != 0 {
		t.Fatalf("empty selections: got %d points, want 0", len(got))
	}

	// One-sided selection still produces a series from that side only.
	series := BuildCashFlowSeries(income, expense, []string{"Salário", "Comissão"}, nil)
	if len(series) != 2 {
		t.Fatalf("income-only: got %d points, want 2", len(series))
	}
	if series[1].Cumulative.Cents != 12000 {
		t.Fatalf("income-only cumulative = %d, want 12000", series[1].Cumulative.Cents)
	}
}

func TestBuildCashFlowSeriesNoTransactions(t *testing.T) {
	if got := BuildCashFlowSeries(nil, nil, []string{"Salário"}, []string{"Aluguel"}); len(got) != 0 {
		t.Fatalf("got %d points, want 0", len(got))
	}
}

func TestBuildCashFlowSeriesGroupsSameDate(t *testing.T) {
	income := []Transaction{
		tx(Income, 2024, 2, 10, 1000, "Salário"),
		tx(Income, 2024, 2, 10, 500, "Salário"),
	}
	expense := []Transaction{
		tx(Expense, 2024, 2, 10, 200, "Lazer"),
		tx(Expense, 2024, 2, 11, 300, "Lazer"),
	}
	series := BuildCashFlowSeries(income, expense, []string{"Salário"}, []string{"Lazer"})
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2", len(series))
	}
	if series[0].Cumulative.Cents != 1300 {
		t.Fatalf("day 1 cumulative = %d, want 1300", series[0].Cumulative.Cents)
	}
	if series[1].Cumulative.Cents != 1000 {
		t.Fatalf("day 2 cumulative = %d, want 1000", series[1].Cumulative.Cents)
	}
}

func TestBuildCashFlowSeriesFilterExcludesUnselected(t *testing.T) {
	income := []Transaction{
		tx(Income, 2024, 3, 1, 1000, "Salário"),
		tx(Income, 2024, 3, 1, 9999, "Investimentos"),
	}
	series := BuildCashFlowSeries(income, nil, []string{"Salário"}, nil)
	if len(series) != 1 || series[0].Cumulative.Cents != 1000 {
		t.Fatalf("got %+v, want single point of 1000", series)
	}
}

func TestGroupByCategory(t *testing.T) {
	expense := []Transaction{
		tx(Expense, 2024, 1, 1, 500, "Lazer"),
		tx(Expense, 2024, 1, 2, 4000, "Aluguel"),
		tx(Expense, 2024, 1, 3, 300, "Lazer"),
	}
	totals := GroupByCategory(expense)
	if len(totals) != 2 {
		t.Fatalf("got %d groups, want 2", len(totals))
	}
	if totals[0].Category != "Aluguel" || totals[0].Total.Cents != 4000 {
		t.Fatalf("group 0 = %+v, want Aluguel/4000", totals[0])
	}
	if totals[1].Category != "Lazer" || totals[1].Total.Cents != 800 {
		t.Fatalf("group 1 = %+v, want Lazer/800", totals[1])
	}
}
