package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/search"
)

type mockLister struct {
	SearchTransactionsFunc func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error)
}

func (m *mockLister) SearchTransactions(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
	return m.SearchTransactionsFunc(ctx, filters, limit)
}

func testAnalyzer(source TransactionLister) *Analyzer {
	clock := func() time.Time { return time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC) }
	return NewAnalyzer(source, zerolog.Nop(), WithClock(clock))
}

func tx(typ domain.TransactionType, amount float64, category, date string) domain.Transaction {
	return domain.Transaction{
		Type:     typ,
		Amount:   amount,
		Currency: "USD",
		Category: category,
		Date:     date,
		Tags:     map[string]string{},
	}
}

func TestRunway(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeIncome, 10000, "Sales", "2024-02-10"),
				tx(domain.TypeExpense, 16000, "Payroll", "2024-02-25"),
				tx(domain.TypeIncome, 8000, "Sales", "2024-03-05"),
				tx(domain.TypeExpense, 12000, "Payroll", "2024-03-25"),
				tx(domain.TypeIncome, 12000, "Sales", "2024-04-01"),
				tx(domain.TypeExpense, 10000, "Payroll", "2024-04-10"),
			}, nil
		},
	}

	balance := 10000.0
	report, err := testAnalyzer(source).Runway(context.Background(), 3, &balance)
	if err != nil {
		t.Fatalf("Runway failed: %v", err)
	}

	// Burn per month: Feb 6000, Mar 4000, Apr 0 (in the black).
	wantAvg := 10000.0 / 3
	if math.Abs(report.AvgMonthlyBurnRate-wantAvg) > 0.01 {
		t.Errorf("AvgMonthlyBurnRate = %v, want %v", report.AvgMonthlyBurnRate, wantAvg)
	}
	if report.RunwayStatus != "3.0 months" {
		t.Errorf("RunwayStatus = %q, want 3.0 months", report.RunwayStatus)
	}
	if report.CashBalance != 10000 {
		t.Errorf("CashBalance = %v, want provided 10000", report.CashBalance)
	}
	if len(report.Monthly) != 3 {
		t.Fatalf("got %d monthly entries, want 3", len(report.Monthly))
	}
	if report.Monthly[0].Month != "2024-02" || report.Monthly[0].BurnRate != 6000 {
		t.Errorf("Monthly[0] = %+v, want 2024-02 burning 6000", report.Monthly[0])
	}
	if report.Monthly[2].BurnRate != 0 {
		t.Errorf("Monthly[2].BurnRate = %v, want 0 for a month in the black", report.Monthly[2].BurnRate)
	}
	if report.AnalysisDate != "2024-04-15" {
		t.Errorf("AnalysisDate = %q, want pinned current date", report.AnalysisDate)
	}
}

func TestRunway_InfiniteWithoutBurn(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeIncome, 5000, "Sales", "2024-03-01"),
				tx(domain.TypeIncome, 5000, "Sales", "2024-04-01"),
			}, nil
		},
	}

	// No cash balance given: derived from all history (10000 income).
	report, err := testAnalyzer(source).Runway(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("Runway failed: %v", err)
	}

	if report.RunwayStatus != "Infinite" {
		t.Errorf("RunwayStatus = %q, want Infinite", report.RunwayStatus)
	}
	if report.RunwayMonths != 0 {
		t.Errorf("RunwayMonths = %v, want 0 for an infinite runway", report.RunwayMonths)
	}
	if report.CashBalance != 10000 {
		t.Errorf("CashBalance = %v, want 10000 derived from history", report.CashBalance)
	}
}

func TestRunway_NoData(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{}, nil
		},
	}

	_, err := testAnalyzer(source).Runway(context.Background(), 3, nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	var gotFilters search.TransactionFilters
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			gotFilters = filters
			return []domain.Transaction{
				tx(domain.TypeExpense, 300, "Software", "2024-03-01"),
				tx(domain.TypeExpense, 100, "Travel", "2024-03-10"),
				tx(domain.TypeExpense, 100, "Software", "2024-04-01"),
			}, nil
		},
	}

	report, err := testAnalyzer(source).CategoryBreakdown(context.Background(), "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("CategoryBreakdown failed: %v", err)
	}

	// Invalid type defaults to expense, zero period to the last 90 days.
	if gotFilters.Type != "expense" {
		t.Errorf("filters.Type = %q, want expense default", gotFilters.Type)
	}
	if gotFilters.StartDate != "2024-01-16" || gotFilters.EndDate != "2024-04-15" {
		t.Errorf("filters period = %s..%s, want 2024-01-16..2024-04-15", gotFilters.StartDate, gotFilters.EndDate)
	}

	if report.Total != 500 {
		t.Errorf("Total = %v, want 500", report.Total)
	}
	if len(report.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(report.Categories))
	}
	top := report.Categories[0]
	if top.Category != "Software" || top.Amount != 400 || top.Percentage != 80 {
		t.Errorf("Categories[0] = %+v, want Software 400 at 80%%", top)
	}
	if report.Categories[1].Percentage != 20 {
		t.Errorf("Categories[1].Percentage = %v, want 20", report.Categories[1].Percentage)
	}
}

func TestMonthlyComparison(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeIncome, 1000, "Sales", "2024-03-05"),
				tx(domain.TypeExpense, 500, "Rent", "2024-03-10"),
				tx(domain.TypeIncome, 1500, "Sales", "2024-04-05"),
				tx(domain.TypeExpense, 1000, "Rent", "2024-04-10"),
			}, nil
		},
	}

	report, err := testAnalyzer(source).MonthlyComparison(context.Background(), 12)
	if err != nil {
		t.Fatalf("MonthlyComparison failed: %v", err)
	}

	if len(report.Monthly) != 2 {
		t.Fatalf("got %d monthly entries, want 2", len(report.Monthly))
	}
	first := report.Monthly[0]
	if first.IncomeChange != 0 || first.ExpensesChange != 0 || first.NetChange != 0 {
		t.Errorf("first month changes = %+v, want all zero", first)
	}
	second := report.Monthly[1]
	if second.IncomeChange != 50 {
		t.Errorf("IncomeChange = %v, want 50", second.IncomeChange)
	}
	if second.ExpensesChange != 100 {
		t.Errorf("ExpensesChange = %v, want 100", second.ExpensesChange)
	}
	if second.NetChange != 0 {
		t.Errorf("NetChange = %v, want 0 (net held at 500)", second.NetChange)
	}
}

func TestSummary(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeIncome, 5000, "Consulting", "2024-03-01"),
				tx(domain.TypeIncome, 2000, "Sales", "2024-03-15"),
				tx(domain.TypeExpense, 1500, "Rent", "2024-03-01"),
				tx(domain.TypeExpense, 500, "Software", "2024-03-10"),
				tx(domain.TypeExpense, 250, "Software", "2024-04-01"),
			}, nil
		},
	}

	report, err := testAnalyzer(source).Summary(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if report.TotalIncome != 7000 || report.TotalExpenses != 2250 {
		t.Errorf("totals = %v/%v, want 7000/2250", report.TotalIncome, report.TotalExpenses)
	}
	if report.Net != 4750 {
		t.Errorf("Net = %v, want 4750", report.Net)
	}
	if report.IncomeCount != 2 || report.ExpenseCount != 3 {
		t.Errorf("counts = %d/%d, want 2/3", report.IncomeCount, report.ExpenseCount)
	}
	if len(report.TopExpenseCategories) != 2 {
		t.Fatalf("got %d expense categories, want 2", len(report.TopExpenseCategories))
	}
	if report.TopExpenseCategories[0].Category != "Rent" {
		t.Errorf("top expense category = %q, want Rent", report.TopExpenseCategories[0].Category)
	}
	if report.TopIncomeCategories[0].Category != "Consulting" {
		t.Errorf("top income category = %q, want Consulting", report.TopIncomeCategories[0].Category)
	}
}

func TestCashflow_RunningBalance(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeIncome, 1000, "Sales", "2024-03-05"),
				tx(domain.TypeExpense, 500, "Rent", "2024-03-10"),
				tx(domain.TypeIncome, 300, "Sales", "2024-04-05"),
				tx(domain.TypeExpense, 500, "Rent", "2024-04-10"),
			}, nil
		},
	}

	report, err := testAnalyzer(source).Cashflow(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Cashflow failed: %v", err)
	}

	if len(report.Monthly) != 2 {
		t.Fatalf("got %d monthly entries, want 2", len(report.Monthly))
	}
	if report.Monthly[0].Balance != 500 {
		t.Errorf("Monthly[0].Balance = %v, want 500", report.Monthly[0].Balance)
	}
	if report.Monthly[1].Balance != 300 {
		t.Errorf("Monthly[1].Balance = %v, want 300 after a 200 deficit", report.Monthly[1].Balance)
	}
	if report.TotalIncome != 1300 || report.TotalExpenses != 1000 || report.Net != 300 {
		t.Errorf("totals = %v/%v/%v, want 1300/1000/300", report.TotalIncome, report.TotalExpenses, report.Net)
	}
}

func TestTopExpenses(t *testing.T) {
	source := &mockLister{
		SearchTransactionsFunc: func(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error) {
			return []domain.Transaction{
				tx(domain.TypeExpense, 50, "Meals", "2024-03-01"),
				tx(domain.TypeExpense, 500, "Payroll", "2024-03-05"),
				tx(domain.TypeExpense, 200, "Software", "2024-03-10"),
				tx(domain.TypeExpense, 120, "Travel", "2024-03-15"),
				tx(domain.TypeExpense, 80, "Meals", "2024-03-20"),
				tx(domain.TypeExpense, 300, "Rent", "2024-04-01"),
			}, nil
		},
	}

	report, err := testAnalyzer(source).TopExpenses(context.Background(), time.Time{}, time.Time{}, 3)
	if err != nil {
		t.Fatalf("TopExpenses failed: %v", err)
	}

	if report.TotalExpenses != 1250 {
		t.Errorf("TotalExpenses = %v, want period total 1250", report.TotalExpenses)
	}
	if len(report.Expenses) != 3 {
		t.Fatalf("got %d expenses, want 3", len(report.Expenses))
	}
	want := []float64{500, 300, 200}
	for i, amount := range want {
		if report.Expenses[i].Amount != amount {
			t.Errorf("Expenses[%d].Amount = %v, want %v", i, report.Expenses[i].Amount, amount)
		}
	}
}
