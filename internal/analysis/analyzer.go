// Package analysis computes financial metrics over stored transactions:
// cash runway and burn rate, category breakdowns, monthly cashflow and
// month-over-month comparisons. It reads through the same search
// collaborator the natural-language search uses, so any store implementing
// it (BigQuery in production) can back an analysis.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/search"
)

const (
	dateFormat  = "2006-01-02"
	monthFormat = "2006-01"

	// fetchLimit bounds how many transactions a single analysis reads.
	fetchLimit = 10000
)

// ErrNoData marks an analysis over a period that holds no transactions.
var ErrNoData = errors.New("no transaction data available")

// TransactionLister is the slice of the search collaborator the analyzer
// needs. Satisfied by the BigQuery repository.
type TransactionLister interface {
	SearchTransactions(ctx context.Context, filters search.TransactionFilters, limit int) ([]domain.Transaction, error)
}

// Analyzer derives financial metrics from stored transactions.
type Analyzer struct {
	source TransactionLister
	now    func() time.Time
	log    zerolog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the current-time source. Used by tests to pin the
// analysis periods.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates an analyzer reading from source.
func NewAnalyzer(source TransactionLister, log zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{source: source, now: time.Now, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MonthlyFlow is one month's aggregated money movement. BurnRate is how much
// the month's expenses exceeded its income; a month in the black burns zero.
type MonthlyFlow struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	BurnRate float64 `json:"burn_rate"`
}

// RunwayReport answers "how long until the money runs out". RunwayMonths is
// zero when the runway is infinite; RunwayStatus carries the human form.
type RunwayReport struct {
	CashBalance        float64       `json:"cash_balance"`
	AvgMonthlyBurnRate float64       `json:"avg_monthly_burn_rate"`
	RunwayMonths       float64       `json:"runway_months"`
	RunwayStatus       string        `json:"runway_status"`
	Monthly            []MonthlyFlow `json:"monthly_data"`
	AnalysisDate       string        `json:"analysis_date"`
}

// CategoryShare is one category's slice of a period total.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryReport breaks a period's transactions of one type down by category,
// largest first.
type CategoryReport struct {
	Type        domain.TransactionType `json:"transaction_type"`
	PeriodStart string                 `json:"period_start"`
	PeriodEnd   string                 `json:"period_end"`
	Total       float64                `json:"total"`
	Categories  []CategoryShare        `json:"categories"`
}

// MonthlyDelta is one month's totals plus the percentage change against the
// previous month. The first month of a comparison has zero changes.
type MonthlyDelta struct {
	Month          string  `json:"month"`
	Income         float64 `json:"income"`
	Expenses       float64 `json:"expenses"`
	Net            float64 `json:"net"`
	IncomeChange   float64 `json:"income_change_pct"`
	ExpensesChange float64 `json:"expenses_change_pct"`
	NetChange      float64 `json:"net_change_pct"`
}

// ComparisonReport is a month-over-month view of the trailing period.
type ComparisonReport struct {
	PeriodStart string         `json:"period_start"`
	PeriodEnd   string         `json:"period_end"`
	Monthly     []MonthlyDelta `json:"monthly_data"`
}

// SummaryReport is the headline view of a period: totals, counts and the top
// categories on each side.
type SummaryReport struct {
	PeriodStart          string          `json:"period_start"`
	PeriodEnd            string          `json:"period_end"`
	TotalIncome          float64         `json:"total_income"`
	TotalExpenses        float64         `json:"total_expenses"`
	Net                  float64         `json:"net"`
	IncomeCount          int             `json:"income_count"`
	ExpenseCount         int             `json:"expense_count"`
	TopIncomeCategories  []CategoryShare `json:"top_income_categories"`
	TopExpenseCategories []CategoryShare `json:"top_expense_categories"`
}

// CashflowMonth is one month of a cashflow report, with the running balance
// after that month.
type CashflowMonth struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Balance  float64 `json:"balance"`
}

// CashflowReport tracks money movement month by month across a period.
type CashflowReport struct {
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	TotalIncome   float64         `json:"total_income"`
	TotalExpenses float64         `json:"total_expenses"`
	Net           float64         `json:"net"`
	Monthly       []CashflowMonth `json:"monthly_data"`
}

// TopExpensesReport lists the largest individual expenses of a period.
type TopExpensesReport struct {
	PeriodStart   string               `json:"period_start"`
	PeriodEnd     string               `json:"period_end"`
	TotalExpenses float64              `json:"total_expenses"`
	Expenses      []domain.Transaction `json:"expenses"`
}

// Runway computes the cash runway from the trailing monthsBack months of
// burn (default 3). cashBalance overrides the starting balance; nil derives
// it from all stored history (income minus expenses).
func (a *Analyzer) Runway(ctx context.Context, monthsBack int, cashBalance *float64) (RunwayReport, error) {
	if monthsBack <= 0 {
		monthsBack = 3
	}
	now := a.now()

	txs, err := a.listRange(ctx, now.AddDate(0, -monthsBack, 0), now)
	if err != nil {
		return RunwayReport{}, err
	}

	monthly := monthlyFlows(txs)
	var totalBurn float64
	for _, m := range monthly {
		totalBurn += m.BurnRate
	}
	avgBurn := totalBurn / float64(len(monthly))

	balance, err := a.resolveCashBalance(ctx, cashBalance)
	if err != nil {
		return RunwayReport{}, err
	}

	report := RunwayReport{
		CashBalance:        balance,
		AvgMonthlyBurnRate: avgBurn,
		Monthly:            monthly,
		AnalysisDate:       now.Format(dateFormat),
	}
	switch {
	case avgBurn > 0:
		report.RunwayMonths = balance / avgBurn
		report.RunwayStatus = fmt.Sprintf("%.1f months", report.RunwayMonths)
	case balance > 0:
		report.RunwayStatus = "Infinite"
	default:
		report.RunwayStatus = "0.0 months"
	}
	return report, nil
}

// CategoryBreakdown totals a period's transactions of one type per category.
// An invalid type defaults to expense; a zero period defaults to the last
// 90 days.
func (a *Analyzer) CategoryBreakdown(ctx context.Context, txType domain.TransactionType, start, end time.Time) (CategoryReport, error) {
	if !txType.Valid() {
		txType = domain.TypeExpense
	}
	start, end = a.defaultPeriod(start, end)

	txs, err := a.source.SearchTransactions(ctx, search.TransactionFilters{
		Type:      string(txType),
		StartDate: start.Format(dateFormat),
		EndDate:   end.Format(dateFormat),
	}, fetchLimit)
	if err != nil {
		return CategoryReport{}, fmt.Errorf("CategoryBreakdown: %w", err)
	}
	if len(txs) == 0 {
		return CategoryReport{}, ErrNoData
	}

	var total float64
	for _, tx := range txs {
		total += tx.Amount
	}
	return CategoryReport{
		Type:        txType,
		PeriodStart: start.Format(dateFormat),
		PeriodEnd:   end.Format(dateFormat),
		Total:       total,
		Categories:  categoryShares(txs, total),
	}, nil
}

// MonthlyComparison builds the month-over-month view of the trailing
// monthsBack months (default 12).
func (a *Analyzer) MonthlyComparison(ctx context.Context, monthsBack int) (ComparisonReport, error) {
	if monthsBack <= 0 {
		monthsBack = 12
	}
	now := a.now()
	start := now.AddDate(0, -monthsBack, 0)

	txs, err := a.listRange(ctx, start, now)
	if err != nil {
		return ComparisonReport{}, err
	}

	flows := monthlyFlows(txs)
	deltas := make([]MonthlyDelta, 0, len(flows))
	for i, m := range flows {
		d := MonthlyDelta{Month: m.Month, Income: m.Income, Expenses: m.Expenses, Net: m.Net}
		if i > 0 {
			prev := flows[i-1]
			d.IncomeChange = pctChange(m.Income, prev.Income)
			d.ExpensesChange = pctChange(m.Expenses, prev.Expenses)
			d.NetChange = pctChange(m.Net, prev.Net)
		}
		deltas = append(deltas, d)
	}

	return ComparisonReport{
		PeriodStart: start.Format(dateFormat),
		PeriodEnd:   now.Format(dateFormat),
		Monthly:     deltas,
	}, nil
}

// Summary aggregates a period into headline totals plus the top three
// categories on each side.
func (a *Analyzer) Summary(ctx context.Context, start, end time.Time) (SummaryReport, error) {
	start, end = a.defaultPeriod(start, end)
	txs, err := a.listRange(ctx, start, end)
	if err != nil {
		return SummaryReport{}, err
	}

	report := SummaryReport{
		PeriodStart: start.Format(dateFormat),
		PeriodEnd:   end.Format(dateFormat),
	}
	var income, expenses []domain.Transaction
	for _, tx := range txs {
		if tx.Type == domain.TypeIncome {
			report.TotalIncome += tx.Amount
			income = append(income, tx)
		} else {
			report.TotalExpenses += tx.Amount
			expenses = append(expenses, tx)
		}
	}
	report.Net = report.TotalIncome - report.TotalExpenses
	report.IncomeCount = len(income)
	report.ExpenseCount = len(expenses)
	report.TopIncomeCategories = head(categoryShares(income, report.TotalIncome), 3)
	report.TopExpenseCategories = head(categoryShares(expenses, report.TotalExpenses), 3)
	return report, nil
}

// Cashflow tracks a period month by month with a running balance.
func (a *Analyzer) Cashflow(ctx context.Context, start, end time.Time) (CashflowReport, error) {
	start, end = a.defaultPeriod(start, end)
	txs, err := a.listRange(ctx, start, end)
	if err != nil {
		return CashflowReport{}, err
	}

	report := CashflowReport{
		PeriodStart: start.Format(dateFormat),
		PeriodEnd:   end.Format(dateFormat),
	}
	var balance float64
	for _, m := range monthlyFlows(txs) {
		balance += m.Net
		report.TotalIncome += m.Income
		report.TotalExpenses += m.Expenses
		report.Monthly = append(report.Monthly, CashflowMonth{
			Month:    m.Month,
			Income:   m.Income,
			Expenses: m.Expenses,
			Net:      m.Net,
			Balance:  balance,
		})
	}
	report.Net = report.TotalIncome - report.TotalExpenses
	return report, nil
}

// TopExpenses lists the period's largest individual expenses (default 5).
func (a *Analyzer) TopExpenses(ctx context.Context, start, end time.Time, limit int) (TopExpensesReport, error) {
	if limit <= 0 {
		limit = 5
	}
	start, end = a.defaultPeriod(start, end)

	txs, err := a.source.SearchTransactions(ctx, search.TransactionFilters{
		Type:      string(domain.TypeExpense),
		StartDate: start.Format(dateFormat),
		EndDate:   end.Format(dateFormat),
	}, fetchLimit)
	if err != nil {
		return TopExpensesReport{}, fmt.Errorf("TopExpenses: %w", err)
	}
	if len(txs) == 0 {
		return TopExpensesReport{}, ErrNoData
	}

	report := TopExpensesReport{
		PeriodStart: start.Format(dateFormat),
		PeriodEnd:   end.Format(dateFormat),
	}
	for _, tx := range txs {
		report.TotalExpenses += tx.Amount
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Amount > txs[j].Amount })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	report.Expenses = txs
	return report, nil
}

func (a *Analyzer) listRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	txs, err := a.source.SearchTransactions(ctx, search.TransactionFilters{
		StartDate: start.Format(dateFormat),
		EndDate:   end.Format(dateFormat),
	}, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("listRange: %w", err)
	}
	if len(txs) == 0 {
		return nil, ErrNoData
	}
	return txs, nil
}

// resolveCashBalance uses the provided balance when given, otherwise derives
// it from all stored history. An empty store yields zero, not ErrNoData: a
// runway over recent burn is still meaningful with an assumed-zero balance.
func (a *Analyzer) resolveCashBalance(ctx context.Context, provided *float64) (float64, error) {
	if provided != nil {
		return *provided, nil
	}
	txs, err := a.source.SearchTransactions(ctx, search.TransactionFilters{}, fetchLimit)
	if err != nil {
		return 0, fmt.Errorf("resolveCashBalance: %w", err)
	}
	var balance float64
	for _, tx := range txs {
		if tx.Type == domain.TypeIncome {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}
	return balance, nil
}

func (a *Analyzer) defaultPeriod(start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = a.now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -90)
	}
	return start, end
}

// monthlyFlows groups transactions into per-month totals, oldest first.
func monthlyFlows(txs []domain.Transaction) []MonthlyFlow {
	byMonth := make(map[string]*MonthlyFlow)
	for _, tx := range txs {
		if len(tx.Date) < len(monthFormat) {
			continue
		}
		key := tx.Date[:len(monthFormat)]
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyFlow{Month: key}
			byMonth[key] = m
		}
		if tx.Type == domain.TypeIncome {
			m.Income += tx.Amount
		} else {
			m.Expenses += tx.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Strings(months)

	flows := make([]MonthlyFlow, 0, len(months))
	for _, k := range months {
		m := byMonth[k]
		m.Net = m.Income - m.Expenses
		if m.Expenses > m.Income {
			m.BurnRate = m.Expenses - m.Income
		}
		flows = append(flows, *m)
	}
	return flows
}

func categoryShares(txs []domain.Transaction, total float64) []CategoryShare {
	totals := make(map[string]float64)
	for _, tx := range txs {
		totals[tx.Category] += tx.Amount
	}
	shares := make([]CategoryShare, 0, len(totals))
	for category, amount := range totals {
		share := CategoryShare{Category: category, Amount: amount}
		if total > 0 {
			share.Percentage = amount / total * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

func head(shares []CategoryShare, n int) []CategoryShare {
	if len(shares) > n {
		return shares[:n]
	}
	return shares
}

func pctChange(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / math.Abs(prev) * 100
}
