package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/ai"
	"github.com/dvloznov/finance-assistant/internal/analysis"
	"github.com/dvloznov/finance-assistant/internal/domain"
)

const reportDateFormat = "2006-01-02"

// reportSummaryFallback is used whenever the model cannot produce a report
// summary; the report itself is still returned.
const reportSummaryFallback = "Report generated successfully. Summary not available."

// FinancialAnalyzer is the slice of the analysis package this service needs.
type FinancialAnalyzer interface {
	Summary(ctx context.Context, start, end time.Time) (analysis.SummaryReport, error)
	Cashflow(ctx context.Context, start, end time.Time) (analysis.CashflowReport, error)
	CategoryBreakdown(ctx context.Context, txType domain.TransactionType, start, end time.Time) (analysis.CategoryReport, error)
	Runway(ctx context.Context, monthsBack int, cashBalance *float64) (analysis.RunwayReport, error)
	MonthlyComparison(ctx context.Context, monthsBack int) (analysis.ComparisonReport, error)
	TopExpenses(ctx context.Context, start, end time.Time, limit int) (analysis.TopExpensesReport, error)
}

// ReportSummarizer turns report data into a short human summary. Satisfied
// by the extraction engine.
type ReportSummarizer interface {
	GenerateResponse(ctx context.Context, query string, contextData map[string]any, history []ai.Message) (string, error)
}

// Report is a generated financial report: the computed data plus a model
// summary. A failed generation carries Error (and Suggestion) instead of
// Data; the caller always gets a report, never an error.
type Report struct {
	Type        string         `json:"report_type"`
	PeriodStart string         `json:"period_start,omitempty"`
	PeriodEnd   string         `json:"period_end,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Data        any            `json:"data,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Warning     string         `json:"warning,omitempty"`
	Error       string         `json:"error,omitempty"`
	Suggestion  string         `json:"suggestion,omitempty"`
}

// ReportService generates financial reports by report type, serving the
// financial_analysis and report_generate intents.
type ReportService struct {
	analyzer   FinancialAnalyzer
	summarizer ReportSummarizer
	now        func() time.Time
	log        zerolog.Logger
}

// NewReportService creates a report service.
func NewReportService(analyzer FinancialAnalyzer, summarizer ReportSummarizer, log zerolog.Logger) *ReportService {
	return &ReportService{
		analyzer:   analyzer,
		summarizer: summarizer,
		now:        time.Now,
		log:        log,
	}
}

// Generate builds the report named by reportType. Synonyms are accepted
// ("burn" for runway, "spending" for expenses, ...); an unrecognized type
// falls back to a summary report with a warning. params carries the knobs
// resolved from query analysis: period_start/period_end (YYYY-MM-DD),
// months_back, cash_balance, transaction_type, limit.
func (s *ReportService) Generate(ctx context.Context, reportType string, params map[string]any) *Report {
	if params == nil {
		params = map[string]any{}
	}
	kind, known := normalizeReportType(reportType)

	now := s.now()
	start, end := reportPeriod(params, now)

	report := &Report{
		Type:        kind,
		PeriodStart: start.Format(reportDateFormat),
		PeriodEnd:   end.Format(reportDateFormat),
		GeneratedAt: now.Format(time.RFC3339),
		Parameters:  params,
	}
	if !known && strings.TrimSpace(reportType) != "" {
		report.Warning = fmt.Sprintf("unknown report type %q, generated a summary instead", reportType)
	}

	var (
		data any
		err  error
	)
	switch kind {
	case "summary":
		data, err = s.analyzer.Summary(ctx, start, end)
	case "cashflow":
		data, err = s.analyzer.Cashflow(ctx, start, end)
	case "category":
		txType := domain.TransactionType(reportStringParam(params, "transaction_type"))
		data, err = s.analyzer.CategoryBreakdown(ctx, txType, start, end)
	case "runway":
		data, err = s.analyzer.Runway(ctx, reportIntParam(params, "months_back", 3), cashBalanceParam(params))
	case "comparison":
		data, err = s.analyzer.MonthlyComparison(ctx, reportIntParam(params, "months_back", 12))
	case "expenses":
		data, err = s.analyzer.TopExpenses(ctx, start, end, reportIntParam(params, "limit", 5))
	}

	if err != nil {
		if errors.Is(err, analysis.ErrNoData) {
			report.Error = "no transaction data available for the selected period"
			report.Suggestion = "Add some transactions first, or choose a different period."
			return report
		}
		s.log.Error().Err(err).Str("report_type", kind).Msg("report generation failed")
		report.Error = err.Error()
		return report
	}

	report.Data = data
	report.Summary = s.summarize(ctx, kind, data)
	return report
}

// summarize asks the model for a short narrative over the computed data.
// Any failure degrades to a fixed fallback sentence; a report never fails
// because its summary did.
func (s *ReportService) summarize(ctx context.Context, kind string, data any) string {
	payload, err := json.Marshal(data)
	if err != nil {
		return reportSummaryFallback
	}

	query := fmt.Sprintf("Summarize this %s financial report in 3 to 5 sentences, focusing on the most important insights and trends.", kind)
	summary, err := s.summarizer.GenerateResponse(ctx, query, map[string]any{"report_data": string(payload)}, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("report_type", kind).Msg("report summary generation failed")
		return reportSummaryFallback
	}
	return summary
}

func normalizeReportType(t string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "summary", "overview":
		return "summary", true
	case "cashflow", "cash_flow", "cash":
		return "cashflow", true
	case "category", "categories":
		return "category", true
	case "runway", "burn":
		return "runway", true
	case "comparison", "compare", "monthly":
		return "comparison", true
	case "expenses", "expense", "spending", "costs", "top_expenses":
		return "expenses", true
	}
	return "summary", false
}

// reportPeriod resolves the report window: period_end defaults to now,
// period_start to 90 days before the end.
func reportPeriod(params map[string]any, now time.Time) (time.Time, time.Time) {
	end := now
	if t, ok := reportDateParam(params, "period_end"); ok {
		end = t
	}
	start := end.AddDate(0, 0, -90)
	if t, ok := reportDateParam(params, "period_start"); ok {
		start = t
	}
	return start, end
}

func reportDateParam(params map[string]any, key string) (time.Time, bool) {
	s, _ := params[key].(string)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(reportDateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func reportStringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return strings.TrimSpace(s)
}

func reportIntParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return def
}

func cashBalanceParam(params map[string]any) *float64 {
	if v, ok := params["cash_balance"].(float64); ok {
		return &v
	}
	return nil
}
