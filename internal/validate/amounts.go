package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

var (
	symbolAmountPattern = regexp.MustCompile(`[$£€]\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	wordAmountPattern   = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:dollars?|usd|euros?|eur|pounds?|gbp)`)
	bareAmountPattern   = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)
)

// AmountFromText recovers an amount directly from the source text when the
// model's number is unusable. Tiers are tried in order of confidence:
// currency-symbol prefixed, currency-word suffixed, then bare numbers. Bare
// numbers above MaxPlausibleAmount are rejected as likely false positives
// (years, reference numbers).
func (r Rules) AmountFromText(text string) (float64, bool) {
	if m := symbolAmountPattern.FindStringSubmatch(text); m != nil {
		if f, err := parseAmount(m[1]); err == nil && f > 0 {
			return f, true
		}
	}
	if m := wordAmountPattern.FindStringSubmatch(text); m != nil {
		if f, err := parseAmount(m[1]); err == nil && f > 0 {
			return f, true
		}
	}
	for _, m := range bareAmountPattern.FindAllString(text, -1) {
		f, err := parseAmount(m)
		if err != nil {
			continue
		}
		if f > 0 && f <= r.MaxPlausibleAmount {
			return f, true
		}
	}
	return 0, false
}

// parseAmount converts a matched numeric string, stripping grouping
// separators first ("1,500.00" → 1500).
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// transactionAmount resolves the final amount for a transaction. A missing,
// zero or non-numeric model amount triggers regex fallback over the source
// text; when that fails too the configured default applies so the amount
// invariant (> 0) always holds.
func (r Rules) transactionAmount(raw any, source string) float64 {
	if f, ok := numberValue(raw); ok && f != 0 {
		if f < 0 {
			r.log.Warn().Float64("amount", f).Msg("negating negative transaction amount")
			return math.Abs(f)
		}
		return f
	}

	if f, ok := r.AmountFromText(source); ok {
		r.log.Warn().Float64("amount", f).Msg("amount recovered from source text")
		return f
	}

	r.log.Warn().Float64("default", r.DefaultTransactionAmount).Msg("amount unrecoverable, using default")
	return r.DefaultTransactionAmount
}

// documentTotal resolves the total amount for a document. A non-empty item
// list takes precedence over regex fallback so the total always equals the
// item sum when the model omitted it.
func (r Rules) documentTotal(raw any, items []domain.LineItem, source string) float64 {
	if f, ok := numberValue(raw); ok && f > 0 {
		return f
	}

	if len(items) > 0 {
		var sum float64
		for _, item := range items {
			sum += item.Amount
		}
		if sum > 0 {
			r.log.Warn().Float64("total", sum).Msg("document total recomputed from items")
			return sum
		}
	}

	if f, ok := r.AmountFromText(source); ok {
		r.log.Warn().Float64("total", f).Msg("document total recovered from source text")
		return f
	}

	return 0
}
