package ai

import (
	"encoding/json"

	"github.com/dvloznov/finance-assistant/internal/validate"
)

// parseObject turns candidate JSON text into an untyped record, degrading
// gracefully: strict parse first, then repair and re-parse, and as a last
// resort a minimal synthesized record. It never fails; the validators
// downstream are total, so a minimal record still yields a usable result.
func parseObject(candidate, source string, rules validate.Rules) map[string]any {
	var rec map[string]any
	if err := json.Unmarshal([]byte(candidate), &rec); err == nil {
		return rec
	}

	repaired := repairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), &rec); err == nil {
		return rec
	}

	return minimalRecord(source, rules)
}

// minimalRecord synthesizes a record from the fields recoverable by regex
// from the original source text, plus an explicit error marker so callers
// can tell a degraded extraction from a clean one.
func minimalRecord(source string, rules validate.Rules) map[string]any {
	rec := map[string]any{
		"error":       "unparseable model output",
		"description": source,
	}
	if amount, ok := rules.AmountFromText(source); ok {
		rec["amount"] = amount
	}
	return rec
}
