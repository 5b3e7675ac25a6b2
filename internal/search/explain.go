package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

const (
	noResultsMessage = "No results found for your query. Try different search terms or broaden your search."
	fallbackMessage  = "Search results found. Unable to generate detailed explanation."
)

// Explain produces a human-readable summary of a result set. Pure function,
// no model call. It must never fail outward: anything unexpected in the
// result entries yields the generic fallback sentence instead.
func Explain(rs *domain.ResultSet) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackMessage
		}
	}()

	if rs == nil || (len(rs.Transactions) == 0 && len(rs.Documents) == 0) {
		return noResultsMessage
	}

	var lines []string

	switch n := len(rs.Transactions); {
	case n == 1:
		tx := rs.Transactions[0]
		lines = append(lines, fmt.Sprintf("Found 1 transaction: %s of %s %.2f for %s on %s.",
			tx.Type, tx.Currency, tx.Amount, tx.Description, tx.Date))
	case n > 1:
		lines = append(lines, fmt.Sprintf("Found %d transactions.", n))
		var expenses, incomes int
		for _, tx := range rs.Transactions {
			if tx.Type == domain.TypeExpense {
				expenses++
			} else if tx.Type == domain.TypeIncome {
				incomes++
			}
		}
		if expenses > 0 {
			lines = append(lines, fmt.Sprintf("- %d %s", expenses, pluralize("expense", expenses)))
		}
		if incomes > 0 {
			lines = append(lines, fmt.Sprintf("- %d %s", incomes, pluralize("income", incomes)))
		}
	}

	switch n := len(rs.Documents); {
	case n == 1:
		doc := rs.Documents[0]
		lines = append(lines, fmt.Sprintf("Found 1 document: %s (type: %s).", doc.Issuer, doc.Type))
	case n > 1:
		lines = append(lines, fmt.Sprintf("Found %d documents.", n))
		counts := make(map[string]int)
		for _, doc := range rs.Documents {
			counts[doc.Type]++
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			lines = append(lines, fmt.Sprintf("- %d %s", counts[t], pluralize(t, counts[t])))
		}
	}

	return strings.Join(lines, "\n")
}

func pluralize(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
