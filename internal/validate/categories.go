package validate

import (
	"strings"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// CategoryRule maps a keyword set to a category for one transaction type.
// Rules are evaluated in order and the first match wins, so the override
// precedence is auditable; the tables are partitioned by transaction type so
// an income description can never pick up an expense category.
type CategoryRule struct {
	Category  string
	Keywords  []string
	AppliesTo domain.TransactionType
}

const (
	defaultExpenseCategory = "Other Expense"
	defaultIncomeCategory  = "Other Income"
)

// categoryRules is the keyword taxonomy. Tuned by trial against real usage,
// not derived from a documented policy; treat entries as adjustable.
var categoryRules = []CategoryRule{
	{Category: "Software", Keywords: []string{"software", "app", "license", "subscription"}, AppliesTo: domain.TypeExpense},
	{Category: "Marketing", Keywords: []string{"marketing", "advertising", "ads", "campaign"}, AppliesTo: domain.TypeExpense},
	{Category: "Payroll", Keywords: []string{"payroll", "salary", "salaries", "wages", "contractor"}, AppliesTo: domain.TypeExpense},
	{Category: "Rent", Keywords: []string{"rent", "lease", "office space"}, AppliesTo: domain.TypeExpense},
	{Category: "Infrastructure", Keywords: []string{"hosting", "server", "cloud", "domain"}, AppliesTo: domain.TypeExpense},
	{Category: "Travel", Keywords: []string{"travel", "flight", "hotel", "taxi", "uber"}, AppliesTo: domain.TypeExpense},
	{Category: "Meals", Keywords: []string{"lunch", "dinner", "coffee", "meal", "restaurant"}, AppliesTo: domain.TypeExpense},
	{Category: "Legal & Accounting", Keywords: []string{"legal", "lawyer", "attorney", "accounting", "accountant"}, AppliesTo: domain.TypeExpense},

	{Category: "Revenue", Keywords: []string{"revenue", "sale", "sales", "sold"}, AppliesTo: domain.TypeIncome},
	{Category: "Consulting", Keywords: []string{"consulting", "freelance", "retainer"}, AppliesTo: domain.TypeIncome},
	{Category: "Investment", Keywords: []string{"investment", "funding", "seed", "round"}, AppliesTo: domain.TypeIncome},
	{Category: "Interest", Keywords: []string{"interest", "dividend"}, AppliesTo: domain.TypeIncome},
	{Category: "Refunds", Keywords: []string{"refund", "reimbursement", "rebate"}, AppliesTo: domain.TypeIncome},
}

// validCategorySet returns the allowed category names for a transaction type.
func validCategorySet(txType domain.TransactionType) map[string]bool {
	set := map[string]bool{defaultCategory(txType): true}
	for _, rule := range categoryRules {
		if rule.AppliesTo == txType {
			set[rule.Category] = true
		}
	}
	return set
}

func defaultCategory(txType domain.TransactionType) string {
	if txType == domain.TypeIncome {
		return defaultIncomeCategory
	}
	return defaultExpenseCategory
}

// InferCategory matches the description against the keyword table for the
// given transaction type. The second return is false when no rule matched.
func InferCategory(txType domain.TransactionType, description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		if rule.AppliesTo != txType {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// transactionCategory resolves the final category for a transaction. A
// missing or type-invalid model category falls back to keyword inference over
// the description, then to the type default.
func (r Rules) transactionCategory(raw any, txType domain.TransactionType, description string) string {
	category := strings.TrimSpace(stringValue(raw))

	if category != "" && validCategorySet(txType)[category] {
		return category
	}

	if inferred, ok := InferCategory(txType, description); ok {
		if category != "" && category != inferred {
			r.log.Warn().
				Str("category", category).
				Str("inferred", inferred).
				Str("type", string(txType)).
				Msg("replacing invalid category with keyword inference")
		}
		return inferred
	}

	if category != "" {
		r.log.Warn().
			Str("category", category).
			Str("type", string(txType)).
			Msg("replacing invalid category with type default")
	}
	return defaultCategory(txType)
}
