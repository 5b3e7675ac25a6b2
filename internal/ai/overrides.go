package ai

import (
	"strings"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// overrideRule forces a parameter value when a high-confidence keyword
// appears in the query text, regardless of what the model extracted. Direct
// keyword matching beats the model's parameter extraction for these specific
// domains (category-scoped searches, cost-reduction recommendations), so the
// override takes precedence over the model's own value. Rules are evaluated
// in order; the first match wins.
type overrideRule struct {
	keywords []string
	value    string
}

var categoryOverrides = []overrideRule{
	{keywords: []string{"marketing", "advertising", "ads"}, value: "Marketing"},
	{keywords: []string{"software", "subscription", "saas"}, value: "Software"},
	{keywords: []string{"payroll", "salary", "salaries"}, value: "Payroll"},
	{keywords: []string{"rent", "lease"}, value: "Rent"},
	{keywords: []string{"travel", "flight", "hotel"}, value: "Travel"},
}

// overrideParameters applies the keyword whitelist to the resolved
// parameters in place. Search and list intents get a category parameter;
// recommendation intents get a topic.
func overrideParameters(intent domain.Intent, params map[string]any, query string) {
	var param string
	switch intent {
	case domain.IntentTransactionSearch, domain.IntentTransactionList:
		param = "category"
	case domain.IntentRecommendation:
		param = "topic"
	default:
		return
	}

	lower := strings.ToLower(query)
	for _, rule := range categoryOverrides {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				params[param] = rule.value
				return
			}
		}
	}
}
