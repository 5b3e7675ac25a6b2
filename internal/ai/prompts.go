package ai

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt builders. Each one embeds the call-time current date in ISO form so
// the model resolves relative expressions ("yesterday", "last week") against
// call time, not training time, and enumerates every recognized field so a
// missing field is attributable to the model rather than the parser.

const jsonOnlyRules = "Return ONLY a single valid raw JSON object.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Do NOT add comments, trailing commas, or any text outside the JSON object.\n"

func transactionPrompt(today string) string {
	var b strings.Builder
	b.WriteString("You are a financial assistant that extracts transaction information from text.\n")
	fmt.Fprintf(&b, "The current date is %s.\n\n", today)
	b.WriteString("Extract the following fields from the user's text and format them as a JSON object:\n")
	b.WriteString("- \"type\": \"income\" or \"expense\"\n")
	b.WriteString("- \"amount\": the numeric amount (as a number, not a string)\n")
	b.WriteString("- \"currency\": the currency code (default to \"USD\" if not specified)\n")
	b.WriteString("- \"description\": a brief description of the transaction\n")
	b.WriteString("- \"category\": the category of the transaction (e.g. \"Software\", \"Payroll\", \"Revenue\")\n")
	b.WriteString("- \"date\": the date in ISO format (YYYY-MM-DD), resolved relative to the current date above\n")
	b.WriteString("- \"payment_date\": the payment date in ISO format, or null\n")
	b.WriteString("- \"recurring\": whether this is a recurring transaction (boolean)\n")
	b.WriteString("- \"frequency\": if recurring, one of \"daily\", \"weekly\", \"monthly\", \"quarterly\", \"yearly\"\n")
	b.WriteString("- \"start_date\": if recurring, the start date in ISO format\n")
	b.WriteString("- \"end_date\": if recurring, the end date in ISO format, or null\n")
	b.WriteString("- \"tags\": an object of tag key-value pairs (NOT an array)\n\n")
	b.WriteString("Only include fields that are mentioned or can be clearly inferred from the text.\n\n")
	b.WriteString(jsonOnlyRules)
	return b.String()
}

func documentPrompt(docType, today string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial assistant that extracts information from %ss.\n", docType)
	fmt.Fprintf(&b, "The current date is %s.\n\n", today)
	b.WriteString("Extract the following fields and format them as a JSON object:\n")
	fmt.Fprintf(&b, "- \"type\": the type of document (\"%s\")\n", docType)
	b.WriteString("- \"issuer\": the company or person that issued the document\n")
	b.WriteString("- \"recipient\": the company or person that received the document\n")
	b.WriteString("- \"date\": the document date in ISO format (YYYY-MM-DD)\n")
	b.WriteString("- \"due_date\": the payment due date in ISO format, if applicable\n")
	b.WriteString("- \"total_amount\": the total amount (as a number, not a string)\n")
	b.WriteString("- \"currency\": the currency code (default to \"USD\" if not specified)\n")
	b.WriteString("- \"items\": an array of line items, each with:\n")
	b.WriteString("  - \"description\": description of the item\n")
	b.WriteString("  - \"quantity\": quantity (as a number)\n")
	b.WriteString("  - \"unit_price\": price per unit (as a number)\n")
	b.WriteString("  - \"amount\": total for this item (as a number)\n")
	b.WriteString("- \"tax\": the tax amount, if specified (as a number)\n")
	b.WriteString("- \"payment_status\": one of \"paid\", \"unpaid\", \"partial\"\n")
	b.WriteString("- \"payment_date\": if paid, the payment date in ISO format, or null\n")
	b.WriteString("- \"reference_number\": any invoice/receipt number or reference\n")
	b.WriteString("- \"notes\": any additional relevant information\n\n")
	b.WriteString("Only include fields that are mentioned or can be clearly inferred from the text.\n\n")
	b.WriteString(jsonOnlyRules)
	return b.String()
}

func intentPrompt(today string) string {
	var b strings.Builder
	b.WriteString("You are a financial assistant that analyzes user queries to determine their intent.\n")
	fmt.Fprintf(&b, "The current date is %s.\n\n", today)
	b.WriteString("Analyze the query and classify it into one of these categories:\n")
	b.WriteString("- transaction_create: user wants to create a transaction\n")
	b.WriteString("- transaction_list: user wants to list transactions\n")
	b.WriteString("- transaction_search: user wants to search for specific transactions\n")
	b.WriteString("- document_process: user wants to process a document\n")
	b.WriteString("- financial_analysis: user wants a financial analysis (e.g. runway, burn rate)\n")
	b.WriteString("- report_generate: user wants to generate a report\n")
	b.WriteString("- recommendation: user wants a recommendation (e.g. cost reduction)\n")
	b.WriteString("- general_query: general question about finances\n\n")
	b.WriteString("Extract any relevant parameters (analysis_type, report_type, category, topic,\n")
	b.WriteString("filters with date ranges or amounts) and format everything as a JSON object with:\n")
	b.WriteString("- \"intent\": the intent category (string)\n")
	b.WriteString("- \"parameters\": an object with any relevant parameters for the intent\n\n")
	b.WriteString(jsonOnlyRules)
	return b.String()
}

func responsePrompt(today string) string {
	var b strings.Builder
	b.WriteString("You are a helpful financial assistant for startups. Provide clear, concise and\n")
	b.WriteString("accurate responses to financial queries. If you have specific data to reference,\n")
	b.WriteString("include relevant numbers and insights in your response. Keep responses\n")
	b.WriteString("professional but conversational.\n")
	fmt.Fprintf(&b, "The current date is %s.\n", today)
	return b.String()
}

// responseUserText folds optional context data and prior conversation turns
// into the user message, since the gateway carries a single user text.
func responseUserText(query string, contextData map[string]any, history []Message) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString(query)

	if len(contextData) > 0 {
		keys := make([]string, 0, len(contextData))
		for k := range contextData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\nContext:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %v\n", k, contextData[k])
		}
	}

	return b.String()
}
