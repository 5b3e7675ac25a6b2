package ai

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/config"
	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/validate"
)

const dateFormat = "2006-01-02"

// Message is one prior conversation turn passed to GenerateResponse.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Engine is the extraction pipeline: prompt → gateway → normalize →
// parse(+repair) → validate. It is stateless across calls; each public
// method performs at most one upstream completion call.
type Engine struct {
	client      Completer
	rules       validate.Rules
	temperature float64
	maxTokens   int
	now         func() time.Time
	log         zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the current-time source. Used by tests to pin the
// date the validators anchor on.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an extraction engine around the given completer.
func NewEngine(client Completer, cfg config.ModelConfig, rules validate.Rules, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		client:      client,
		rules:       rules.WithLogger(log),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTransaction turns a natural-language statement into a validated
// transaction. Upstream completion failures propagate as *UpstreamError
// (there is no safe default transaction), but malformed model output never
// does: parsing degrades through repair to a minimal record, and the
// validators guarantee the result is structurally valid.
func (e *Engine) ExtractTransaction(ctx context.Context, text string) (domain.Transaction, error) {
	now := e.now()

	raw, err := e.client.Complete(ctx, transactionPrompt(now.Format(dateFormat)), text, e.temperature, e.maxTokens)
	if err != nil {
		return domain.Transaction{}, err
	}

	rec := parseObject(normalizeResponse(raw), text, e.rules)
	return e.rules.Transaction(rec, text, now), nil
}

// ExtractDocument turns document text (invoice, receipt, ...) into a
// validated document. Error behavior matches ExtractTransaction.
func (e *Engine) ExtractDocument(ctx context.Context, text, docType string) (domain.Document, error) {
	if docType == "" {
		docType = "invoice"
	}
	now := e.now()

	raw, err := e.client.Complete(ctx, documentPrompt(docType, now.Format(dateFormat)), text, e.temperature, e.maxTokens)
	if err != nil {
		return domain.Document{}, err
	}

	rec := parseObject(normalizeResponse(raw), text, e.rules)
	return e.rules.Document(rec, docType, text, now), nil
}

// AnalyzeQuery classifies a natural-language query into an intent plus
// parameters. Unlike the extraction calls it never fails: any upstream or
// parse problem degrades to general_query with empty parameters. Keyword
// overrides run as part of the analysis, so every caller sees the forced
// category/topic parameters, not just the search path.
func (e *Engine) AnalyzeQuery(ctx context.Context, query string) domain.QueryIntent {
	now := e.now()

	raw, err := e.client.Complete(ctx, intentPrompt(now.Format(dateFormat)), query, e.temperature, e.maxTokens)
	if err != nil {
		e.log.Warn().Err(err).Msg("query analysis failed, defaulting to general_query")
		return domain.GeneralQuery()
	}

	rec := parseObject(normalizeResponse(raw), query, e.rules)
	if _, degraded := rec["error"]; degraded {
		return domain.GeneralQuery()
	}

	intent := domain.Intent(strings.ToLower(strings.TrimSpace(asString(rec["intent"]))))
	if !intent.Valid() {
		intent = domain.IntentGeneralQuery
	}

	params, ok := rec["parameters"].(map[string]any)
	if !ok {
		params = map[string]any{}
	}
	overrideParameters(intent, params, query)

	return domain.QueryIntent{Intent: intent, Parameters: params}
}

// GenerateResponse produces a free-text answer to a query, optionally
// grounded in context data and prior conversation turns.
func (e *Engine) GenerateResponse(ctx context.Context, query string, contextData map[string]any, history []Message) (string, error) {
	now := e.now()

	raw, err := e.client.Complete(ctx, responsePrompt(now.Format(dateFormat)),
		responseUserText(query, contextData, history), e.temperature, e.maxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
