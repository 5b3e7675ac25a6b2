// Package service wires the extraction engine to the record stores:
// creating transactions from natural language (including recurring
// schedules) and processing documents into stored records plus linked
// transactions.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// TransactionExtractor is the slice of the extraction engine this service
// needs.
type TransactionExtractor interface {
	ExtractTransaction(ctx context.Context, text string) (domain.Transaction, error)
}

// TransactionStore persists transactions and recurring schedules.
// Implemented by the BigQuery repository.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	InsertRecurringItem(ctx context.Context, item *domain.RecurringItem) error
}

// TransactionService creates transactions from natural-language text.
type TransactionService struct {
	extractor TransactionExtractor
	store     TransactionStore
	log       zerolog.Logger
}

// NewTransactionService creates a transaction service.
func NewTransactionService(extractor TransactionExtractor, store TransactionStore, log zerolog.Logger) *TransactionService {
	return &TransactionService{
		extractor: extractor,
		store:     store,
		log:       log,
	}
}

// CreateResult is what CreateFromText returns to the caller.
type CreateResult struct {
	Transaction   domain.Transaction    `json:"transaction"`
	RecurringItem *domain.RecurringItem `json:"recurring_item,omitempty"`
	Message       string                `json:"message"`
}

// CreateFromText extracts a transaction from free text and stores it. When
// the extraction marks the transaction recurring with a valid frequency, a
// recurring schedule is created first and the transaction links to it.
func (s *TransactionService) CreateFromText(ctx context.Context, text string) (*CreateResult, error) {
	tx, err := s.extractor.ExtractTransaction(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("CreateFromText: %w", err)
	}
	tx.ID = uuid.NewString()

	result := &CreateResult{}

	if tx.Recurring && tx.Frequency != "" {
		startDate := tx.StartDate
		if startDate == "" {
			startDate = tx.Date
		}

		item := &domain.RecurringItem{
			ID:          uuid.NewString(),
			Type:        tx.Type,
			Amount:      tx.Amount,
			Currency:    tx.Currency,
			Description: tx.Description,
			Category:    tx.Category,
			Frequency:   tx.Frequency,
			StartDate:   startDate,
			EndDate:     tx.EndDate,
			Metadata:    map[string]string{"source": "natural_language", "original_text": text},
		}
		if err := s.store.InsertRecurringItem(ctx, item); err != nil {
			return nil, fmt.Errorf("CreateFromText: storing recurring item: %w", err)
		}

		tx.RecurringID = item.ID
		result.RecurringItem = item
		result.Message = fmt.Sprintf("Created recurring %s of %s %.2f for %s",
			tx.Type, tx.Currency, tx.Amount, tx.Description)
	} else {
		result.Message = fmt.Sprintf("Created %s of %s %.2f for %s",
			tx.Type, tx.Currency, tx.Amount, tx.Description)
	}

	if err := s.store.InsertTransaction(ctx, &tx); err != nil {
		return nil, fmt.Errorf("CreateFromText: storing transaction: %w", err)
	}

	s.log.Info().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Float64("amount", tx.Amount).
		Msg("transaction created from text")

	result.Transaction = tx
	return result, nil
}
