package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/validate"
)

// DocumentExtractor is the slice of the extraction engine the document
// service needs.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, text, docType string) (domain.Document, error)
}

// DocumentStore persists extracted documents.
type DocumentStore interface {
	InsertDocument(ctx context.Context, doc *domain.Document) error
}

// FileStore keeps the original source text of a processed document.
// Implemented by the GCS docstore.
type FileStore interface {
	Put(ctx context.Context, objectName string, data []byte) (string, error)
}

// DocumentService turns document text into stored document records and,
// for invoices and receipts, a linked transaction.
type DocumentService struct {
	extractor    DocumentExtractor
	documents    DocumentStore
	files        FileStore
	transactions TransactionStore
	log          zerolog.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(extractor DocumentExtractor, documents DocumentStore, files FileStore, transactions TransactionStore, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		extractor:    extractor,
		documents:    documents,
		files:        files,
		transactions: transactions,
		log:          log,
	}
}

// ProcessResult is what ProcessText returns to the caller.
type ProcessResult struct {
	Document      domain.Document `json:"document"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Message       string          `json:"message"`
}

// ProcessText extracts a document from raw text, archives the source text,
// stores the record, and creates a linked expense transaction when the
// document is an invoice or receipt.
func (s *DocumentService) ProcessText(ctx context.Context, text, filename, docType string) (*ProcessResult, error) {
	doc, err := s.extractor.ExtractDocument(ctx, text, docType)
	if err != nil {
		return nil, fmt.Errorf("ProcessText: %w", err)
	}
	doc.ID = uuid.NewString()

	objectName := fmt.Sprintf("documents/%s/%s-%s", time.Now().Format("2006/01/02"), doc.ID, filename)
	uri, err := s.files.Put(ctx, objectName, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("ProcessText: archiving source: %w", err)
	}
	doc.SourceURI = uri

	if err := s.documents.InsertDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("ProcessText: storing document: %w", err)
	}

	result := &ProcessResult{
		Document: doc,
		Message:  fmt.Sprintf("Successfully processed document: %s", filename),
	}

	if doc.Type == "invoice" || doc.Type == "receipt" {
		txID, err := s.createLinkedTransaction(ctx, &doc)
		if err != nil {
			// The document itself is stored; a failed linked transaction is
			// reported but does not undo the processing.
			s.log.Error().Err(err).Str("document_id", doc.ID).Msg("linked transaction failed")
		} else {
			result.TransactionID = txID
		}
	}

	s.log.Info().
		Str("document_id", doc.ID).
		Str("type", doc.Type).
		Float64("total", doc.TotalAmount).
		Msg("document processed")

	return result, nil
}

// createLinkedTransaction records the money movement behind an invoice or
// receipt as an expense transaction tagged with the document ID.
func (s *DocumentService) createLinkedTransaction(ctx context.Context, doc *domain.Document) (string, error) {
	description := doc.Type
	if doc.Issuer != "" && doc.Issuer != "Unknown" {
		description = fmt.Sprintf("%s from %s", doc.Type, doc.Issuer)
	}
	if doc.ReferenceNumber != "" {
		description += " #" + doc.ReferenceNumber
	}

	category, ok := inferDocumentCategory(doc)
	if !ok {
		category = "Other Expense"
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		Type:        domain.TypeExpense,
		Amount:      doc.TotalAmount,
		Currency:    doc.Currency,
		Description: description,
		Category:    category,
		Date:        doc.Date,
		PaymentDate: doc.PaymentDate,
		Tags:        map[string]string{"document_id": doc.ID},
	}
	if tx.Amount <= 0 {
		return "", fmt.Errorf("createLinkedTransaction: document %s has no usable total", doc.ID)
	}

	if err := s.transactions.InsertTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("createLinkedTransaction: %w", err)
	}
	return tx.ID, nil
}

// inferDocumentCategory makes a coarse guess from the line items.
func inferDocumentCategory(doc *domain.Document) (string, bool) {
	var parts []string
	for _, item := range doc.Items {
		parts = append(parts, item.Description)
	}
	if len(parts) == 0 {
		return "", false
	}
	return validate.InferCategory(domain.TypeExpense, strings.Join(parts, " "))
}
