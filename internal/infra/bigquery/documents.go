package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/search"
)

// InsertDocument writes one document into the documents table.
func (r *Repository) InsertDocument(ctx context.Context, doc *domain.Document) error {
	row, err := rowFromDocument(doc)
	if err != nil {
		return fmt.Errorf("InsertDocument: %w", err)
	}
	if err := r.table(documentsTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// SearchDocuments queries documents matching the given filters, newest first.
func (r *Repository) SearchDocuments(ctx context.Context, f search.DocumentFilters, limit int) ([]domain.Document, error) {
	var (
		conditions []string
		params     []bigquery.QueryParameter
	)

	if f.Type != "" {
		conditions = append(conditions, "type = @type")
		params = append(params, bigquery.QueryParameter{Name: "type", Value: f.Type})
	}
	if f.StartDate != "" {
		conditions = append(conditions, "document_date >= @start_date")
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: f.StartDate})
	}
	if f.EndDate != "" {
		conditions = append(conditions, "document_date <= @end_date")
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: f.EndDate})
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	q := r.client.Query(fmt.Sprintf(`
		SELECT
			document_id, type, issuer, recipient, document_date, due_date,
			total_amount, currency, items, tax, payment_status, payment_date,
			reference_number, notes, source_uri, created_ts
		FROM %s.%s
		%s
		ORDER BY document_date DESC, created_ts DESC
		LIMIT @limit
	`, r.dataset, documentsTable, where))
	q.Parameters = append(params, bigquery.QueryParameter{Name: "limit", Value: int64(limit)})

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SearchDocuments: query read: %w", err)
	}

	var results []domain.Document
	for {
		var row DocumentRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("SearchDocuments: iter next: %w", err)
		}
		results = append(results, row.toDomain())
	}

	return results, nil
}

// TextSearch does a plain substring search over transaction descriptions and
// document issuers/notes. referenceType of "transaction" or "document"
// restricts the search to one collection; empty searches both.
func (r *Repository) TextSearch(ctx context.Context, query, referenceType string, limit int) ([]search.TextResult, error) {
	needle := "%" + strings.ToLower(query) + "%"
	var results []search.TextResult

	if referenceType == "" || referenceType == "transaction" {
		q := r.client.Query(fmt.Sprintf(`
			SELECT
				transaction_id, type, amount, currency, description, category,
				transaction_date, payment_date, recurring, frequency, recurring_id,
				tags, created_ts
			FROM %s.%s
			WHERE LOWER(description) LIKE @needle OR LOWER(category) LIKE @needle
			ORDER BY transaction_date DESC
			LIMIT @limit
		`, r.dataset, transactionsTable))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "needle", Value: needle},
			{Name: "limit", Value: int64(limit)},
		}

		it, err := q.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("TextSearch: transactions query read: %w", err)
		}
		for {
			var row TransactionRow
			err := it.Next(&row)
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("TextSearch: transactions iter next: %w", err)
			}
			tx := row.toDomain()
			results = append(results, search.TextResult{ReferenceType: "transaction", Transaction: &tx})
		}
	}

	if referenceType == "" || referenceType == "document" {
		q := r.client.Query(fmt.Sprintf(`
			SELECT
				document_id, type, issuer, recipient, document_date, due_date,
				total_amount, currency, items, tax, payment_status, payment_date,
				reference_number, notes, source_uri, created_ts
			FROM %s.%s
			WHERE LOWER(issuer) LIKE @needle OR LOWER(notes) LIKE @needle
			ORDER BY document_date DESC
			LIMIT @limit
		`, r.dataset, documentsTable))
		q.Parameters = []bigquery.QueryParameter{
			{Name: "needle", Value: needle},
			{Name: "limit", Value: int64(limit)},
		}

		it, err := q.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("TextSearch: documents query read: %w", err)
		}
		for {
			var row DocumentRow
			err := it.Next(&row)
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("TextSearch: documents iter next: %w", err)
			}
			doc := row.toDomain()
			results = append(results, search.TextResult{ReferenceType: "document", Document: &doc})
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
