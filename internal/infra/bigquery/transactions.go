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

// InsertTransaction writes one transaction into the transactions table.
func (r *Repository) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	row, err := rowFromTransaction(tx)
	if err != nil {
		return fmt.Errorf("InsertTransaction: %w", err)
	}
	if err := r.table(transactionsTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertTransaction: inserting row: %w", err)
	}
	return nil
}

// InsertRecurringItem writes one recurring schedule into recurring_items.
func (r *Repository) InsertRecurringItem(ctx context.Context, item *domain.RecurringItem) error {
	row, err := rowFromRecurring(item)
	if err != nil {
		return fmt.Errorf("InsertRecurringItem: %w", err)
	}
	if err := r.table(recurringTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertRecurringItem: inserting row: %w", err)
	}
	return nil
}

// SearchTransactions queries transactions matching the given filters,
// newest first.
func (r *Repository) SearchTransactions(ctx context.Context, f search.TransactionFilters, limit int) ([]domain.Transaction, error) {
	var (
		conditions []string
		params     []bigquery.QueryParameter
	)

	if f.Type != "" {
		conditions = append(conditions, "type = @type")
		params = append(params, bigquery.QueryParameter{Name: "type", Value: f.Type})
	}
	if f.Category != "" {
		conditions = append(conditions, "category = @category")
		params = append(params, bigquery.QueryParameter{Name: "category", Value: f.Category})
	}
	if f.MinAmount != nil {
		conditions = append(conditions, "amount >= @min_amount")
		params = append(params, bigquery.QueryParameter{Name: "min_amount", Value: *f.MinAmount})
	}
	if f.MaxAmount != nil {
		conditions = append(conditions, "amount <= @max_amount")
		params = append(params, bigquery.QueryParameter{Name: "max_amount", Value: *f.MaxAmount})
	}
	if f.StartDate != "" {
		conditions = append(conditions, "transaction_date >= @start_date")
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: f.StartDate})
	}
	if f.EndDate != "" {
		conditions = append(conditions, "transaction_date <= @end_date")
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: f.EndDate})
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id, type, amount, currency, description, category,
			transaction_date, payment_date, recurring, frequency, recurring_id,
			tags, created_ts
		FROM %s.%s
		%s
		ORDER BY transaction_date DESC, created_ts DESC
		LIMIT @limit
	`, r.dataset, transactionsTable, where))
	q.Parameters = append(params, bigquery.QueryParameter{Name: "limit", Value: int64(limit)})

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("SearchTransactions: query read: %w", err)
	}

	var results []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("SearchTransactions: iter next: %w", err)
		}
		results = append(results, row.toDomain())
	}

	return results, nil
}
