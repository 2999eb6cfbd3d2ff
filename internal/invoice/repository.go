// AngelaMos | 2026
// repository.go

package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetForOwner(ctx context.Context, id, ownerID string) (*Invoice, error)
	ListForOwner(
		ctx context.Context,
		ownerID string,
		limit, offset int,
	) ([]Invoice, int, error)
	UpdateStatus(ctx context.Context, id, ownerID string, status Status) error
	Delete(ctx context.Context, id, ownerID string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const invoiceColumns = `
	id, invoice_number, client_name, client_email, amount, currency, status,
	issue_date, due_date, notes, user_id, created_at, updated_at`

// Create stores the invoice and its line items in one transaction. A clash
// on invoice_number surfaces as core.ErrDuplicateKey.
func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO invoices (
				id, invoice_number, client_name, client_email, amount, currency,
				status, issue_date, due_date, notes, user_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, inv, query,
			inv.ID,
			inv.InvoiceNumber,
			inv.ClientName,
			inv.ClientEmail,
			inv.Amount,
			inv.Currency,
			inv.Status,
			inv.IssueDate,
			inv.DueDate,
			inv.Notes,
			inv.UserID,
		)
		if err != nil {
			if core.IsUniqueViolation(err) {
				return fmt.Errorf("create invoice: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create invoice: %w", err)
		}

		itemQuery := `
			INSERT INTO invoice_line_items (
				id, invoice_id, position, description, quantity, unit_price, total
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		for i := range inv.LineItems {
			item := &inv.LineItems[i]
			item.InvoiceID = inv.ID

			_, err := tx.ExecContext(ctx, itemQuery,
				item.ID,
				item.InvoiceID,
				item.Position,
				item.Description,
				item.Quantity,
				item.UnitPrice,
				item.Total,
			)
			if err != nil {
				return fmt.Errorf("create line item: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) GetForOwner(
	ctx context.Context,
	id, ownerID string,
) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND user_id = $2`

	var inv Invoice
	err := r.db.GetContext(ctx, &inv, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invoice: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	invoices := []Invoice{inv}
	if err := r.attachLineItems(ctx, invoices); err != nil {
		return nil, err
	}

	return &invoices[0], nil
}

// ListForOwner returns one page, newest first, plus the owner's total count.
func (r *repository) ListForOwner(
	ctx context.Context,
	ownerID string,
	limit, offset int,
) ([]Invoice, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM invoices WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	invoices := []Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, ownerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	if err := r.attachLineItems(ctx, invoices); err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *repository) attachLineItems(
	ctx context.Context,
	invoices []Invoice,
) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, len(invoices))
	byID := make(map[string]int, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
		byID[invoices[i].ID] = i
		invoices[i].LineItems = []LineItem{}
	}

	query, args, err := sqlx.In(`
		SELECT id, invoice_id, position, description, quantity, unit_price, total
		FROM invoice_line_items
		WHERE invoice_id IN (?)
		ORDER BY invoice_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load line items: %w", err)
	}

	var items []LineItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load line items: %w", err)
	}

	for _, item := range items {
		if i, ok := byID[item.InvoiceID]; ok {
			invoices[i].LineItems = append(invoices[i].LineItems, item)
		}
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, ownerID string,
	status Status,
) error {
	query := `
		UPDATE invoices
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	return requireAffected(result, "update invoice status")
}

// Delete removes the invoice; line items go with it via ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM invoices WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	return requireAffected(result, "delete invoice")
}

type statusCount struct {
	Status Status `db:"status"`
	Count  int    `db:"count"`
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM invoices GROUP BY status`

	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	counts := make(map[Status]int, len(rows))
	for _, sc := range rows {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func requireAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
