package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (r *Repository) CreateInvoice(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	const q = `
	INSERT INTO invoices (
		client_id,
		invoice_number,
		invoice_date,
		due_date,
		currency,
		status,
		notes,
		notes_en,
		total_jpy,
		bank_account_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		q,
		inv.ClientID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Currency,
		inv.Status,
		zeronull.Text(inv.Notes),
		zeronull.Text(inv.NotesEN),
		inv.TotalJPY,
		zeronull.Int8(inv.BankAccountID),
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return entity.Invoice{}, err
	}

	return inv, nil
}

func (r *Repository) InsertItems(ctx context.Context, invoiceID int64, items []entity.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	stmt := sq.Insert("invoice_items").Columns(
		"invoice_id",
		"description",
		"description_en",
		"unit_cost",
		"qty",
		"tax_rate",
		"unit",
		"currency",
		"exchange_rate",
		"amount_jpy",
		"sort_order",
	).PlaceholderFormat(sq.Dollar)

	for _, item := range items {
		stmt = stmt.Values(
			invoiceID,
			item.Description,
			zeronull.Text(item.DescriptionEN),
			item.UnitCost,
			item.Qty,
			item.TaxRate,
			zeronull.Text(item.Unit),
			item.Currency,
			item.ExchangeRate,
			item.AmountJPY,
			item.SortOrder,
		)
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)

	return err
}

func (r *Repository) InsertExchangeRates(ctx context.Context, invoiceID int64, rates []entity.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	stmt := sq.Insert("exchange_rates").
		Columns("invoice_id", "currency", "rate", "rate_date").
		PlaceholderFormat(sq.Dollar)

	for _, rate := range rates {
		stmt = stmt.Values(invoiceID, rate.Currency, rate.Rate, rate.RateDate)
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)

	return err
}

func (r *Repository) DeleteItems(ctx context.Context, invoiceID int64) error {
	const q = `DELETE FROM invoice_items WHERE invoice_id = $1`

	_, err := r.db.Exec(ctx, q, invoiceID)

	return err
}

// UpdateInvoice applies only the fields present in upd. totalJPY is set when
// the item set was replaced and the cached total must follow.
func (r *Repository) UpdateInvoice(ctx context.Context, id int64, upd entity.InvoiceUpdate, totalJPY *int64) error {
	set := map[string]any{}

	if upd.ClientID != nil {
		set["client_id"] = *upd.ClientID
	}

	if upd.InvoiceNumber != nil {
		set["invoice_number"] = *upd.InvoiceNumber
	}

	if upd.InvoiceDate != nil {
		set["invoice_date"] = *upd.InvoiceDate
	}

	if upd.DueDate != nil {
		set["due_date"] = *upd.DueDate
	}

	if upd.Currency != nil {
		set["currency"] = *upd.Currency
	}

	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	if upd.Notes != nil {
		set["notes"] = zeronull.Text(*upd.Notes)
	}

	if upd.NotesEN != nil {
		set["notes_en"] = zeronull.Text(*upd.NotesEN)
	}

	if upd.BankAccountID != nil {
		set["bank_account_id"] = zeronull.Int8(*upd.BankAccountID)
	}

	if totalJPY != nil {
		set["total_jpy"] = *totalJPY
	}

	if len(set) == 0 {
		return nil
	}

	sql, args, err := sq.Update("invoices").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// DeleteInvoice removes the header; items and exchange-rate snapshots go
// with it via ON DELETE CASCADE.
func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	const q = `DELETE FROM invoices WHERE id = $1`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *Repository) Invoice(ctx context.Context, id int64) (entity.Invoice, error) {
	q := selectInvoice + " WHERE id = $1"

	var inv entity.Invoice

	err := r.db.QueryRow(ctx, q, id).Scan(
		&inv.ID,
		&inv.ClientID,
		&inv.InvoiceNumber,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.Currency,
		&inv.Status,
		(*zeronull.Text)(&inv.Notes),
		(*zeronull.Text)(&inv.NotesEN),
		&inv.TotalJPY,
		(*zeronull.Int8)(&inv.BankAccountID),
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Invoice{}, entity.ErrNotFound
		}

		return entity.Invoice{}, err
	}

	return inv, nil
}

func (r *Repository) InvoiceItems(ctx context.Context, invoiceID int64) ([]entity.LineItem, error) {
	q := selectItems + " WHERE invoice_id = $1 ORDER BY sort_order, id"

	rows, err := r.db.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var items []entity.LineItem

	for rows.Next() {
		var item entity.LineItem

		err = rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
			(*zeronull.Text)(&item.DescriptionEN),
			&item.UnitCost,
			&item.Qty,
			&item.TaxRate,
			(*zeronull.Text)(&item.Unit),
			&item.Currency,
			&item.ExchangeRate,
			&item.AmountJPY,
			&item.SortOrder,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) InvoiceExchangeRates(ctx context.Context, invoiceID int64) ([]entity.ExchangeRate, error) {
	q := selectExchangeRates + " WHERE invoice_id = $1 ORDER BY id"

	rows, err := r.db.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var rates []entity.ExchangeRate

	for rows.Next() {
		var rate entity.ExchangeRate

		err = rows.Scan(&rate.ID, &rate.InvoiceID, &rate.Currency, &rate.Rate, &rate.RateDate)
		if err != nil {
			return nil, err
		}

		rates = append(rates, rate)
	}

	return rates, rows.Err()
}

// Invoices returns one page of headers joined with the client name, plus the
// total count of rows matching the same predicate. Both queries share
// applyInvoiceFilter so the count can never drift from the page.
func (r *Repository) Invoices(ctx context.Context, f entity.InvoiceFilter) ([]entity.InvoiceRow, int, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	stmt := sq.Select(
		"invoices.id",
		"invoices.invoice_number",
		"invoices.invoice_date",
		"invoices.due_date",
		"invoices.currency",
		"invoices.status",
		"invoices.total_jpy",
		"COALESCE(clients.name, '')",
	).
		From("invoices").
		LeftJoin("clients ON clients.id = invoices.client_id").
		PlaceholderFormat(sq.Dollar)

	stmt = applyInvoiceFilter(stmt, f).
		OrderBy(f.Sort.OrderBy(), "invoices.id DESC").
		Limit(entity.InvoicePageSize).
		Offset((page - 1) * entity.InvoicePageSize)

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	invoices := make([]entity.InvoiceRow, 0, entity.InvoicePageSize)

	for rows.Next() {
		var row entity.InvoiceRow

		err = rows.Scan(
			&row.ID,
			&row.InvoiceNumber,
			&row.InvoiceDate,
			&row.DueDate,
			&row.Currency,
			&row.Status,
			&row.TotalJPY,
			&row.ClientName,
		)
		if err != nil {
			return nil, 0, err
		}

		invoices = append(invoices, row)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	countStmt := sq.Select("COUNT(*)").
		From("invoices").
		LeftJoin("clients ON clients.id = invoices.client_id").
		PlaceholderFormat(sq.Dollar)

	sql, args, err = applyInvoiceFilter(countStmt, f).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int

	err = r.db.QueryRow(ctx, sql, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func applyInvoiceFilter(stmt sq.SelectBuilder, f entity.InvoiceFilter) sq.SelectBuilder {
	if f.Query != nil {
		term := "%" + strings.ToLower(*f.Query) + "%"
		stmt = stmt.Where(sq.Or{
			sq.Like{"LOWER(invoices.invoice_number)": term},
			sq.Like{"LOWER(COALESCE(clients.name, ''))": term},
			sq.Like{"LOWER(COALESCE(invoices.notes, ''))": term},
		})
	}

	if f.Status != nil {
		stmt = stmt.Where(sq.Eq{"invoices.status": *f.Status})
	}

	if f.DateFrom != nil {
		stmt = stmt.Where(sq.GtOrEq{"invoices.invoice_date": *f.DateFrom})
	}

	if f.DateTo != nil {
		stmt = stmt.Where(sq.LtOrEq{"invoices.invoice_date": *f.DateTo})
	}

	if f.ClientID != nil {
		stmt = stmt.Where(sq.Eq{"invoices.client_id": *f.ClientID})
	}

	return stmt
}

// CountClientInvoices backs the client-delete conflict check.
func (r *Repository) CountClientInvoices(ctx context.Context, clientID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM invoices WHERE client_id = $1`

	var count int64

	err := r.db.QueryRow(ctx, q, clientID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
