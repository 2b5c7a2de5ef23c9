package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (r *Repository) Clients(ctx context.Context) ([]entity.Client, error) {
	q := selectClient + " ORDER BY name, id"

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var clients []entity.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (r *Repository) Client(ctx context.Context, id int64) (entity.Client, error) {
	q := selectClient + " WHERE id = $1"
	return scanClient(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) CreateClient(ctx context.Context, c entity.Client) (entity.Client, error) {
	const q = `
	INSERT INTO clients (
		name,
		name_en,
		address,
		address_en,
		contact_name,
		contact_email,
		invoice_prefix,
		currency,
		tax_rate
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		q,
		c.Name,
		zeronull.Text(c.NameEN),
		zeronull.Text(c.Address),
		zeronull.Text(c.AddressEN),
		zeronull.Text(c.ContactName),
		zeronull.Text(c.ContactEmail),
		c.InvoicePrefix,
		c.Currency,
		c.TaxRate,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return entity.Client{}, err
	}

	return c, nil
}

func (r *Repository) UpdateClient(ctx context.Context, id int64, upd entity.ClientUpdate) error {
	set := map[string]any{}

	if upd.Name != nil {
		set["name"] = *upd.Name
	}

	if upd.NameEN != nil {
		set["name_en"] = zeronull.Text(*upd.NameEN)
	}

	if upd.Address != nil {
		set["address"] = zeronull.Text(*upd.Address)
	}

	if upd.AddressEN != nil {
		set["address_en"] = zeronull.Text(*upd.AddressEN)
	}

	if upd.ContactName != nil {
		set["contact_name"] = zeronull.Text(*upd.ContactName)
	}

	if upd.ContactEmail != nil {
		set["contact_email"] = zeronull.Text(*upd.ContactEmail)
	}

	if upd.InvoicePrefix != nil {
		set["invoice_prefix"] = *upd.InvoicePrefix
	}

	if upd.Currency != nil {
		set["currency"] = *upd.Currency
	}

	if upd.TaxRate != nil {
		set["tax_rate"] = *upd.TaxRate
	}

	if len(set) == 0 {
		return nil
	}

	sql, args, err := sq.Update("clients").
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

func (r *Repository) DeleteClient(ctx context.Context, id int64) error {
	const q = `DELETE FROM clients WHERE id = $1`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func scanClient(row pgx.Row) (entity.Client, error) {
	var c entity.Client

	err := row.Scan(
		&c.ID,
		&c.Name,
		(*zeronull.Text)(&c.NameEN),
		(*zeronull.Text)(&c.Address),
		(*zeronull.Text)(&c.AddressEN),
		(*zeronull.Text)(&c.ContactName),
		(*zeronull.Text)(&c.ContactEmail),
		&c.InvoicePrefix,
		&c.Currency,
		&c.TaxRate,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Client{}, entity.ErrNotFound
		}

		return entity.Client{}, err
	}

	return c, nil
}
