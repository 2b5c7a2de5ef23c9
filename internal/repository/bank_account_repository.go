package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (r *Repository) BankAccounts(ctx context.Context) ([]entity.BankAccount, error) {
	q := selectBankAccount + " ORDER BY sort_order, id"

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var accounts []entity.BankAccount

	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *Repository) BankAccount(ctx context.Context, id int64) (entity.BankAccount, error) {
	q := selectBankAccount + " WHERE id = $1"
	return scanBankAccount(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) CreateBankAccount(ctx context.Context, a entity.BankAccount) (entity.BankAccount, error) {
	const q = `
	INSERT INTO bank_accounts (
		label,
		bank_name,
		bank_branch,
		bank_name_en,
		bank_branch_en,
		account_type,
		account_number,
		account_holder,
		account_holder_en,
		bank_code,
		swift_code,
		is_default,
		sort_order
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		q,
		a.Label,
		zeronull.Text(a.BankName),
		zeronull.Text(a.BankBranch),
		zeronull.Text(a.BankNameEN),
		zeronull.Text(a.BankBranchEN),
		zeronull.Text(a.AccountType),
		zeronull.Text(a.AccountNumber),
		zeronull.Text(a.AccountHolder),
		zeronull.Text(a.AccountHolderEN),
		zeronull.Text(a.BankCode),
		zeronull.Text(a.SwiftCode),
		a.IsDefault,
		a.SortOrder,
	).Scan(&a.ID)
	if err != nil {
		return entity.BankAccount{}, err
	}

	return a, nil
}

func (r *Repository) UpdateBankAccount(ctx context.Context, id int64, upd entity.BankAccountUpdate) error {
	set := map[string]any{}

	if upd.Label != nil {
		set["label"] = *upd.Label
	}

	if upd.BankName != nil {
		set["bank_name"] = zeronull.Text(*upd.BankName)
	}

	if upd.BankBranch != nil {
		set["bank_branch"] = zeronull.Text(*upd.BankBranch)
	}

	if upd.BankNameEN != nil {
		set["bank_name_en"] = zeronull.Text(*upd.BankNameEN)
	}

	if upd.BankBranchEN != nil {
		set["bank_branch_en"] = zeronull.Text(*upd.BankBranchEN)
	}

	if upd.AccountType != nil {
		set["account_type"] = zeronull.Text(*upd.AccountType)
	}

	if upd.AccountNumber != nil {
		set["account_number"] = zeronull.Text(*upd.AccountNumber)
	}

	if upd.AccountHolder != nil {
		set["account_holder"] = zeronull.Text(*upd.AccountHolder)
	}

	if upd.AccountHolderEN != nil {
		set["account_holder_en"] = zeronull.Text(*upd.AccountHolderEN)
	}

	if upd.BankCode != nil {
		set["bank_code"] = zeronull.Text(*upd.BankCode)
	}

	if upd.SwiftCode != nil {
		set["swift_code"] = zeronull.Text(*upd.SwiftCode)
	}

	if upd.IsDefault != nil {
		set["is_default"] = *upd.IsDefault
	}

	if upd.SortOrder != nil {
		set["sort_order"] = *upd.SortOrder
	}

	if len(set) == 0 {
		return nil
	}

	sql, args, err := sq.Update("bank_accounts").
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

func (r *Repository) DeleteBankAccount(ctx context.Context, id int64) error {
	const q = `DELETE FROM bank_accounts WHERE id = $1`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// ClearDefaultFlags drops the default marker from every account. Runs right
// before a write that marks a new default, so at most one account ends up
// flagged; see the race note in the service layer.
func (r *Repository) ClearDefaultFlags(ctx context.Context) error {
	const q = `UPDATE bank_accounts SET is_default = false WHERE is_default`

	_, err := r.db.Exec(ctx, q)

	return err
}

func scanBankAccount(row pgx.Row) (entity.BankAccount, error) {
	var a entity.BankAccount

	err := row.Scan(
		&a.ID,
		&a.Label,
		(*zeronull.Text)(&a.BankName),
		(*zeronull.Text)(&a.BankBranch),
		(*zeronull.Text)(&a.BankNameEN),
		(*zeronull.Text)(&a.BankBranchEN),
		(*zeronull.Text)(&a.AccountType),
		(*zeronull.Text)(&a.AccountNumber),
		(*zeronull.Text)(&a.AccountHolder),
		(*zeronull.Text)(&a.AccountHolderEN),
		(*zeronull.Text)(&a.BankCode),
		(*zeronull.Text)(&a.SwiftCode),
		&a.IsDefault,
		&a.SortOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.BankAccount{}, entity.ErrNotFound
		}

		return entity.BankAccount{}, err
	}

	return a, nil
}
