package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"

	"github.com/nlcsoft/invoicing/internal/entity"
)

const selectSettings = `SELECT
	company_name,
	company_address,
	company_address_en,
	bank_name,
	bank_branch,
	account_type,
	account_number,
	account_holder,
	account_holder_en,
	tax_registration_number,
	bank_code,
	swift_code,
	bank_name_en,
	bank_branch_en
FROM app_settings WHERE id = 1`

// Settings returns the single settings row, or the zero value before the
// first save.
func (r *Repository) Settings(ctx context.Context) (entity.Settings, error) {
	var s entity.Settings

	err := r.db.QueryRow(ctx, selectSettings).Scan(
		(*zeronull.Text)(&s.CompanyName),
		(*zeronull.Text)(&s.CompanyAddress),
		(*zeronull.Text)(&s.CompanyAddressEN),
		(*zeronull.Text)(&s.BankName),
		(*zeronull.Text)(&s.BankBranch),
		(*zeronull.Text)(&s.AccountType),
		(*zeronull.Text)(&s.AccountNumber),
		(*zeronull.Text)(&s.AccountHolder),
		(*zeronull.Text)(&s.AccountHolderEN),
		(*zeronull.Text)(&s.TaxRegistrationNumber),
		(*zeronull.Text)(&s.BankCode),
		(*zeronull.Text)(&s.SwiftCode),
		(*zeronull.Text)(&s.BankNameEN),
		(*zeronull.Text)(&s.BankBranchEN),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Settings{}, nil
		}

		return entity.Settings{}, err
	}

	return s, nil
}

func (r *Repository) SaveSettings(ctx context.Context, s entity.Settings) error {
	const q = `
	INSERT INTO app_settings (
		id,
		company_name,
		company_address,
		company_address_en,
		bank_name,
		bank_branch,
		account_type,
		account_number,
		account_holder,
		account_holder_en,
		tax_registration_number,
		bank_code,
		swift_code,
		bank_name_en,
		bank_branch_en
	)
	VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		company_name = EXCLUDED.company_name,
		company_address = EXCLUDED.company_address,
		company_address_en = EXCLUDED.company_address_en,
		bank_name = EXCLUDED.bank_name,
		bank_branch = EXCLUDED.bank_branch,
		account_type = EXCLUDED.account_type,
		account_number = EXCLUDED.account_number,
		account_holder = EXCLUDED.account_holder,
		account_holder_en = EXCLUDED.account_holder_en,
		tax_registration_number = EXCLUDED.tax_registration_number,
		bank_code = EXCLUDED.bank_code,
		swift_code = EXCLUDED.swift_code,
		bank_name_en = EXCLUDED.bank_name_en,
		bank_branch_en = EXCLUDED.bank_branch_en
	`

	_, err := r.db.Exec(
		ctx,
		q,
		zeronull.Text(s.CompanyName),
		zeronull.Text(s.CompanyAddress),
		zeronull.Text(s.CompanyAddressEN),
		zeronull.Text(s.BankName),
		zeronull.Text(s.BankBranch),
		zeronull.Text(s.AccountType),
		zeronull.Text(s.AccountNumber),
		zeronull.Text(s.AccountHolder),
		zeronull.Text(s.AccountHolderEN),
		zeronull.Text(s.TaxRegistrationNumber),
		zeronull.Text(s.BankCode),
		zeronull.Text(s.SwiftCode),
		zeronull.Text(s.BankNameEN),
		zeronull.Text(s.BankBranchEN),
	)

	return err
}
