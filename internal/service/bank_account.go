package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func (s *Service) BankAccounts(ctx context.Context) ([]entity.BankAccount, error) {
	accounts, err := s.repo.BankAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}

	return accounts, nil
}

// CreateBankAccount inserts an account. When the new account is marked
// default, every other default flag is cleared first so at most one account
// carries it. The clear and the insert are two sequential statements; two
// concurrent default writes can still interleave and both win. Closing that
// requires a single conditional store write, which the store is not assumed
// to offer.
func (s *Service) CreateBankAccount(ctx context.Context, a entity.BankAccount) (entity.BankAccount, error) {
	err := validateBankAccount(a)
	if err != nil {
		return entity.BankAccount{}, err
	}

	if a.IsDefault {
		err = s.repo.ClearDefaultFlags(ctx)
		if err != nil {
			return entity.BankAccount{}, fmt.Errorf("clear default flags: %w", err)
		}
	}

	created, err := s.repo.CreateBankAccount(ctx, a)
	if err != nil {
		return entity.BankAccount{}, fmt.Errorf("insert bank account: %w", err)
	}

	slog.InfoContext(ctx, "bank account created", "bank_account_id", created.ID, "is_default", created.IsDefault)

	return created, nil
}

// UpdateBankAccount applies a partial update under the same exclusivity
// protocol as create: a write that sets the default flag clears it everywhere
// else first.
func (s *Service) UpdateBankAccount(ctx context.Context, id int64, upd entity.BankAccountUpdate) (entity.BankAccount, error) {
	err := validateBankAccountUpdate(upd)
	if err != nil {
		return entity.BankAccount{}, err
	}

	if upd.IsDefault != nil && *upd.IsDefault {
		err = s.repo.ClearDefaultFlags(ctx)
		if err != nil {
			return entity.BankAccount{}, fmt.Errorf("clear default flags: %w", err)
		}
	}

	err = s.repo.UpdateBankAccount(ctx, id, upd)
	if err != nil {
		return entity.BankAccount{}, fmt.Errorf("update bank account %d: %w", id, err)
	}

	account, err := s.repo.BankAccount(ctx, id)
	if err != nil {
		return entity.BankAccount{}, fmt.Errorf("reload bank account %d: %w", id, err)
	}

	return account, nil
}

func (s *Service) DeleteBankAccount(ctx context.Context, id int64) error {
	err := s.repo.DeleteBankAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete bank account %d: %w", id, err)
	}

	return nil
}
