package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nlcsoft/invoicing/internal/entity"
	"github.com/nlcsoft/invoicing/internal/mocks"
	"github.com/nlcsoft/invoicing/internal/service"
)

func testInvoice() entity.Invoice {
	return entity.Invoice{
		ClientID:      1,
		InvoiceNumber: "NLCS-January 2026",
		InvoiceDate:   "2026-01-01",
		DueDate:       "2026-02-28",
		Currency:      entity.CurrencyJPY,
		Status:        entity.StatusDraft,
		Items: []entity.LineItem{
			{
				Description:  "開発業務",
				UnitCost:     decimal.NewFromInt(1000),
				Qty:          decimal.NewFromInt(2),
				TaxRate:      decimal.RequireFromString("0.1"),
				ExchangeRate: decimal.NewFromInt(1),
			},
		},
	}
}

func TestService_CreateInvoice(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	producer := mocks.NewMockProducer(ctrl)

	inv := testInvoice()

	repo.EXPECT().CreateInvoice(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in entity.Invoice) (entity.Invoice, error) {
			require.EqualValues(t, 2200, in.TotalJPY)
			in.ID = 7
			return in, nil
		})
	repo.EXPECT().InsertItems(context.Background(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, items []entity.LineItem) error {
			require.Len(t, items, 1)
			require.EqualValues(t, 2200, items[0].AmountJPY)
			return nil
		})
	repo.EXPECT().InsertExchangeRates(context.Background(), int64(7), gomock.Any()).Return(nil)
	producer.EXPECT().InvoiceCreated(context.Background(), int64(7), inv.InvoiceNumber, int64(2200))

	s := service.New(repo, producer)

	created, err := s.CreateInvoice(context.Background(), inv)
	require.NoError(t, err)
	require.EqualValues(t, 7, created.ID)
	require.EqualValues(t, 2200, created.TotalJPY)
}

func TestService_CreateInvoice_SeedsClientDefaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	inv := testInvoice()
	inv.InvoiceNumber = ""
	inv.Currency = ""
	inv.DueDate = ""

	repo.EXPECT().Client(context.Background(), int64(1)).
		Return(entity.Client{ID: 1, InvoicePrefix: "NLCS-", Currency: entity.CurrencyJPY}, nil)
	repo.EXPECT().CreateInvoice(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in entity.Invoice) (entity.Invoice, error) {
			require.Equal(t, "NLCS-January 2026", in.InvoiceNumber)
			require.Equal(t, entity.CurrencyJPY, in.Currency)
			require.Equal(t, "2026-02-28", in.DueDate)
			in.ID = 8
			return in, nil
		})
	repo.EXPECT().InsertItems(context.Background(), int64(8), gomock.Any()).Return(nil)
	repo.EXPECT().InsertExchangeRates(context.Background(), int64(8), gomock.Any()).Return(nil)

	s := service.New(repo, nil)

	created, err := s.CreateInvoice(context.Background(), inv)
	require.NoError(t, err)
	require.Equal(t, "NLCS-January 2026", created.InvoiceNumber)
}

func TestService_CreateInvoice_CompensatesOnItemFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	insertErr := errors.New("connection reset")

	repo.EXPECT().CreateInvoice(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in entity.Invoice) (entity.Invoice, error) {
			in.ID = 11
			return in, nil
		})
	repo.EXPECT().InsertItems(context.Background(), int64(11), gomock.Any()).Return(insertErr)
	repo.EXPECT().DeleteInvoice(context.Background(), int64(11)).Return(nil)

	s := service.New(repo, nil)

	_, err := s.CreateInvoice(context.Background(), testInvoice())
	require.ErrorIs(t, err, insertErr)
}

func TestService_CreateInvoice_CompensationFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	insertErr := errors.New("connection reset")

	repo.EXPECT().CreateInvoice(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in entity.Invoice) (entity.Invoice, error) {
			in.ID = 12
			return in, nil
		})
	repo.EXPECT().InsertItems(context.Background(), int64(12), gomock.Any()).Return(insertErr)
	repo.EXPECT().DeleteInvoice(context.Background(), int64(12)).Return(errors.New("still down"))

	s := service.New(repo, nil)

	_, err := s.CreateInvoice(context.Background(), testInvoice())
	require.ErrorIs(t, err, insertErr)
}

func TestService_CreateInvoice_Validation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	inv := testInvoice()
	inv.Items[0].Qty = decimal.Zero
	inv.Items[0].TaxRate = decimal.RequireFromString("0.15")
	inv.InvoiceDate = "01/15/2026"

	s := service.New(repo, nil)

	_, err := s.CreateInvoice(context.Background(), inv)
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	var verr *entity.ValidationError

	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "items[0].qty")
	require.Contains(t, verr.Fields, "items[0].taxRate")
	require.Contains(t, verr.Fields, "invoiceDate")
}

func TestService_UpdateInvoice_ReplacesItemSet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	current := testInvoice()
	current.ID = 5
	current.TotalJPY = 2200

	upd := entity.InvoiceUpdate{
		Items: []entity.LineItem{
			{
				Description:  "保守業務",
				UnitCost:     decimal.NewFromInt(333),
				Qty:          decimal.NewFromInt(1),
				TaxRate:      decimal.RequireFromString("0.08"),
				ExchangeRate: decimal.NewFromInt(1),
			},
		},
	}

	repo.EXPECT().Invoice(context.Background(), int64(5)).Return(current, nil)
	repo.EXPECT().DeleteItems(context.Background(), int64(5)).Return(nil)
	repo.EXPECT().InsertItems(context.Background(), int64(5), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, items []entity.LineItem) error {
			require.Len(t, items, 1)
			require.EqualValues(t, 359, items[0].AmountJPY)
			return nil
		})
	repo.EXPECT().UpdateInvoice(context.Background(), int64(5), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ entity.InvoiceUpdate, totalJPY *int64) error {
			require.NotNil(t, totalJPY)
			require.EqualValues(t, 359, *totalJPY)
			return nil
		})
	repo.EXPECT().Invoice(context.Background(), int64(5)).Return(current, nil)

	s := service.New(repo, nil)

	_, err := s.UpdateInvoice(context.Background(), 5, upd)
	require.NoError(t, err)
}

func TestService_UpdateInvoice_HeaderOnlyKeepsItems(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	current := testInvoice()
	current.ID = 6

	status := entity.StatusSent
	upd := entity.InvoiceUpdate{Status: &status}

	repo.EXPECT().Invoice(context.Background(), int64(6)).Return(current, nil)
	repo.EXPECT().UpdateInvoice(context.Background(), int64(6), gomock.Any(), nil).Return(nil)
	repo.EXPECT().Invoice(context.Background(), int64(6)).Return(current, nil)

	s := service.New(repo, nil)

	_, err := s.UpdateInvoice(context.Background(), 6, upd)
	require.NoError(t, err)
}

func TestService_CreateBankAccount_ClearsOtherDefaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	account := entity.BankAccount{
		Label:         "メイン口座",
		BankName:      "三菱UFJ銀行",
		AccountNumber: "1234567",
		IsDefault:     true,
	}

	gomock.InOrder(
		repo.EXPECT().ClearDefaultFlags(context.Background()).Return(nil),
		repo.EXPECT().CreateBankAccount(context.Background(), account).Return(account, nil),
	)

	s := service.New(repo, nil)

	_, err := s.CreateBankAccount(context.Background(), account)
	require.NoError(t, err)
}

func TestService_CreateBankAccount_NonDefaultSkipsClear(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	account := entity.BankAccount{
		Label:         "サブ口座",
		BankName:      "みずほ銀行",
		AccountNumber: "7654321",
	}

	repo.EXPECT().CreateBankAccount(context.Background(), account).Return(account, nil)

	s := service.New(repo, nil)

	_, err := s.CreateBankAccount(context.Background(), account)
	require.NoError(t, err)
}

func TestService_UpdateBankAccount_SetDefaultClearsOthers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	isDefault := true
	upd := entity.BankAccountUpdate{IsDefault: &isDefault}

	gomock.InOrder(
		repo.EXPECT().ClearDefaultFlags(context.Background()).Return(nil),
		repo.EXPECT().UpdateBankAccount(context.Background(), int64(3), upd).Return(nil),
		repo.EXPECT().BankAccount(context.Background(), int64(3)).Return(entity.BankAccount{ID: 3, IsDefault: true}, nil),
	)

	s := service.New(repo, nil)

	account, err := s.UpdateBankAccount(context.Background(), 3, upd)
	require.NoError(t, err)
	require.True(t, account.IsDefault)
}

func TestService_UpdateBankAccount_UnsetDefaultSkipsClear(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	isDefault := false
	upd := entity.BankAccountUpdate{IsDefault: &isDefault}

	repo.EXPECT().UpdateBankAccount(context.Background(), int64(4), upd).Return(nil)
	repo.EXPECT().BankAccount(context.Background(), int64(4)).Return(entity.BankAccount{ID: 4}, nil)

	s := service.New(repo, nil)

	_, err := s.UpdateBankAccount(context.Background(), 4, upd)
	require.NoError(t, err)
}

func TestService_DeleteClient_RefusesWithInvoices(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().CountClientInvoices(context.Background(), int64(9)).Return(int64(3), nil)

	s := service.New(repo, nil)

	err := s.DeleteClient(context.Background(), 9)
	require.ErrorIs(t, err, entity.ErrConflict)
}

func TestService_DeleteClient(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().CountClientInvoices(context.Background(), int64(9)).Return(int64(0), nil)
	repo.EXPECT().DeleteClient(context.Background(), int64(9)).Return(nil)

	s := service.New(repo, nil)

	err := s.DeleteClient(context.Background(), 9)
	require.NoError(t, err)
}

func TestService_Invoices_Pagination(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().Invoices(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f entity.InvoiceFilter) ([]entity.InvoiceRow, int, error) {
			require.Equal(t, entity.SortDateDesc, f.Sort)
			require.EqualValues(t, 1, f.Page)
			return make([]entity.InvoiceRow, 20), 45, nil
		})

	s := service.New(repo, nil)

	list, err := s.Invoices(context.Background(), entity.InvoiceFilter{})
	require.NoError(t, err)
	require.Equal(t, 45, list.Total)
	require.Equal(t, 3, list.TotalPages)
	require.Equal(t, 1, list.Page)
	require.Len(t, list.Data, 20)
}

func TestService_Invoices_PageBeyondLast(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	repo.EXPECT().Invoices(context.Background(), gomock.Any()).Return(nil, 45, nil)

	s := service.New(repo, nil)

	list, err := s.Invoices(context.Background(), entity.InvoiceFilter{Page: 99})
	require.NoError(t, err)
	require.Empty(t, list.Data)
	require.Equal(t, 45, list.Total)
	require.Equal(t, 99, list.Page)
}
