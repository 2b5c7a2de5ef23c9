package service

import (
	"context"

	"github.com/nlcsoft/invoicing/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

// Repository is the record store. There is no ambient multi-statement
// transaction behind it; multi-entity writes are sequenced by the service
// with explicit compensation.
type Repository interface {
	CreateInvoice(ctx context.Context, inv entity.Invoice) (entity.Invoice, error)
	InsertItems(ctx context.Context, invoiceID int64, items []entity.LineItem) error
	InsertExchangeRates(ctx context.Context, invoiceID int64, rates []entity.ExchangeRate) error
	DeleteItems(ctx context.Context, invoiceID int64) error
	UpdateInvoice(ctx context.Context, id int64, upd entity.InvoiceUpdate, totalJPY *int64) error
	DeleteInvoice(ctx context.Context, id int64) error
	Invoice(ctx context.Context, id int64) (entity.Invoice, error)
	InvoiceItems(ctx context.Context, invoiceID int64) ([]entity.LineItem, error)
	InvoiceExchangeRates(ctx context.Context, invoiceID int64) ([]entity.ExchangeRate, error)
	Invoices(ctx context.Context, f entity.InvoiceFilter) ([]entity.InvoiceRow, int, error)
	CountClientInvoices(ctx context.Context, clientID int64) (int64, error)

	BankAccounts(ctx context.Context) ([]entity.BankAccount, error)
	BankAccount(ctx context.Context, id int64) (entity.BankAccount, error)
	CreateBankAccount(ctx context.Context, a entity.BankAccount) (entity.BankAccount, error)
	UpdateBankAccount(ctx context.Context, id int64, upd entity.BankAccountUpdate) error
	DeleteBankAccount(ctx context.Context, id int64) error
	ClearDefaultFlags(ctx context.Context) error

	Clients(ctx context.Context) ([]entity.Client, error)
	Client(ctx context.Context, id int64) (entity.Client, error)
	CreateClient(ctx context.Context, c entity.Client) (entity.Client, error)
	UpdateClient(ctx context.Context, id int64, upd entity.ClientUpdate) error
	DeleteClient(ctx context.Context, id int64) error

	Settings(ctx context.Context) (entity.Settings, error)
	SaveSettings(ctx context.Context, s entity.Settings) error
}

type Producer interface {
	InvoiceCreated(ctx context.Context, id int64, number string, totalJPY int64)
	InvoiceDeleted(ctx context.Context, id int64)
}

type Service struct {
	repo     Repository
	producer Producer
}

// New creates the service. producer may be nil when eventing is disabled.
func New(repo Repository, producer Producer) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
	}
}
