package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client supplies the default currency, tax rate and invoice-number prefix
// used to seed new invoices. Deleting a client that still owns invoices is
// refused; invoices are the system of record.
type Client struct {
	ID            int64
	Name          string
	NameEN        string
	Address       string
	AddressEN     string
	ContactName   string
	ContactEmail  string
	InvoicePrefix string
	Currency      Currency
	TaxRate       decimal.Decimal
	CreatedAt     time.Time
}

type ClientUpdate struct {
	Name          *string
	NameEN        *string
	Address       *string
	AddressEN     *string
	ContactName   *string
	ContactEmail  *string
	InvoicePrefix *string
	Currency      *Currency
	TaxRate       *decimal.Decimal
}
