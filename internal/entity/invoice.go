package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyJPY Currency = "JPY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
	CurrencySGD Currency = "SGD"
	CurrencyNZD Currency = "NZD"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyJPY, CurrencyUSD, CurrencyEUR, CurrencyGBP,
		CurrencyAUD, CurrencyCAD, CurrencySGD, CurrencyNZD:
		return true
	}

	return false
}

// allowedTaxRates is the closed set of consumption tax rates.
var allowedTaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.08"),
	decimal.RequireFromString("0.1"),
}

func IsAllowedTaxRate(rate decimal.Decimal) bool {
	for _, r := range allowedTaxRates {
		if rate.Equal(r) {
			return true
		}
	}

	return false
}

type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "draft"
	StatusSent  InvoiceStatus = "sent"
	StatusPaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid:
		return true
	}

	return false
}

// LineItem is one billable row on an invoice. AmountJPY is computed once on
// write via CalcAmountJPY and stored; it is never patched in place, the item
// set is replaced as a whole.
type LineItem struct {
	ID            int64
	InvoiceID     int64
	Description   string
	DescriptionEN string
	UnitCost      decimal.Decimal
	Qty           decimal.Decimal
	TaxRate       decimal.Decimal
	Unit          string
	Currency      Currency
	ExchangeRate  decimal.Decimal
	AmountJPY     int64
	SortOrder     int32
}

// ExchangeRate is a point-in-time audit record of the rate used on an
// invoice. It is informational only and never read back into computation.
type ExchangeRate struct {
	ID        int64
	InvoiceID int64
	Currency  Currency
	Rate      decimal.Decimal
	RateDate  string
}

// Invoice is the aggregate root; it owns its items and exchange-rate
// snapshots (cascade delete). TotalJPY is a cached sum of the items'
// AmountJPY, overwritten whenever the item set is replaced.
type Invoice struct {
	ID            int64
	ClientID      int64
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Currency      Currency
	Status        InvoiceStatus
	Notes         string
	NotesEN       string
	TotalJPY      int64
	BankAccountID int64 // 0 = no account attached
	CreatedAt     time.Time

	Items         []LineItem
	ExchangeRates []ExchangeRate
}

// InvoiceUpdate is a whitelist merge: nil fields are left untouched. Items
// nil means keep the current item set; non-nil replaces it entirely.
type InvoiceUpdate struct {
	ClientID      *int64
	InvoiceNumber *string
	InvoiceDate   *string
	DueDate       *string
	Currency      *Currency
	Status        *InvoiceStatus
	Notes         *string
	NotesEN       *string
	BankAccountID *int64

	Items []LineItem
}

type InvoiceSort string

const (
	SortDateDesc   InvoiceSort = "date_desc"
	SortDateAsc    InvoiceSort = "date_asc"
	SortAmountDesc InvoiceSort = "amount_desc"
	SortAmountAsc  InvoiceSort = "amount_asc"
)

func (s InvoiceSort) IsValid() bool {
	switch s {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return true
	}

	return false
}

// OrderBy maps the sort key to the SQL order clause.
func (s InvoiceSort) OrderBy() string {
	switch s {
	case SortDateAsc:
		return "invoices.invoice_date ASC"
	case SortAmountDesc:
		return "invoices.total_jpy DESC"
	case SortAmountAsc:
		return "invoices.total_jpy ASC"
	default:
		return "invoices.invoice_date DESC"
	}
}

const InvoicePageSize = 20

type InvoiceFilter struct {
	Query    *string
	Status   *InvoiceStatus
	DateFrom *string
	DateTo   *string
	ClientID *int64
	Sort     InvoiceSort
	Page     uint64
}

// InvoiceRow is the list projection: header fields joined with the client's
// display name, no items attached.
type InvoiceRow struct {
	ID            int64
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Currency      Currency
	Status        InvoiceStatus
	TotalJPY      int64
	ClientName    string
}
