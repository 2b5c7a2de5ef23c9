package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nlcsoft/invoicing/internal/entity"
)

// CreateInvoice persists an invoice aggregate: header first, then line items,
// then exchange-rate snapshots. The steps are separate statements; if any
// child insert fails the header is removed by a compensating delete so a
// header with no items never survives. The id is not exposed to the caller
// until the whole sequence, compensation included, has concluded.
func (s *Service) CreateInvoice(ctx context.Context, inv entity.Invoice) (entity.Invoice, error) {
	err := s.seedDefaults(ctx, &inv)
	if err != nil {
		return entity.Invoice{}, err
	}

	err = validateInvoice(inv)
	if err != nil {
		return entity.Invoice{}, err
	}

	items := normalizeItems(inv.Items, inv.Currency)
	for i := range items {
		items[i].AmountJPY = entity.CalcAmountJPY(items[i])
	}

	inv.TotalJPY = entity.CalcTotals(items).TotalJPY

	created, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("insert invoice header: %w", err)
	}

	err = s.repo.InsertItems(ctx, created.ID, items)
	if err != nil {
		s.compensateCreate(ctx, created.ID, err)
		return entity.Invoice{}, fmt.Errorf("insert invoice items: %w", err)
	}

	err = s.repo.InsertExchangeRates(ctx, created.ID, inv.ExchangeRates)
	if err != nil {
		s.compensateCreate(ctx, created.ID, err)
		return entity.Invoice{}, fmt.Errorf("insert exchange rates: %w", err)
	}

	if s.producer != nil {
		s.producer.InvoiceCreated(ctx, created.ID, created.InvoiceNumber, created.TotalJPY)
	}

	slog.InfoContext(ctx, "invoice created",
		"invoice_id", created.ID, "invoice_number", created.InvoiceNumber, "total_jpy", created.TotalJPY)

	created.Items = nil
	created.ExchangeRates = nil

	return created, nil
}

// seedDefaults fills the fields a new invoice inherits from its client: the
// number from the client's prefix and the currency. The due date defaults to
// the last day of the month after the invoice month. Malformed dates are left
// for validation to reject.
func (s *Service) seedDefaults(ctx context.Context, inv *entity.Invoice) error {
	if inv.ClientID > 0 && (inv.InvoiceNumber == "" || inv.Currency == "") {
		client, err := s.repo.Client(ctx, inv.ClientID)
		if err != nil {
			return fmt.Errorf("get client %d: %w", inv.ClientID, err)
		}

		if inv.Currency == "" {
			inv.Currency = client.Currency
		}

		if inv.InvoiceNumber == "" {
			number, err := entity.GenerateInvoiceNumber(client.InvoicePrefix, inv.InvoiceDate)
			if err == nil {
				inv.InvoiceNumber = number
			}
		}
	}

	if inv.DueDate == "" {
		due, err := entity.CalcDueDate(inv.InvoiceDate)
		if err == nil {
			inv.DueDate = due
		}
	}

	return nil
}

// compensateCreate is best-effort: its own failure is logged and swallowed,
// the original write failure is what the caller sees. A failed compensation
// leaves a header without items behind, a known consistency gap of running
// without transactions.
func (s *Service) compensateCreate(ctx context.Context, invoiceID int64, cause error) {
	err := s.repo.DeleteInvoice(ctx, invoiceID)
	if err != nil {
		slog.ErrorContext(ctx, "compensating invoice delete failed",
			"invoice_id", invoiceID, "error", err, "cause", cause)
	}
}

// UpdateInvoice applies a partial header update and, when upd.Items is
// non-nil, replaces the whole item set. Items are never patched row by row:
// the unit of replacement is the full set, and TotalJPY follows it. A failure
// after the replacement leaves new items on the old header values; that
// window is accepted and not reverted.
func (s *Service) UpdateInvoice(ctx context.Context, id int64, upd entity.InvoiceUpdate) (entity.Invoice, error) {
	err := validateInvoiceUpdate(upd)
	if err != nil {
		return entity.Invoice{}, err
	}

	current, err := s.repo.Invoice(ctx, id)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("get invoice %d: %w", id, err)
	}

	var totalJPY *int64

	if upd.Items != nil {
		currency := current.Currency
		if upd.Currency != nil {
			currency = *upd.Currency
		}

		items := normalizeItems(upd.Items, currency)
		for i := range items {
			items[i].AmountJPY = entity.CalcAmountJPY(items[i])
		}

		totals := entity.CalcTotals(items)

		err = s.repo.DeleteItems(ctx, id)
		if err != nil {
			return entity.Invoice{}, fmt.Errorf("delete invoice %d items: %w", id, err)
		}

		err = s.repo.InsertItems(ctx, id, items)
		if err != nil {
			return entity.Invoice{}, fmt.Errorf("insert invoice %d items: %w", id, err)
		}

		totalJPY = &totals.TotalJPY
	}

	err = s.repo.UpdateInvoice(ctx, id, upd, totalJPY)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("update invoice %d: %w", id, err)
	}

	updated, err := s.repo.Invoice(ctx, id)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("reload invoice %d: %w", id, err)
	}

	return updated, nil
}

// DeleteInvoice removes the aggregate; items and snapshots cascade in the
// store layer.
func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	err := s.repo.DeleteInvoice(ctx, id)
	if err != nil {
		return fmt.Errorf("delete invoice %d: %w", id, err)
	}

	if s.producer != nil {
		s.producer.InvoiceDeleted(ctx, id)
	}

	slog.InfoContext(ctx, "invoice deleted", "invoice_id", id)

	return nil
}

// Invoice loads the full aggregate: header, items in display order, and
// exchange-rate snapshots.
func (s *Service) Invoice(ctx context.Context, id int64) (entity.Invoice, error) {
	inv, err := s.repo.Invoice(ctx, id)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("get invoice %d: %w", id, err)
	}

	inv.Items, err = s.repo.InvoiceItems(ctx, id)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("get invoice %d items: %w", id, err)
	}

	inv.ExchangeRates, err = s.repo.InvoiceExchangeRates(ctx, id)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("get invoice %d exchange rates: %w", id, err)
	}

	return inv, nil
}

type InvoiceList struct {
	Data       []entity.InvoiceRow
	Total      int
	Page       int
	TotalPages int
	PageSize   int
}

// Invoices returns one page of headers plus the total matching count. A page
// beyond the last one yields an empty Data with the counts intact.
func (s *Service) Invoices(ctx context.Context, f entity.InvoiceFilter) (InvoiceList, error) {
	if !f.Sort.IsValid() {
		f.Sort = entity.SortDateDesc
	}

	if f.Page < 1 {
		f.Page = 1
	}

	rows, total, err := s.repo.Invoices(ctx, f)
	if err != nil {
		return InvoiceList{}, fmt.Errorf("list invoices: %w", err)
	}

	totalPages := (total + entity.InvoicePageSize - 1) / entity.InvoicePageSize

	return InvoiceList{
		Data:       rows,
		Total:      total,
		Page:       int(f.Page),
		TotalPages: totalPages,
		PageSize:   entity.InvoicePageSize,
	}, nil
}

// normalizeItems fills per-line defaults: the invoice currency (or JPY) when
// a line has none, exchange rate 1, and the array index as sort order for
// lines that did not specify one (marked by a negative value).
func normalizeItems(items []entity.LineItem, invoiceCurrency entity.Currency) []entity.LineItem {
	normalized := make([]entity.LineItem, len(items))
	copy(normalized, items)

	for i := range normalized {
		if normalized[i].Currency == "" {
			normalized[i].Currency = invoiceCurrency
		}

		if normalized[i].Currency == "" {
			normalized[i].Currency = entity.CurrencyJPY
		}

		if normalized[i].ExchangeRate.IsZero() {
			normalized[i].ExchangeRate = exchangeRateOne
		}

		if normalized[i].SortOrder < 0 {
			normalized[i].SortOrder = int32(i)
		}
	}

	return normalized
}
