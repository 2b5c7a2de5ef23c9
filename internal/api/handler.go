package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nlcsoft/invoicing/internal/entity"
	"github.com/nlcsoft/invoicing/internal/service"
)

// @title Invoicing API
// @version 1.0
// @description API for managing invoices, clients, bank accounts and company settings
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key

var (
	defaultTaxRate = decimal.RequireFromString("0.1")
	defaultQty     = decimal.NewFromInt(1)
)

type Service interface {
	CreateInvoice(ctx context.Context, inv entity.Invoice) (entity.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, upd entity.InvoiceUpdate) (entity.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	Invoice(ctx context.Context, id int64) (entity.Invoice, error)
	Invoices(ctx context.Context, f entity.InvoiceFilter) (service.InvoiceList, error)

	BankAccounts(ctx context.Context) ([]entity.BankAccount, error)
	CreateBankAccount(ctx context.Context, a entity.BankAccount) (entity.BankAccount, error)
	UpdateBankAccount(ctx context.Context, id int64, upd entity.BankAccountUpdate) (entity.BankAccount, error)
	DeleteBankAccount(ctx context.Context, id int64) error

	Clients(ctx context.Context) ([]entity.Client, error)
	Client(ctx context.Context, id int64) (entity.Client, error)
	CreateClient(ctx context.Context, c entity.Client) (entity.Client, error)
	UpdateClient(ctx context.Context, id int64, upd entity.ClientUpdate) (entity.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	Settings(ctx context.Context) (entity.Settings, error)
	SaveSettings(ctx context.Context, s entity.Settings) (entity.Settings, error)
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

type LineItemRequest struct {
	Description   string           `json:"description"`
	DescriptionEN string           `json:"descriptionEn"`
	UnitCost      decimal.Decimal  `json:"unitCost"`
	Qty           *decimal.Decimal `json:"qty"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
	Unit          string           `json:"unit"`
	Currency      string           `json:"currency"`
	ExchangeRate  decimal.Decimal  `json:"exchangeRate"`
	SortOrder     *int32           `json:"sortOrder"`
}

func (req LineItemRequest) toEntity() entity.LineItem {
	item := entity.LineItem{
		Description:   req.Description,
		DescriptionEN: req.DescriptionEN,
		UnitCost:      req.UnitCost,
		Qty:           defaultQty,
		TaxRate:       defaultTaxRate,
		Unit:          req.Unit,
		Currency:      entity.Currency(req.Currency),
		ExchangeRate:  req.ExchangeRate,
		SortOrder:     -1, // filled with the array index on write
	}

	if req.Qty != nil {
		item.Qty = *req.Qty
	}

	if req.TaxRate != nil {
		item.TaxRate = *req.TaxRate
	}

	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	return item
}

func lineItemsToEntity(reqs []LineItemRequest) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, req.toEntity())
	}

	return items
}

type ExchangeRateRequest struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	RateDate string          `json:"rateDate"`
}

type LineItemEntity struct {
	ID            int64           `json:"id"`
	Description   string          `json:"description"`
	DescriptionEN string          `json:"descriptionEn"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Qty           decimal.Decimal `json:"qty"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Unit          string          `json:"unit"`
	Currency      string          `json:"currency"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	AmountJPY     int64           `json:"amountJpy"`
	SortOrder     int32           `json:"sortOrder"`
}

type ExchangeRateEntity struct {
	ID       int64           `json:"id"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	RateDate string          `json:"rateDate"`
}

type InvoiceEntity struct {
	ID             int64                           `json:"id"`
	ClientID       int64                           `json:"clientId"`
	InvoiceNumber  string                          `json:"invoiceNumber"`
	InvoiceDate    string                          `json:"invoiceDate"`
	DueDate        string                          `json:"dueDate"`
	Currency       string                          `json:"currency"`
	Status         string                          `json:"status"`
	Notes          string                          `json:"notes"`
	NotesEN        string                          `json:"notesEn"`
	TotalJPY       int64                           `json:"totalJpy"`
	TotalFormatted string                          `json:"totalFormatted"`
	BankAccountID  *int64                          `json:"bankAccountId"`
	CreatedAt      time.Time                       `json:"createdAt"`
	Items          []LineItemEntity                `json:"items,omitempty"`
	ExchangeRates  []ExchangeRateEntity            `json:"exchangeRates,omitempty"`
	Totals         *entity.Totals                  `json:"totals,omitempty"`
	TaxBreakdown   map[string]entity.RateBreakdown `json:"taxBreakdown,omitempty"`
}

func invoiceToAPI(inv entity.Invoice) InvoiceEntity {
	res := InvoiceEntity{
		ID:             inv.ID,
		ClientID:       inv.ClientID,
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		Currency:       inv.Currency.String(),
		Status:         inv.Status.String(),
		Notes:          inv.Notes,
		NotesEN:        inv.NotesEN,
		TotalJPY:       inv.TotalJPY,
		TotalFormatted: entity.FormatCurrency(decimal.NewFromInt(inv.TotalJPY), entity.CurrencyJPY),
		CreatedAt:      inv.CreatedAt,
	}

	if inv.BankAccountID != 0 {
		res.BankAccountID = &inv.BankAccountID
	}

	for _, item := range inv.Items {
		res.Items = append(res.Items, LineItemEntity{
			ID:            item.ID,
			Description:   item.Description,
			DescriptionEN: item.DescriptionEN,
			UnitCost:      item.UnitCost,
			Qty:           item.Qty,
			TaxRate:       item.TaxRate,
			Unit:          item.Unit,
			Currency:      item.Currency.String(),
			ExchangeRate:  item.ExchangeRate,
			AmountJPY:     item.AmountJPY,
			SortOrder:     item.SortOrder,
		})
	}

	for _, rate := range inv.ExchangeRates {
		res.ExchangeRates = append(res.ExchangeRates, ExchangeRateEntity{
			ID:       rate.ID,
			Currency: rate.Currency.String(),
			Rate:     rate.Rate,
			RateDate: rate.RateDate,
		})
	}

	if inv.Items != nil {
		totals := entity.CalcTotals(inv.Items)
		res.Totals = &totals
		res.TaxBreakdown = entity.CalcTaxBreakdown(inv.Items)
	}

	return res
}

type CreateInvoiceRequest struct {
	ClientID      int64                 `json:"clientId"`
	InvoiceNumber string                `json:"invoiceNumber"`
	InvoiceDate   string                `json:"invoiceDate"`
	DueDate       string                `json:"dueDate"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes"`
	NotesEN       string                `json:"notesEn"`
	BankAccountID *int64                `json:"bankAccountId"`
	Items         []LineItemRequest     `json:"items"`
	ExchangeRates []ExchangeRateRequest `json:"exchangeRates"`
}

// CreateInvoice creates an invoice with its line items
// @Summary Create invoice
// @Description Creates an invoice with line items and exchange-rate snapshots. Number, currency and due date are seeded from the client when omitted.
// @Tags invoices
// @Accept json
// @Produce json
// @Param CreateInvoiceRequest body CreateInvoiceRequest true "Invoice creation request"
// @Success 201 {object} InvoiceEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to create invoice"
// @Router /invoices [post]
// @Security ApiKeyAuth
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInvoiceRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	status := entity.StatusDraft
	if req.Status != "" {
		status = entity.InvoiceStatus(req.Status)
	}

	inv := entity.Invoice{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		Currency:      entity.Currency(req.Currency),
		Status:        status,
		Notes:         req.Notes,
		NotesEN:       req.NotesEN,
		Items:         lineItemsToEntity(req.Items),
	}

	if req.BankAccountID != nil {
		inv.BankAccountID = *req.BankAccountID
	}

	for _, rate := range req.ExchangeRates {
		inv.ExchangeRates = append(inv.ExchangeRates, entity.ExchangeRate{
			Currency: entity.Currency(rate.Currency),
			Rate:     rate.Rate,
			RateDate: rate.RateDate,
		})
	}

	created, err := h.s.CreateInvoice(ctx, inv)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to create invoice")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, invoiceToAPI(created))
}

type UpdateInvoiceRequest struct {
	ClientID      *int64             `json:"clientId"`
	InvoiceNumber *string            `json:"invoiceNumber"`
	InvoiceDate   *string            `json:"invoiceDate"`
	DueDate       *string            `json:"dueDate"`
	Currency      *string            `json:"currency"`
	Status        *string            `json:"status"`
	Notes         *string            `json:"notes"`
	NotesEN       *string            `json:"notesEn"`
	BankAccountID *int64            `json:"bankAccountId"`
	Items         []LineItemRequest `json:"items"`
}

// UpdateInvoice applies a partial invoice update
// @Summary Update invoice
// @Description Updates only the fields present in the body. A non-null items array replaces the whole item set and recomputes the total.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param UpdateInvoiceRequest body UpdateInvoiceRequest true "Invoice update request"
// @Success 200 {object} InvoiceEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON or ID"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to update invoice"
// @Router /invoices/{id} [put]
// @Security ApiKeyAuth
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	var req UpdateInvoiceRequest

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	upd := entity.InvoiceUpdate{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		NotesEN:       req.NotesEN,
		BankAccountID: req.BankAccountID,
	}

	if req.Currency != nil {
		currency := entity.Currency(*req.Currency)
		upd.Currency = &currency
	}

	if req.Status != nil {
		status := entity.InvoiceStatus(*req.Status)
		upd.Status = &status
	}

	if req.Items != nil {
		upd.Items = lineItemsToEntity(req.Items)
	}

	updated, err := h.s.UpdateInvoice(ctx, id, upd)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to update invoice")
		return
	}

	SendJSON(ctx, w, http.StatusOK, invoiceToAPI(updated))
}

// DeleteInvoice removes an invoice
// @Summary Delete invoice
// @Description Deletes an invoice with its items and exchange-rate snapshots
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to delete invoice"
// @Router /invoices/{id} [delete]
// @Security ApiKeyAuth
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	err = h.s.DeleteInvoice(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to delete invoice")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Invoice returns one invoice with items and totals
// @Summary Get invoice
// @Description Returns the full invoice aggregate with line items, exchange-rate snapshots, totals and tax breakdown
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} InvoiceEntity
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to get invoice"
// @Router /invoices/{id} [get]
// @Security ApiKeyAuth
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	inv, err := h.s.Invoice(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to get invoice")
		return
	}

	SendJSON(ctx, w, http.StatusOK, invoiceToAPI(inv))
}

type InvoiceRowEntity struct {
	ID             int64  `json:"id"`
	InvoiceNumber  string `json:"invoiceNumber"`
	InvoiceDate    string `json:"invoiceDate"`
	DueDate        string `json:"dueDate"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	TotalJPY       int64  `json:"totalJpy"`
	TotalFormatted string `json:"totalFormatted"`
	ClientName     string `json:"clientName"`
}

type InvoicesResponse struct {
	Data       []InvoiceRowEntity `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	PageSize   int                `json:"pageSize"`
}

// Invoices returns one page of invoices
// @Summary List invoices
// @Description Returns a filtered, sorted page of invoice headers with the client name joined in
// @Tags invoices
// @Produce json
// @Param q query string false "Substring match on invoice number, client name or notes"
// @Param status query string false "Filter by status (draft, sent, paid)"
// @Param dateFrom query string false "Inclusive lower bound on invoice date (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive upper bound on invoice date (YYYY-MM-DD)"
// @Param clientId query int false "Filter by client"
// @Param sort query string false "Sort key (date_desc, date_asc, amount_desc, amount_asc)"
// @Param page query int false "Page number (default 1)"
// @Success 200 {object} InvoicesResponse
// @Failure 500 {object} ErrorResponse "Failed to list invoices"
// @Router /invoices [get]
// @Security ApiKeyAuth
func (h *Handler) Invoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.s.Invoices(ctx, parseInvoiceFilter(r.URL.Query()))
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to list invoices")
		return
	}

	rows := make([]InvoiceRowEntity, 0, len(list.Data))
	for _, row := range list.Data {
		rows = append(rows, InvoiceRowEntity{
			ID:             row.ID,
			InvoiceNumber:  row.InvoiceNumber,
			InvoiceDate:    row.InvoiceDate,
			DueDate:        row.DueDate,
			Currency:       row.Currency.String(),
			Status:         row.Status.String(),
			TotalJPY:       row.TotalJPY,
			TotalFormatted: entity.FormatCurrency(decimal.NewFromInt(row.TotalJPY), entity.CurrencyJPY),
			ClientName:     row.ClientName,
		})
	}

	SendJSON(ctx, w, http.StatusOK, InvoicesResponse{
		Data:       rows,
		Total:      list.Total,
		Page:       list.Page,
		TotalPages: list.TotalPages,
		PageSize:   list.PageSize,
	})
}

func parseInvoiceFilter(values url.Values) entity.InvoiceFilter {
	filter := entity.InvoiceFilter{
		Sort: entity.InvoiceSort(values.Get("sort")),
	}

	page, err := strconv.ParseUint(values.Get("page"), 10, 64)
	if err != nil {
		page = 1
	}

	filter.Page = page

	if q := values.Get("q"); q != "" {
		filter.Query = &q
	}

	if s := values.Get("status"); s != "" {
		status := entity.InvoiceStatus(s)
		filter.Status = &status
	}

	if from := values.Get("dateFrom"); from != "" {
		filter.DateFrom = &from
	}

	if to := values.Get("dateTo"); to != "" {
		filter.DateTo = &to
	}

	if clientID, err := strconv.ParseInt(values.Get("clientId"), 10, 64); err == nil {
		filter.ClientID = &clientID
	}

	return filter
}

// HealthHandler - returns service health status.
// @Summary Health check
// @Description Health check
// @Tags health
// @Accept text/plain
// @Produce text/plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("OK\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "health check failed")
		return
	}
}
