package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nlcsoft/invoicing/internal/entity"
)

type BankAccountEntity struct {
	ID              int64  `json:"id"`
	Label           string `json:"label"`
	BankName        string `json:"bankName"`
	BankBranch      string `json:"bankBranch"`
	BankNameEN      string `json:"bankNameEn"`
	BankBranchEN    string `json:"bankBranchEn"`
	AccountType     string `json:"accountType"`
	AccountNumber   string `json:"accountNumber"`
	AccountHolder   string `json:"accountHolder"`
	AccountHolderEN string `json:"accountHolderEn"`
	BankCode        string `json:"bankCode"`
	SwiftCode       string `json:"swiftCode"`
	IsDefault       bool   `json:"isDefault"`
	SortOrder       int32  `json:"sortOrder"`
}

func bankAccountToAPI(a entity.BankAccount) BankAccountEntity {
	return BankAccountEntity{
		ID:              a.ID,
		Label:           a.Label,
		BankName:        a.BankName,
		BankBranch:      a.BankBranch,
		BankNameEN:      a.BankNameEN,
		BankBranchEN:    a.BankBranchEN,
		AccountType:     a.AccountType,
		AccountNumber:   a.AccountNumber,
		AccountHolder:   a.AccountHolder,
		AccountHolderEN: a.AccountHolderEN,
		BankCode:        a.BankCode,
		SwiftCode:       a.SwiftCode,
		IsDefault:       a.IsDefault,
		SortOrder:       a.SortOrder,
	}
}

type BankAccountsResponse struct {
	Data []BankAccountEntity `json:"data"`
}

// BankAccounts returns all bank accounts
// @Summary List bank accounts
// @Description Returns all bank accounts in display order
// @Tags bank-accounts
// @Produce json
// @Success 200 {object} BankAccountsResponse
// @Failure 500 {object} ErrorResponse "Failed to list bank accounts"
// @Router /bank-accounts [get]
// @Security ApiKeyAuth
func (h *Handler) BankAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.s.BankAccounts(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to list bank accounts")
		return
	}

	res := make([]BankAccountEntity, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, bankAccountToAPI(a))
	}

	SendJSON(ctx, w, http.StatusOK, BankAccountsResponse{Data: res})
}

type CreateBankAccountRequest struct {
	Label           string `json:"label"`
	BankName        string `json:"bankName"`
	BankBranch      string `json:"bankBranch"`
	BankNameEN      string `json:"bankNameEn"`
	BankBranchEN    string `json:"bankBranchEn"`
	AccountType     string `json:"accountType"`
	AccountNumber   string `json:"accountNumber"`
	AccountHolder   string `json:"accountHolder"`
	AccountHolderEN string `json:"accountHolderEn"`
	BankCode        string `json:"bankCode"`
	SwiftCode       string `json:"swiftCode"`
	IsDefault       bool   `json:"isDefault"`
	SortOrder       int32  `json:"sortOrder"`
}

// CreateBankAccount creates a bank account
// @Summary Create bank account
// @Description Creates a bank account. Marking it default clears the flag on every other account first.
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param CreateBankAccountRequest body CreateBankAccountRequest true "Bank account creation request"
// @Success 201 {object} BankAccountEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to create bank account"
// @Router /bank-accounts [post]
// @Security ApiKeyAuth
func (h *Handler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateBankAccountRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	created, err := h.s.CreateBankAccount(ctx, entity.BankAccount{
		Label:           req.Label,
		BankName:        req.BankName,
		BankBranch:      req.BankBranch,
		BankNameEN:      req.BankNameEN,
		BankBranchEN:    req.BankBranchEN,
		AccountType:     req.AccountType,
		AccountNumber:   req.AccountNumber,
		AccountHolder:   req.AccountHolder,
		AccountHolderEN: req.AccountHolderEN,
		BankCode:        req.BankCode,
		SwiftCode:       req.SwiftCode,
		IsDefault:       req.IsDefault,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to create bank account")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, bankAccountToAPI(created))
}

type UpdateBankAccountRequest struct {
	Label           *string `json:"label"`
	BankName        *string `json:"bankName"`
	BankBranch      *string `json:"bankBranch"`
	BankNameEN      *string `json:"bankNameEn"`
	BankBranchEN    *string `json:"bankBranchEn"`
	AccountType     *string `json:"accountType"`
	AccountNumber   *string `json:"accountNumber"`
	AccountHolder   *string `json:"accountHolder"`
	AccountHolderEN *string `json:"accountHolderEn"`
	BankCode        *string `json:"bankCode"`
	SwiftCode       *string `json:"swiftCode"`
	IsDefault       *bool   `json:"isDefault"`
	SortOrder       *int32  `json:"sortOrder"`
}

// UpdateBankAccount applies a partial bank account update
// @Summary Update bank account
// @Description Updates only the fields present in the body. Setting isDefault clears the flag on every other account first.
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param id path int true "Bank account ID"
// @Param UpdateBankAccountRequest body UpdateBankAccountRequest true "Bank account update request"
// @Success 200 {object} BankAccountEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON or ID"
// @Failure 404 {object} ErrorResponse "Bank account not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to update bank account"
// @Router /bank-accounts/{id} [put]
// @Security ApiKeyAuth
func (h *Handler) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	var req UpdateBankAccountRequest

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	updated, err := h.s.UpdateBankAccount(ctx, id, entity.BankAccountUpdate{
		Label:           req.Label,
		BankName:        req.BankName,
		BankBranch:      req.BankBranch,
		BankNameEN:      req.BankNameEN,
		BankBranchEN:    req.BankBranchEN,
		AccountType:     req.AccountType,
		AccountNumber:   req.AccountNumber,
		AccountHolder:   req.AccountHolder,
		AccountHolderEN: req.AccountHolderEN,
		BankCode:        req.BankCode,
		SwiftCode:       req.SwiftCode,
		IsDefault:       req.IsDefault,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to update bank account")
		return
	}

	SendJSON(ctx, w, http.StatusOK, bankAccountToAPI(updated))
}

// DeleteBankAccount removes a bank account
// @Summary Delete bank account
// @Description Deletes a bank account
// @Tags bank-accounts
// @Produce json
// @Param id path int true "Bank account ID"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Bank account not found"
// @Failure 500 {object} ErrorResponse "Failed to delete bank account"
// @Router /bank-accounts/{id} [delete]
// @Security ApiKeyAuth
func (h *Handler) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	err = h.s.DeleteBankAccount(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to delete bank account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ClientEntity struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	NameEN        string          `json:"nameEn"`
	Address       string          `json:"address"`
	AddressEN     string          `json:"addressEn"`
	ContactName   string          `json:"contactName"`
	ContactEmail  string          `json:"contactEmail"`
	InvoicePrefix string          `json:"invoicePrefix"`
	Currency      string          `json:"currency"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func clientToAPI(c entity.Client) ClientEntity {
	return ClientEntity{
		ID:            c.ID,
		Name:          c.Name,
		NameEN:        c.NameEN,
		Address:       c.Address,
		AddressEN:     c.AddressEN,
		ContactName:   c.ContactName,
		ContactEmail:  c.ContactEmail,
		InvoicePrefix: c.InvoicePrefix,
		Currency:      c.Currency.String(),
		TaxRate:       c.TaxRate,
		CreatedAt:     c.CreatedAt,
	}
}

type ClientsResponse struct {
	Data []ClientEntity `json:"data"`
}

// Clients returns all clients
// @Summary List clients
// @Description Returns all clients
// @Tags clients
// @Produce json
// @Success 200 {object} ClientsResponse
// @Failure 500 {object} ErrorResponse "Failed to list clients"
// @Router /clients [get]
// @Security ApiKeyAuth
func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.s.Clients(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to list clients")
		return
	}

	res := make([]ClientEntity, 0, len(clients))
	for _, c := range clients {
		res = append(res, clientToAPI(c))
	}

	SendJSON(ctx, w, http.StatusOK, ClientsResponse{Data: res})
}

// Client returns one client
// @Summary Get client
// @Description Returns one client
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} ClientEntity
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 500 {object} ErrorResponse "Failed to get client"
// @Router /clients/{id} [get]
// @Security ApiKeyAuth
func (h *Handler) Client(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	c, err := h.s.Client(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to get client")
		return
	}

	SendJSON(ctx, w, http.StatusOK, clientToAPI(c))
}

type CreateClientRequest struct {
	Name          string           `json:"name"`
	NameEN        string           `json:"nameEn"`
	Address       string           `json:"address"`
	AddressEN     string           `json:"addressEn"`
	ContactName   string           `json:"contactName"`
	ContactEmail  string           `json:"contactEmail"`
	InvoicePrefix string           `json:"invoicePrefix"`
	Currency      string           `json:"currency"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
}

func (req CreateClientRequest) toEntity() entity.Client {
	c := entity.Client{
		Name:          req.Name,
		NameEN:        req.NameEN,
		Address:       req.Address,
		AddressEN:     req.AddressEN,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		InvoicePrefix: req.InvoicePrefix,
		Currency:      entity.Currency(req.Currency),
		TaxRate:       defaultTaxRate,
	}

	if c.Currency == "" {
		c.Currency = entity.CurrencyJPY
	}

	if req.TaxRate != nil {
		c.TaxRate = *req.TaxRate
	}

	return c
}

// CreateClient creates a client
// @Summary Create client
// @Description Creates a client. Currency defaults to JPY and tax rate to 0.1.
// @Tags clients
// @Accept json
// @Produce json
// @Param CreateClientRequest body CreateClientRequest true "Client creation request"
// @Success 201 {object} ClientEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to create client"
// @Router /clients [post]
// @Security ApiKeyAuth
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateClientRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	created, err := h.s.CreateClient(ctx, req.toEntity())
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to create client")
		return
	}

	SendJSON(ctx, w, http.StatusCreated, clientToAPI(created))
}

type UpdateClientRequest struct {
	Name          *string          `json:"name"`
	NameEN        *string          `json:"nameEn"`
	Address       *string          `json:"address"`
	AddressEN     *string          `json:"addressEn"`
	ContactName   *string          `json:"contactName"`
	ContactEmail  *string          `json:"contactEmail"`
	InvoicePrefix *string          `json:"invoicePrefix"`
	Currency      *string          `json:"currency"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
}

// UpdateClient applies a partial client update
// @Summary Update client
// @Description Updates only the fields present in the body
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param UpdateClientRequest body UpdateClientRequest true "Client update request"
// @Success 200 {object} ClientEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON or ID"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to update client"
// @Router /clients/{id} [put]
// @Security ApiKeyAuth
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	var req UpdateClientRequest

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	upd := entity.ClientUpdate{
		Name:          req.Name,
		NameEN:        req.NameEN,
		Address:       req.Address,
		AddressEN:     req.AddressEN,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		InvoicePrefix: req.InvoicePrefix,
		TaxRate:       req.TaxRate,
	}

	if req.Currency != nil {
		currency := entity.Currency(*req.Currency)
		upd.Currency = &currency
	}

	updated, err := h.s.UpdateClient(ctx, id, upd)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to update client")
		return
	}

	SendJSON(ctx, w, http.StatusOK, clientToAPI(updated))
}

// DeleteClient removes a client
// @Summary Delete client
// @Description Deletes a client. Refused with 409 while the client still owns invoices.
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 409 {object} ErrorResponse "Client still owns invoices"
// @Failure 500 {object} ErrorResponse "Failed to delete client"
// @Router /clients/{id} [delete]
// @Security ApiKeyAuth
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "'id' must be an integer")
		return
	}

	err = h.s.DeleteClient(ctx, id)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type SettingsEntity struct {
	CompanyName           string `json:"companyName"`
	CompanyAddress        string `json:"companyAddress"`
	CompanyAddressEN      string `json:"companyAddressEn"`
	BankName              string `json:"bankName"`
	BankBranch            string `json:"bankBranch"`
	AccountType           string `json:"accountType"`
	AccountNumber         string `json:"accountNumber"`
	AccountHolder         string `json:"accountHolder"`
	AccountHolderEN       string `json:"accountHolderEn"`
	TaxRegistrationNumber string `json:"taxRegistrationNumber"`
	BankCode              string `json:"bankCode"`
	SwiftCode             string `json:"swiftCode"`
	BankNameEN            string `json:"bankNameEn"`
	BankBranchEN          string `json:"bankBranchEn"`
}

func settingsToAPI(s entity.Settings) SettingsEntity {
	return SettingsEntity(s)
}

func (req SettingsEntity) toEntity() entity.Settings {
	return entity.Settings(req)
}

// Settings returns the company profile
// @Summary Get settings
// @Description Returns the single-row company profile; zero values when never saved
// @Tags settings
// @Produce json
// @Success 200 {object} SettingsEntity
// @Failure 500 {object} ErrorResponse "Failed to get settings"
// @Router /settings [get]
// @Security ApiKeyAuth
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.s.Settings(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to get settings")
		return
	}

	SendJSON(ctx, w, http.StatusOK, settingsToAPI(settings))
}

// SaveSettings upserts the company profile
// @Summary Save settings
// @Description Replaces the single-row company profile
// @Tags settings
// @Accept json
// @Produce json
// @Param SettingsEntity body SettingsEntity true "Company profile"
// @Success 200 {object} SettingsEntity
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 500 {object} ErrorResponse "Failed to save settings"
// @Router /settings [put]
// @Security ApiKeyAuth
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SettingsEntity

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid JSON")
		return
	}

	saved, err := h.s.SaveSettings(ctx, req.toEntity())
	if err != nil {
		sendServiceErr(ctx, w, err, "failed to save settings")
		return
	}

	SendJSON(ctx, w, http.StatusOK, settingsToAPI(saved))
}
