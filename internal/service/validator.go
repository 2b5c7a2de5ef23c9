package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nlcsoft/invoicing/internal/entity"
)

var exchangeRateOne = decimal.NewFromInt(1)

func isDate(s string) bool {
	_, err := time.Parse(entity.DateLayout, s)
	return err == nil
}

func validateInvoice(inv entity.Invoice) error {
	v := entity.NewValidationError()

	if inv.ClientID <= 0 {
		v.Add("clientId", "is required")
	}

	if inv.InvoiceNumber == "" {
		v.Add("invoiceNumber", "is required")
	}

	if !isDate(inv.InvoiceDate) {
		v.Add("invoiceDate", "must be a YYYY-MM-DD date")
	}

	if !isDate(inv.DueDate) {
		v.Add("dueDate", "must be a YYYY-MM-DD date")
	}

	if !inv.Currency.IsValid() {
		v.Add("currency", "is not a supported currency")
	}

	if !inv.Status.IsValid() {
		v.Add("status", "must be draft, sent or paid")
	}

	if len(inv.Items) == 0 {
		v.Add("items", "at least one line item is required")
	}

	for i, item := range inv.Items {
		validateLineItem(v, i, item)
	}

	return v.Err()
}

func validateInvoiceUpdate(upd entity.InvoiceUpdate) error {
	v := entity.NewValidationError()

	if upd.ClientID != nil && *upd.ClientID <= 0 {
		v.Add("clientId", "is required")
	}

	if upd.InvoiceNumber != nil && *upd.InvoiceNumber == "" {
		v.Add("invoiceNumber", "is required")
	}

	if upd.InvoiceDate != nil && !isDate(*upd.InvoiceDate) {
		v.Add("invoiceDate", "must be a YYYY-MM-DD date")
	}

	if upd.DueDate != nil && !isDate(*upd.DueDate) {
		v.Add("dueDate", "must be a YYYY-MM-DD date")
	}

	if upd.Currency != nil && !upd.Currency.IsValid() {
		v.Add("currency", "is not a supported currency")
	}

	if upd.Status != nil && !upd.Status.IsValid() {
		v.Add("status", "must be draft, sent or paid")
	}

	if upd.Items != nil && len(upd.Items) == 0 {
		v.Add("items", "at least one line item is required")
	}

	for i, item := range upd.Items {
		validateLineItem(v, i, item)
	}

	return v.Err()
}

func validateLineItem(v *entity.ValidationError, i int, item entity.LineItem) {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", i, name)
	}

	if item.Description == "" {
		v.Add(field("description"), "is required")
	}

	if item.UnitCost.IsNegative() {
		v.Add(field("unitCost"), "must not be negative")
	}

	if !item.Qty.IsPositive() {
		v.Add(field("qty"), "must be greater than zero")
	}

	if !entity.IsAllowedTaxRate(item.TaxRate) {
		v.Add(field("taxRate"), "must be 0, 0.08 or 0.1")
	}

	if item.Currency != "" && !item.Currency.IsValid() {
		v.Add(field("currency"), "is not a supported currency")
	}

	if item.ExchangeRate.IsNegative() {
		v.Add(field("exchangeRate"), "must not be negative")
	}
}

func validateBankAccount(a entity.BankAccount) error {
	v := entity.NewValidationError()

	if a.Label == "" {
		v.Add("label", "is required")
	}

	if a.BankName == "" {
		v.Add("bankName", "is required")
	}

	if a.AccountNumber == "" {
		v.Add("accountNumber", "is required")
	}

	return v.Err()
}

func validateBankAccountUpdate(upd entity.BankAccountUpdate) error {
	v := entity.NewValidationError()

	if upd.Label != nil && *upd.Label == "" {
		v.Add("label", "is required")
	}

	if upd.BankName != nil && *upd.BankName == "" {
		v.Add("bankName", "is required")
	}

	if upd.AccountNumber != nil && *upd.AccountNumber == "" {
		v.Add("accountNumber", "is required")
	}

	return v.Err()
}

func validateClient(c entity.Client) error {
	v := entity.NewValidationError()

	if c.Name == "" {
		v.Add("name", "is required")
	}

	if c.Currency != "" && !c.Currency.IsValid() {
		v.Add("currency", "is not a supported currency")
	}

	if !entity.IsAllowedTaxRate(c.TaxRate) {
		v.Add("taxRate", "must be 0, 0.08 or 0.1")
	}

	return v.Err()
}

func validateClientUpdate(upd entity.ClientUpdate) error {
	v := entity.NewValidationError()

	if upd.Name != nil && *upd.Name == "" {
		v.Add("name", "is required")
	}

	if upd.Currency != nil && !upd.Currency.IsValid() {
		v.Add("currency", "is not a supported currency")
	}

	if upd.TaxRate != nil && !entity.IsAllowedTaxRate(*upd.TaxRate) {
		v.Add("taxRate", "must be 0, 0.08 or 0.1")
	}

	return v.Err()
}
