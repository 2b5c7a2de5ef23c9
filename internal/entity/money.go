package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rounding rules:
//   - per-line taxed amount: floor(unitCost * qty * (1 + taxRate) * exchangeRate)
//   - invoice total: sum of per-line amounts, no further rounding
//   - displayed tax: total minus sum of per-line tax-exclusive amounts
//
// The floor is applied once, to the final product of a line. Rounding the tax
// part separately would drift the stored totals and is not allowed.

var one = decimal.NewFromInt(1)

// CalcAmountJPY computes the tax-inclusive JPY amount of a line, truncated.
// A zero exchange rate is treated as 1 (home-currency line).
func CalcAmountJPY(item LineItem) int64 {
	rate := item.ExchangeRate
	if rate.IsZero() {
		rate = one
	}

	return item.UnitCost.Mul(item.Qty).Mul(one.Add(item.TaxRate)).Mul(rate).Floor().IntPart()
}

// CalcSubtotalJPY computes the tax-exclusive JPY amount of a line, truncated.
func CalcSubtotalJPY(item LineItem) int64 {
	rate := item.ExchangeRate
	if rate.IsZero() {
		rate = one
	}

	return item.UnitCost.Mul(item.Qty).Mul(rate).Floor().IntPart()
}

type Totals struct {
	SubtotalJPY int64 `json:"subtotalJpy"`
	TaxJPY      int64 `json:"taxJpy"`
	TotalJPY    int64 `json:"totalJpy"`
}

// CalcTotals aggregates lines into invoice totals. TotalJPY is the sum of
// per-line taxed amounts; TaxJPY is the difference of the two sums. Because
// amount and subtotal are truncated independently, TaxJPY may differ from
// subtotal*rate by a yen. Issued invoices were computed this way and must
// keep reproducing the same numbers.
func CalcTotals(items []LineItem) Totals {
	var t Totals

	for _, item := range items {
		t.TotalJPY += CalcAmountJPY(item)
		t.SubtotalJPY += CalcSubtotalJPY(item)
	}

	t.TaxJPY = t.TotalJPY - t.SubtotalJPY

	return t
}

type RateBreakdown struct {
	SubtotalJPY int64 `json:"subtotalJpy"`
	TaxJPY      int64 `json:"taxJpy"`
}

// CalcTaxBreakdown groups the implied tax by rate for display. Keys are the
// decimal string of the rate ("0.1", "0.08", "0").
func CalcTaxBreakdown(items []LineItem) map[string]RateBreakdown {
	res := make(map[string]RateBreakdown)

	for _, item := range items {
		sub := CalcSubtotalJPY(item)
		key := item.TaxRate.String()

		b := res[key]
		b.SubtotalJPY += sub
		b.TaxJPY += CalcAmountJPY(item) - sub
		res[key] = b
	}

	return res
}

var jaPrinter = message.NewPrinter(language.Japanese)

var currencySymbols = map[Currency]string{
	CurrencyJPY: "¥",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyGBP: "£",
	CurrencyAUD: "A$",
	CurrencyCAD: "CA$",
	CurrencySGD: "S$",
	CurrencyNZD: "NZ$",
}

// FormatCurrency renders an amount for display: grouped digits, no fraction
// for JPY, two fraction digits otherwise.
func FormatCurrency(amount decimal.Decimal, currency Currency) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = string(currency) + " "
	}

	if currency == CurrencyJPY {
		return jaPrinter.Sprintf("%s%d", symbol, amount.Floor().IntPart())
	}

	return jaPrinter.Sprintf("%s%.2f", symbol, amount.InexactFloat64())
}

const DateLayout = "2006-01-02"

// CalcDueDate returns the last day of the month after the invoice month,
// e.g. 2026-01-15 -> 2026-02-28.
func CalcDueDate(invoiceDate string) (string, error) {
	d, err := time.Parse(DateLayout, invoiceDate)
	if err != nil {
		return "", err
	}

	due := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 2, 0).
		AddDate(0, 0, -1)

	return due.Format(DateLayout), nil
}

// GenerateInvoiceNumber builds the human-readable number from a client's
// prefix, e.g. prefix "NLCS-" and date 2026-01-15 -> "NLCS-January 2026".
func GenerateInvoiceNumber(prefix, invoiceDate string) (string, error) {
	d, err := time.Parse(DateLayout, invoiceDate)
	if err != nil {
		return "", err
	}

	return prefix + d.Format("January 2006"), nil
}
