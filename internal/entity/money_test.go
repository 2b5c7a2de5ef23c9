package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nlcsoft/invoicing/internal/entity"
)

func item(unitCost, qty, taxRate, exchangeRate string) entity.LineItem {
	return entity.LineItem{
		UnitCost:     decimal.RequireFromString(unitCost),
		Qty:          decimal.RequireFromString(qty),
		TaxRate:      decimal.RequireFromString(taxRate),
		ExchangeRate: decimal.RequireFromString(exchangeRate),
	}
}

func TestCalcAmountJPY(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item entity.LineItem
		want int64
	}{
		{
			name: "whole yen, 10% tax",
			item: item("1000", "2", "0.1", "1"),
			want: 2200,
		},
		{
			name: "truncates fractional tax",
			item: item("333", "1", "0.08", "1"), // 333*1.08 = 359.64
			want: 359,
		},
		{
			name: "foreign currency truncates after conversion",
			item: item("100", "3", "0.1", "150.25"), // 330*150.25 = 49582.5
			want: 49582,
		},
		{
			name: "fractional quantity",
			item: item("1000", "0.5", "0.1", "1"),
			want: 550,
		},
		{
			name: "zero exchange rate treated as 1",
			item: entity.LineItem{
				UnitCost: decimal.RequireFromString("500"),
				Qty:      decimal.RequireFromString("1"),
				TaxRate:  decimal.RequireFromString("0.1"),
			},
			want: 550,
		},
		{
			name: "zero tax rate",
			item: item("999", "1", "0", "1"),
			want: 999,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, entity.CalcAmountJPY(tt.item))
		})
	}
}

func TestCalcSubtotalJPY(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(2000), entity.CalcSubtotalJPY(item("1000", "2", "0.1", "1")))
	require.Equal(t, int64(333), entity.CalcSubtotalJPY(item("333", "1", "0.08", "1")))

	// 45075 = floor(100*3*150.25); tax excluded.
	require.Equal(t, int64(45075), entity.CalcSubtotalJPY(item("100", "3", "0.1", "150.25")))
}

func TestCalcTotals_MultiRate(t *testing.T) {
	t.Parallel()

	items := []entity.LineItem{
		item("1000", "2", "0.1", "1"), // amount 2200, subtotal 2000
		item("333", "1", "0.08", "1"), // amount 359, subtotal 333
	}

	totals := entity.CalcTotals(items)

	require.Equal(t, int64(2559), totals.TotalJPY)
	require.Equal(t, int64(2333), totals.SubtotalJPY)
	require.Equal(t, int64(226), totals.TaxJPY)

	// The implied per-line tax is amount-subtotal of two independently
	// truncated products, not subtotal*rate. 333*0.08 would be 26.64.
	breakdown := entity.CalcTaxBreakdown(items)
	require.Equal(t, entity.RateBreakdown{SubtotalJPY: 2000, TaxJPY: 200}, breakdown["0.1"])
	require.Equal(t, entity.RateBreakdown{SubtotalJPY: 333, TaxJPY: 26}, breakdown["0.08"])
}

func TestCalcTotals_Empty(t *testing.T) {
	t.Parallel()

	require.Equal(t, entity.Totals{}, entity.CalcTotals(nil))
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	require.Equal(t, "¥666,464", entity.FormatCurrency(decimal.RequireFromString("666464"), entity.CurrencyJPY))
	require.Equal(t, "$1,234.50", entity.FormatCurrency(decimal.RequireFromString("1234.5"), entity.CurrencyUSD))
	require.Equal(t, "¥0", entity.FormatCurrency(decimal.Zero, entity.CurrencyJPY))
}

func TestCalcDueDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		invoiceDate string
		want        string
	}{
		{"2026-01-15", "2026-02-28"},
		{"2026-01-31", "2026-02-28"},
		{"2024-01-15", "2024-02-29"}, // leap year
		{"2026-11-01", "2026-12-31"},
		{"2026-12-10", "2027-01-31"},
	}

	for _, tt := range tests {
		got, err := entity.CalcDueDate(tt.invoiceDate)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := entity.CalcDueDate("15/01/2026")
	require.Error(t, err)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	t.Parallel()

	got, err := entity.GenerateInvoiceNumber("NLCS-", "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, "NLCS-January 2026", got)
}

func TestIsAllowedTaxRate(t *testing.T) {
	t.Parallel()

	require.True(t, entity.IsAllowedTaxRate(decimal.Zero))
	require.True(t, entity.IsAllowedTaxRate(decimal.RequireFromString("0.08")))
	require.True(t, entity.IsAllowedTaxRate(decimal.RequireFromString("0.10")))
	require.False(t, entity.IsAllowedTaxRate(decimal.RequireFromString("0.2")))
}
