package pricing_test

import (
	"testing"

	"github.com/sangkips/duka-pos/pkg/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestComboSubtotal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quantity string
		unit     string
		combo    pricing.Combo
		want     string
	}{
		{"one combo plus remainder", "5", "30", pricing.Combo{Size: 4, Price: dec("100")}, "130"},
		{"less than one combo", "3", "30", pricing.Combo{Size: 4, Price: dec("100")}, "90"},
		{"exact combos", "8", "30", pricing.Combo{Size: 4, Price: dec("100")}, "200"},
		{"remainder capped at combo price", "7", "30", pricing.Combo{Size: 4, Price: dec("50")}, "100"},
		{"fractional remainder", "4.5", "30", pricing.Combo{Size: 4, Price: dec("100")}, "115"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertDecimal(t, tc.want, pricing.ComboSubtotal(dec(tc.quantity), dec(tc.unit), tc.combo))
		})
	}
}

func TestLineSubtotal(t *testing.T) {
	t.Parallel()

	t.Run("plain line", func(t *testing.T) {
		t.Parallel()
		res, err := pricing.LineSubtotal(pricing.Line{Quantity: dec("2"), UnitPrice: dec("50"), CostPrice: dec("30")}, pricing.Policy{})
		require.NoError(t, err)
		assertDecimal(t, "100", res.Total)
		assertDecimal(t, "60", res.Cost)
		assert.False(t, res.ComboApplied)
	})

	t.Run("inactive combo falls back to unit price", func(t *testing.T) {
		t.Parallel()
		line := pricing.Line{Quantity: dec("5"), UnitPrice: dec("30"), Combo: &pricing.Combo{Size: 1, Price: dec("25")}}
		res, err := pricing.LineSubtotal(line, pricing.Policy{})
		require.NoError(t, err)
		assertDecimal(t, "150", res.Total)
	})

	t.Run("rounding step applies to combo lines only", func(t *testing.T) {
		t.Parallel()
		policy := pricing.Policy{ComboRoundingStep: dec("5")}

		combo := pricing.Line{Quantity: dec("4"), UnitPrice: dec("33"), Combo: &pricing.Combo{Size: 3, Price: dec("91")}}
		res, err := pricing.LineSubtotal(combo, policy)
		require.NoError(t, err)
		assertDecimal(t, "125", res.Total)

		plain := pricing.Line{Quantity: dec("1"), UnitPrice: dec("33")}
		res, err = pricing.LineSubtotal(plain, policy)
		require.NoError(t, err)
		assertDecimal(t, "33", res.Total)
	})

	t.Run("discount and half-up rounding", func(t *testing.T) {
		t.Parallel()
		line := pricing.Line{Quantity: dec("1.5"), UnitPrice: dec("9.99"), DiscountPercent: dec("10")}
		res, err := pricing.LineSubtotal(line, pricing.Policy{})
		require.NoError(t, err)
		// 1.5 * 9.99 * 0.9 = 13.4865
		assertDecimal(t, "13.49", res.Total)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		_, err := pricing.LineSubtotal(pricing.Line{Quantity: dec("0"), UnitPrice: dec("1")}, pricing.Policy{})
		assert.ErrorIs(t, err, pricing.ErrNonPositiveQuantity)

		_, err = pricing.LineSubtotal(pricing.Line{Quantity: dec("1"), UnitPrice: dec("1"), DiscountPercent: dec("101")}, pricing.Policy{})
		assert.ErrorIs(t, err, pricing.ErrInvalidDiscount)
	})
}

func TestPriceOrder(t *testing.T) {
	t.Parallel()

	lines := []pricing.Line{
		{Quantity: dec("2"), UnitPrice: dec("50"), CostPrice: dec("40")},
		{Quantity: dec("4"), UnitPrice: dec("35"), CostPrice: dec("20"), Combo: &pricing.Combo{Size: 3, Price: dec("90")}},
	}

	b, err := pricing.Price(lines, dec("0.16"), pricing.Policy{})
	require.NoError(t, err)
	require.Len(t, b.Lines, 2)

	assertDecimal(t, "100", b.Lines[0].Total)
	assertDecimal(t, "125", b.Lines[1].Total)
	assertDecimal(t, "225", b.Subtotal)
	assertDecimal(t, "36", b.Tax)
	assertDecimal(t, "261", b.Total)
	assertDecimal(t, "160", b.Cost)
	assertDecimal(t, "65", b.Profit)
	assert.True(t, b.Total.Equal(b.Subtotal.Add(b.Tax)))
}

func TestPriceOrderWithoutTax(t *testing.T) {
	t.Parallel()

	b, err := pricing.Price([]pricing.Line{{Quantity: dec("3"), UnitPrice: dec("0.335")}}, decimal.Zero, pricing.Policy{})
	require.NoError(t, err)
	assertDecimal(t, "1.01", b.Subtotal)
	assertDecimal(t, "0", b.Tax)
	assertDecimal(t, "1.01", b.Total)
}
