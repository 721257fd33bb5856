// Package pricing computes line and order amounts for a cart. It performs no I/O.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is persisted with.
const MoneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)

	ErrNonPositiveQuantity = errors.New("pricing: quantity must be greater than zero")
	ErrInvalidDiscount     = errors.New("pricing: discount must be between 0 and 100")
)

// Combo holds bundle terms: Size units sell together for Price.
type Combo struct {
	Size  int64
	Price decimal.Decimal
}

// Active reports whether the combo terms apply.
func (c *Combo) Active() bool {
	return c != nil && c.Size > 1 && c.Price.IsPositive()
}

// Line is one priced cart line.
type Line struct {
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	CostPrice       decimal.Decimal
	Combo           *Combo
	DiscountPercent decimal.Decimal
}

// Policy holds shop-level pricing options.
type Policy struct {
	// ComboRoundingStep rounds a combo line subtotal up to the next multiple of the step.
	// Zero disables it.
	ComboRoundingStep decimal.Decimal
}

// LineResult is the frozen outcome for one line.
type LineResult struct {
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
	Cost            decimal.Decimal
	ComboApplied    bool
}

// Breakdown is the order-level result.
type Breakdown struct {
	Lines    []LineResult
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Cost     decimal.Decimal
	Profit   decimal.Decimal
}

// Round rounds a money amount half-up to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ComboSubtotal prices quantity units under combo terms. Whole combos are charged at the combo
// price and the remainder is charged per unit, capped at one combo price.
func ComboSubtotal(quantity, unitPrice decimal.Decimal, combo Combo) decimal.Decimal {
	size := decimal.NewFromInt(combo.Size)
	combos := quantity.Div(size).Floor()
	remainder := quantity.Sub(combos.Mul(size))

	comboCost := combos.Mul(combo.Price)
	remainderCost := decimal.Min(remainder.Mul(unitPrice), combo.Price)
	return comboCost.Add(remainderCost)
}

// LineSubtotal returns the rounded line total after combo pricing, the rounding policy and
// the line discount.
func LineSubtotal(line Line, policy Policy) (LineResult, error) {
	if !line.Quantity.IsPositive() {
		return LineResult{}, ErrNonPositiveQuantity
	}
	if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(hundred) {
		return LineResult{}, ErrInvalidDiscount
	}

	var subtotal decimal.Decimal
	comboApplied := line.Combo.Active()
	if comboApplied {
		subtotal = ComboSubtotal(line.Quantity, line.UnitPrice, *line.Combo)
		subtotal = roundUpToStep(subtotal, policy.ComboRoundingStep)
	} else {
		subtotal = line.Quantity.Mul(line.UnitPrice)
	}

	if line.DiscountPercent.IsPositive() {
		factor := hundred.Sub(line.DiscountPercent).Div(hundred)
		subtotal = subtotal.Mul(factor)
	}

	return LineResult{
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
		DiscountPercent: line.DiscountPercent,
		Total:           Round(subtotal),
		Cost:            line.Quantity.Mul(line.CostPrice),
		ComboApplied:    comboApplied,
	}, nil
}

// Price computes every line and the order totals. taxRate is a fraction, e.g. 0.16.
func Price(lines []Line, taxRate decimal.Decimal, policy Policy) (*Breakdown, error) {
	b := &Breakdown{Lines: make([]LineResult, 0, len(lines))}
	for _, line := range lines {
		res, err := LineSubtotal(line, policy)
		if err != nil {
			return nil, err
		}
		b.Lines = append(b.Lines, res)
		b.Subtotal = b.Subtotal.Add(res.Total)
		b.Cost = b.Cost.Add(res.Cost)
	}

	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	b.Tax = Round(b.Subtotal.Mul(taxRate))
	b.Total = b.Subtotal.Add(b.Tax)
	b.Cost = Round(b.Cost)
	b.Profit = b.Subtotal.Sub(b.Cost)
	return b, nil
}

func roundUpToStep(amount, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return amount
	}
	return amount.Div(step).Ceil().Mul(step)
}
