// Package pricing implements the cascading tax-and-margin price computation.
//
// The model compounds stage by stage: excise tax is levied on the base
// price, VAT on the excise-inclusive base, and the profit margin on the
// fully-taxed cost. The stage order is part of the business contract —
// reordering changes the numeric result.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveBasePrice = errors.New("base price must be greater than zero")
	ErrNegativeRate         = errors.New("rates must not be negative")
)

var oneHundred = decimal.NewFromInt(100)

// Rates holds the three percentage parameters of a calculation, expressed
// as whole numbers (16 means 16%).
type Rates struct {
	Excise decimal.Decimal
	VAT    decimal.Decimal
	Margin decimal.Decimal
}

// Breakdown contains every intermediate and final value of one calculation.
// All monetary fields except BasePrice are rounded to 2 decimal places;
// BasePrice and the rates are carried through as given.
type Breakdown struct {
	BasePrice    decimal.Decimal
	ExciseAmount decimal.Decimal
	VATBase      decimal.Decimal
	VATAmount    decimal.Decimal
	TotalCost    decimal.Decimal
	Profit       decimal.Decimal
	FinalPrice   decimal.Decimal
}

// Calculate computes the price breakdown for basePrice under the given
// rates. It rejects a non-positive base price and any negative rate.
func Calculate(basePrice decimal.Decimal, rates Rates) (Breakdown, error) {
	if !basePrice.IsPositive() {
		return Breakdown{}, ErrNonPositiveBasePrice
	}
	if rates.Excise.IsNegative() || rates.VAT.IsNegative() || rates.Margin.IsNegative() {
		return Breakdown{}, ErrNegativeRate
	}

	exciseAmount := basePrice.Mul(rates.Excise.Div(oneHundred))
	vatBase := basePrice.Add(exciseAmount)
	vatAmount := vatBase.Mul(rates.VAT.Div(oneHundred))
	totalCost := basePrice.Add(exciseAmount).Add(vatAmount)
	profit := totalCost.Mul(rates.Margin.Div(oneHundred))
	finalPrice := totalCost.Add(profit)

	return Breakdown{
		BasePrice:    basePrice,
		ExciseAmount: exciseAmount.Round(2),
		VATBase:      vatBase.Round(2),
		VATAmount:    vatAmount.Round(2),
		TotalCost:    totalCost.Round(2),
		Profit:       profit.Round(2),
		FinalPrice:   finalPrice.Round(2),
	}, nil
}
