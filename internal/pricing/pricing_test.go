package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func wantEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestCalculate_CascadingExample(t *testing.T) {
	// Excise on base, VAT on excise-inclusive base, margin on the fully
	// taxed cost.
	b, err := Calculate(d("100"), Rates{Excise: d("30"), VAT: d("16"), Margin: d("40")})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	wantEqual(t, "exciseAmount", b.ExciseAmount, d("30.00"))
	wantEqual(t, "vatBase", b.VATBase, d("130.00"))
	wantEqual(t, "vatAmount", b.VATAmount, d("20.80"))
	wantEqual(t, "totalCost", b.TotalCost, d("150.80"))
	wantEqual(t, "profit", b.Profit, d("60.32"))
	wantEqual(t, "finalPrice", b.FinalPrice, d("211.12"))
}

func TestCalculate_MarginOnly(t *testing.T) {
	b, err := Calculate(d("50"), Rates{Margin: d("20")})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	wantEqual(t, "exciseAmount", b.ExciseAmount, d("0"))
	wantEqual(t, "vatAmount", b.VATAmount, d("0"))
	wantEqual(t, "totalCost", b.TotalCost, d("50"))
	wantEqual(t, "profit", b.Profit, d("10"))
	wantEqual(t, "finalPrice", b.FinalPrice, d("60.00"))
}

func TestCalculate_AllRatesZeroIsIdentity(t *testing.T) {
	b, err := Calculate(d("123.45"), Rates{})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	wantEqual(t, "finalPrice", b.FinalPrice, d("123.45"))
	wantEqual(t, "profit", b.Profit, d("0"))
}

func TestCalculate_Deterministic(t *testing.T) {
	rates := Rates{Excise: d("5.5"), VAT: d("16"), Margin: d("25")}

	first, err := Calculate(d("22.5"), rates)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	second, err := Calculate(d("22.5"), rates)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	if !first.FinalPrice.Equal(second.FinalPrice) || !first.Profit.Equal(second.Profit) {
		t.Fatalf("identical inputs produced different outputs: %+v vs %+v", first, second)
	}
}

func TestCalculate_MonotonicCompounding(t *testing.T) {
	cases := []struct {
		base, excise, vat, margin string
	}{
		{"100", "30", "16", "40"},
		{"15", "0", "0", "20"},
		{"150", "160", "16", "35"},
		{"0.01", "5.5", "16", "25"},
	}

	for _, tc := range cases {
		b, err := Calculate(d(tc.base), Rates{Excise: d(tc.excise), VAT: d(tc.vat), Margin: d(tc.margin)})
		if err != nil {
			t.Fatalf("Calculate(%s) returned error: %v", tc.base, err)
		}
		if b.FinalPrice.LessThan(b.TotalCost) {
			t.Errorf("base %s: finalPrice %s < totalCost %s", tc.base, b.FinalPrice, b.TotalCost)
		}
		if b.TotalCost.LessThan(b.VATBase) {
			t.Errorf("base %s: totalCost %s < vatBase %s", tc.base, b.TotalCost, b.VATBase)
		}
		if b.VATBase.LessThan(b.BasePrice.Round(2)) {
			t.Errorf("base %s: vatBase %s < basePrice %s", tc.base, b.VATBase, b.BasePrice)
		}
	}
}

func TestCalculate_TwoDecimalOutputs(t *testing.T) {
	b, err := Calculate(d("33.333"), Rates{Excise: d("7.77"), VAT: d("16"), Margin: d("30")})
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	for name, v := range map[string]decimal.Decimal{
		"exciseAmount": b.ExciseAmount,
		"vatAmount":    b.VATAmount,
		"totalCost":    b.TotalCost,
		"profit":       b.Profit,
		"finalPrice":   b.FinalPrice,
	} {
		if v.Exponent() < -2 {
			t.Errorf("%s = %s has more than 2 decimal places", name, v)
		}
	}
}

func TestCalculate_RejectsNonPositiveBasePrice(t *testing.T) {
	for _, base := range []string{"0", "-1", "-0.01"} {
		_, err := Calculate(d(base), Rates{VAT: d("16"), Margin: d("30")})
		if !errors.Is(err, ErrNonPositiveBasePrice) {
			t.Errorf("Calculate(base=%s) error = %v, want ErrNonPositiveBasePrice", base, err)
		}
	}
}

func TestCalculate_RejectsNegativeRates(t *testing.T) {
	cases := []Rates{
		{Excise: d("-1")},
		{VAT: d("-0.5")},
		{Margin: d("-10")},
	}
	for _, rates := range cases {
		if _, err := Calculate(d("100"), rates); !errors.Is(err, ErrNegativeRate) {
			t.Errorf("Calculate(rates=%+v) error = %v, want ErrNegativeRate", rates, err)
		}
	}
}
