package payroll

import (
	"testing"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTaxCalculator(legacy bool) *TaxCalculator {
	return NewTaxCalculator(ratetable.Default().TaxBrackets, legacy)
}

func TestTaxCalculator_AnnualTax(t *testing.T) {
	calc := newTaxCalculator(false)

	tests := []struct {
		name   string
		annual string
		want   string
		label  string
	}{
		{"zero income", "0", "0", "₱0 – ₱250,000"},
		{"below exemption", "200000", "0", "₱0 – ₱250,000"},
		{"exactly at exemption ceiling", "250000", "0", "₱0 – ₱250,000"},
		{"one peso over", "250001", "0.15", "₱250,001 – ₱400,000"},
		{"top of 15 percent", "400000", "22500", "₱250,001 – ₱400,000"},
		{"20 percent bracket", "500000", "42500", "₱400,001 – ₱800,000"},
		{"top of 20 percent", "800000", "102500", "₱400,001 – ₱800,000"},
		{"25 percent bracket", "1000000", "152500", "₱800,001 – ₱2,000,000"},
		{"30 percent bracket", "3000000", "702500", "₱2,000,001 – ₱8,000,000"},
		{"top of 30 percent", "8000000", "2202500", "₱2,000,001 – ₱8,000,000"},
		{"35 percent bracket", "10000000", "2902500", "Over ₱8,000,000"},
		{"centavo rounding", "250000.07", "0.01", "₱250,001 – ₱400,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bracket, err := calc.AnnualTax(dec(tt.annual))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "AnnualTax(%s) = %s, want %s", tt.annual, got, tt.want)
			assert.Equal(t, tt.label, bracket.Label)
		})
	}
}

func TestTaxCalculator_NegativeIncomeIsExempt(t *testing.T) {
	got, bracket, err := newTaxCalculator(false).AnnualTax(dec("-1000"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Equal(t, "₱0 – ₱250,000", bracket.Label)
}

func TestTaxCalculator_ExemptUpToCeiling(t *testing.T) {
	calc := newTaxCalculator(false)
	for a := int64(0); a <= 250000; a += 2500 {
		got, _, err := calc.AnnualTax(decimal.NewFromInt(a))
		require.NoError(t, err)
		assert.True(t, got.IsZero(), "income %d should be exempt, got %s", a, got)
	}
}

func TestTaxCalculator_StrictlyIncreasingAboveExemption(t *testing.T) {
	calc := newTaxCalculator(false)

	prev, _, err := calc.AnnualTax(dec("250000"))
	require.NoError(t, err)
	for a := int64(250100); a <= 9000000; a += 100 {
		got, _, err := calc.AnnualTax(decimal.NewFromInt(a))
		require.NoError(t, err)
		require.True(t, got.GreaterThan(prev), "tax(%d) = %s is not above previous %s", a, got, prev)
		prev = got
	}
}

func TestTaxCalculator_ContinuousAtBoundaries(t *testing.T) {
	calc := newTaxCalculator(false)
	tolerance := dec("0.01")

	for _, boundary := range []string{"250000", "400000", "800000", "2000000", "8000000"} {
		at, _, err := calc.AnnualTax(dec(boundary))
		require.NoError(t, err)
		above, _, err := calc.AnnualTax(dec(boundary).Add(dec("0.01")))
		require.NoError(t, err)

		gap := above.Sub(at)
		assert.False(t, gap.IsNegative(), "tax dropped across %s", boundary)
		assert.True(t, gap.LessThanOrEqual(tolerance), "tax jumped by %s across %s", gap, boundary)
	}
}

func TestTaxCalculator_LegacyBoundary(t *testing.T) {
	legacy := newTaxCalculator(true)

	b, err := legacy.BracketFor(dec("250000"))
	require.NoError(t, err)
	assert.Equal(t, "₱250,001 – ₱400,000", b.Label)

	b, err = legacy.BracketFor(dec("249999.99"))
	require.NoError(t, err)
	assert.Equal(t, "₱0 – ₱250,000", b.Label)

	// Every other income is classified as the correct calculator does.
	correct := newTaxCalculator(false)
	for _, a := range []string{"0", "250000.01", "400000", "400000.01", "9000000"} {
		want, err := correct.BracketFor(dec(a))
		require.NoError(t, err)
		got, err := legacy.BracketFor(dec(a))
		require.NoError(t, err)
		assert.Equal(t, want.Label, got.Label, "income %s", a)
	}
}

func TestTaxCalculator_MonthlyWithholding(t *testing.T) {
	calc := newTaxCalculator(false)

	tests := []struct {
		monthly string
		want    string
	}{
		{"20000", "0"},
		{"23275", "366.25"},
		{"25000", "625"},
		{"47650", "4738.33"},
	}
	for _, tt := range tests {
		got, _, err := calc.MonthlyWithholding(dec(tt.monthly))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(tt.want)), "MonthlyWithholding(%s) = %s, want %s", tt.monthly, got, tt.want)
	}
}

func TestTaxCalculator_NoBrackets(t *testing.T) {
	_, _, err := NewTaxCalculator(nil, false).AnnualTax(dec("1"))
	assert.Error(t, err)
}
