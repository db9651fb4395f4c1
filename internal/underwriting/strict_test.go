package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualPayment_MatchesStandardFormula(t *testing.T) {
	tests := []struct {
		principal       float64
		ratePct         float64
		years           int
		expectedMonthly float64
	}{
		{principal: 200000, ratePct: 4, years: 25, expectedMonthly: 1055.67},
		{principal: 300000, ratePct: 5, years: 30, expectedMonthly: 1610.46},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expectedMonthly, AnnualPayment(tt.principal, tt.ratePct, tt.years)/12, 0.01)
	}
}

func TestAnnualPayment_EdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, AnnualPayment(0, 7.5, 25))
	assert.Equal(t, 0.0, AnnualPayment(100000, 7.5, 0))
	assert.InDelta(t, 12000.0, AnnualPayment(120000, 0, 10), 1e-9)
}

func TestRemainingBalance(t *testing.T) {
	assert.InDelta(t, 200000, RemainingBalance(200000, 4, 25, 0), 1e-6)
	assert.Equal(t, 0.0, RemainingBalance(200000, 4, 25, 25))
	assert.InDelta(t, 60000, RemainingBalance(120000, 0, 10, 5), 1e-9)

	mid := RemainingBalance(200000, 4, 25, 10)
	assert.Less(t, mid, 200000.0)
	assert.Greater(t, mid, 100000.0)
}

func TestSolveIRR(t *testing.T) {
	rate, ok := SolveIRR([]float64{-100, 110})
	assert.True(t, ok)
	assert.InDelta(t, 0.10, rate, 1e-8)

	rate, ok = SolveIRR([]float64{-1000, 0, 0, 1331})
	assert.True(t, ok)
	assert.InDelta(t, 0.10, rate, 1e-8)

	rate, ok = SolveIRR([]float64{-1000, 100, 100, 100})
	assert.True(t, ok)
	assert.Less(t, rate, 0.0)
	assert.InDelta(t, 0, NPV(rate, []float64{-1000, 100, 100, 100}), 1e-4)

	_, ok = SolveIRR([]float64{100, 100})
	assert.False(t, ok)

	_, ok = SolveIRR([]float64{-100})
	assert.False(t, ok)

	_, ok = SolveIRR([]float64{0, 0, 0, 0})
	assert.False(t, ok, "all-zero flows have no rate")
}

func TestComputeModel_StrictZeroPriceStaysApproximate(t *testing.T) {
	assumptions := DefaultAssumptions()
	assumptions.Mode = ModeStrict
	listing := thomasStreet()
	listing.AskingPrice = "$0"
	listing.AdvertisedCapRate = "5%"

	m, err := ComputeModel(listing, assumptions)
	require.NoError(t, err)
	assert.Equal(t, IRRMethodApproximate, m.IRRMethod)
	assert.Equal(t, 0.0, m.InternalRateOfReturn)
}
