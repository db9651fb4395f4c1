package underwriting

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/server/internal/models"
)

func thomasStreet() models.PropertyListing {
	return models.PropertyListing{
		Address:           "1052 E Thomas St",
		Location:          "Seattle, WA 98102",
		AskingPrice:       "$6,950,000",
		AdvertisedCapRate: "5.07%",
		Details:           "29-unit apartment • 5.07% cap rate",
	}
}

func TestComputeModel_ThomasStreet(t *testing.T) {
	m, err := ComputeModel(thomasStreet(), DefaultAssumptions())
	require.NoError(t, err)

	assert.Equal(t, "reference", m.Mode)
	assert.Equal(t, 6950000, m.PurchasePrice)
	assert.Equal(t, 352365, m.NetOperatingIncome)
	assert.Equal(t, 414547, m.GrossScheduledIncome)
	assert.Equal(t, 20727, m.VacancyLoss)
	assert.Equal(t, 393820, m.EffectiveGrossIncome)
	assert.Equal(t, 41455, m.OperatingExpenses)
	assert.Equal(t, 1737500, m.DownPayment)
	assert.Equal(t, 5212500, m.LoanAmount)
	assert.Equal(t, 417000, m.AnnualDebtService)
	assert.Equal(t, -64635, m.AnnualCashFlow)
	assert.Equal(t, 29, m.UnitCount)
	assert.Equal(t, 239655, m.PricePerUnit)
	assert.Equal(t, 7.5, m.InterestRate)
	assert.Equal(t, 5.07, m.CapRate)
	assert.InDelta(t, -64635.0/1737500.0*100, m.CashOnCashReturn, 1e-9)
	assert.InDelta(t, 5.07+m.CashOnCashReturn, m.TotalReturn, 1e-9)
	assert.InDelta(t, 352365.0/417000.0, m.DebtServiceCoverage, 1e-9)

	expectedIRR := (math.Pow((-64635.0*10+6950000.0*0.30)/6950000.0, 0.1) - 1) * 100
	assert.InDelta(t, expectedIRR, m.InternalRateOfReturn, 1e-9)
	assert.Equal(t, IRRMethodApproximate, m.IRRMethod)
}

func TestComputeModel_LincolnParkEightUnits(t *testing.T) {
	listing := models.PropertyListing{
		Address:           "4270 NE 50th St",
		Location:          "Seattle, WA 98105",
		AskingPrice:       "$4,750,000",
		AdvertisedCapRate: "3.77%",
		Details:           "8-unit apartment",
	}

	m, err := ComputeModel(listing, DefaultAssumptions())
	require.NoError(t, err)
	assert.Equal(t, 8, m.UnitCount)
	assert.Equal(t, 179075, m.NetOperatingIncome)
}

func TestComputeModel_Invariants(t *testing.T) {
	assumptions := DefaultAssumptions()
	prices := []string{"$1", "$99,999", "$850,000", "$4,750,000", "$12,345,678", "$250,000,000"}
	caps := []string{"0.5%", "3.77%", "5.07%", "7.25%", "12%", "99.9%"}

	for _, price := range prices {
		for _, capRate := range caps {
			listing := models.PropertyListing{AskingPrice: price, AdvertisedCapRate: capRate, Details: "12-unit apartment"}
			m, err := ComputeModel(listing, assumptions)
			require.NoError(t, err, "%s @ %s", price, capRate)

			p, _ := ParsePrice(price)
			c, _ := ParseCapRate(capRate)
			assert.Equal(t, int(math.Round(float64(p)*c/100)), m.NetOperatingIncome)
			assert.InDelta(t, m.GrossScheduledIncome, m.EffectiveGrossIncome+m.VacancyLoss, 1)
			assert.Equal(t, m.NetOperatingIncome, m.EffectiveGrossIncome-m.OperatingExpenses)
			assert.Equal(t, m.PurchasePrice, m.DownPayment+m.LoanAmount)
			assert.GreaterOrEqual(t, m.UnitCount, 1)
		}
	}
}

func TestComputeModel_ProjectionShape(t *testing.T) {
	assumptions := DefaultAssumptions()
	m, err := ComputeModel(thomasStreet(), assumptions)
	require.NoError(t, err)

	require.Len(t, m.TenYearProjection, assumptions.ProjectionYears)
	for i, p := range m.TenYearProjection {
		assert.Equal(t, i+1, p.Year)
		assert.Equal(t, p.Income-p.Expenses, p.NOI)
		assert.Equal(t, p.NOI-float64(m.AnnualDebtService), p.CashFlow)
		if i == 0 {
			// Deliberate departure from the reference formula: growth compounds from
			// effective gross income and opex = EGI - NOI, so NOI == EGI - opex holds.
			assert.Equal(t, float64(m.EffectiveGrossIncome)*(1+assumptions.RentGrowthRate), p.Income)
			assert.Equal(t, float64(m.OperatingExpenses)*(1+assumptions.ExpenseGrowthRate), p.Expenses)
			continue
		}
		prev := m.TenYearProjection[i-1]
		assert.Equal(t, prev.Income*(1+assumptions.RentGrowthRate), p.Income)
		assert.Equal(t, prev.Expenses*(1+assumptions.ExpenseGrowthRate), p.Expenses)
	}
}

func TestComputeModel_CustomProjectionLength(t *testing.T) {
	assumptions := DefaultAssumptions()
	assumptions.ProjectionYears = 5

	m, err := ComputeModel(thomasStreet(), assumptions)
	require.NoError(t, err)
	assert.Len(t, m.TenYearProjection, 5)
	assert.Equal(t, 5, m.TenYearProjection[4].Year)
}

func TestComputeModel_Idempotent(t *testing.T) {
	first, err := ComputeModel(thomasStreet(), DefaultAssumptions())
	require.NoError(t, err)
	second, err := ComputeModel(thomasStreet(), DefaultAssumptions())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated computation differs (-first +second):\n%s", diff)
	}
}

func TestComputeModel_RentGrowthMonotonic(t *testing.T) {
	low := DefaultAssumptions()
	high := DefaultAssumptions()
	high.RentGrowthRate = 0.04

	a, err := ComputeModel(thomasStreet(), low)
	require.NoError(t, err)
	b, err := ComputeModel(thomasStreet(), high)
	require.NoError(t, err)

	for i := 1; i < len(a.TenYearProjection); i++ {
		assert.Greater(t, b.TenYearProjection[i].Income, a.TenYearProjection[i].Income, "year %d", i+1)
	}
}

func TestComputeModel_Comparables(t *testing.T) {
	m, err := ComputeModel(thomasStreet(), DefaultAssumptions())
	require.NoError(t, err)
	require.Len(t, m.MarketComparables, 3)

	expected := []models.MarketComparable{
		{Address: "1420 E Pine St, Seattle, WA", Price: 7645000, CapRate: 4.77, PricePerUnit: 305800},
		{Address: "950 Taylor Ave N, Seattle, WA", Price: 6602500, CapRate: 5.27, PricePerUnit: 300114},
		{Address: "2200 Westlake Ave, Seattle, WA", Price: 7297500, CapRate: 4.87, PricePerUnit: 260625},
	}
	for i, want := range expected {
		got := m.MarketComparables[i]
		assert.Equal(t, want.Address, got.Address)
		assert.Equal(t, want.Price, got.Price)
		assert.InDelta(t, want.CapRate, got.CapRate, 1e-9)
		assert.Equal(t, want.PricePerUnit, got.PricePerUnit)
	}
}

func TestComputeModel_NoComparables(t *testing.T) {
	assumptions := DefaultAssumptions()
	assumptions.Comparables = nil

	m, err := ComputeModel(thomasStreet(), assumptions)
	require.NoError(t, err)
	assert.NotNil(t, m.MarketComparables)
	assert.Empty(t, m.MarketComparables)
}

func TestComputeModel_ParseFailures(t *testing.T) {
	listing := thomasStreet()
	listing.AskingPrice = "N/A"

	_, err := ComputeModel(listing, DefaultAssumptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "asking price", parseErr.Field)

	listing = thomasStreet()
	listing.AdvertisedCapRate = ""
	_, err = ComputeModel(listing, DefaultAssumptions())
	require.Error(t, err)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "cap rate", parseErr.Field)
}

func TestComputeModel_MissingUnitsFallsBack(t *testing.T) {
	listing := thomasStreet()
	listing.Details = "luxury building"

	m, err := ComputeModel(listing, DefaultAssumptions())
	require.NoError(t, err)
	assert.Equal(t, 20, m.UnitCount)
}

func TestComputeModel_InvalidAssumptions(t *testing.T) {
	assumptions := DefaultAssumptions()
	assumptions.ProjectionYears = 0

	_, err := ComputeModel(thomasStreet(), assumptions)
	assert.ErrorIs(t, err, ErrInvalidAssumptions)
}

// Strict mode deliberately departs from the reference outputs: the debt
// service is a true amortizing payment and IRR is solved from cash flows.
func TestComputeModel_StrictModeDeviatesFromReference(t *testing.T) {
	strict := DefaultAssumptions()
	strict.Mode = ModeStrict

	ref, err := ComputeModel(thomasStreet(), DefaultAssumptions())
	require.NoError(t, err)
	m, err := ComputeModel(thomasStreet(), strict)
	require.NoError(t, err)

	assert.Equal(t, "strict", m.Mode)
	assert.Equal(t, int(math.Round(AnnualPayment(5212500, 7.5, 25))), m.AnnualDebtService)
	assert.NotEqual(t, ref.AnnualDebtService, m.AnnualDebtService)

	// income statement does not depend on the financing mode
	assert.Equal(t, ref.NetOperatingIncome, m.NetOperatingIncome)
	assert.Equal(t, ref.GrossScheduledIncome, m.GrossScheduledIncome)

	require.Equal(t, IRRMethodSolved, m.IRRMethod)
	flows := equityCashFlows(m, strict)
	assert.InDelta(t, 0, NPV(m.InternalRateOfReturn/100, flows), 1.0)
}
