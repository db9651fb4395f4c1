package underwriting

import (
	"math"

	"dealdesk/server/internal/models"
)

const (
	IRRMethodApproximate = "approximate"
	IRRMethodSolved      = "solved"
)

// ComputeModel underwrites a listing snapshot under the given assumptions.
// It has no side effects; identical inputs always produce identical models.
// Only unparseable price or cap rate fields (*ParseError) and invalid
// assumptions fail.
func ComputeModel(listing models.PropertyListing, assumptions MarketAssumptions) (*models.FinancialModel, error) {
	if err := assumptions.Validate(); err != nil {
		return nil, err
	}

	price, err := ParsePrice(listing.AskingPrice)
	if err != nil {
		return nil, err
	}
	capRate, err := ParseCapRate(listing.AdvertisedCapRate)
	if err != nil {
		return nil, err
	}
	units := ExtractUnitCount(listing.Details, assumptions.FallbackUnitCount)

	noi := round(float64(price) * capRate / 100)
	gross := round(float64(noi) / assumptions.NOIToGrossIncomeRatio)
	vacancy := round(float64(gross) * assumptions.VacancyRate)
	effectiveGross := gross - vacancy
	expenses := effectiveGross - noi

	downPayment := round(float64(price) * assumptions.DownPaymentFraction)
	loanAmount := price - downPayment

	debtService := referenceDebtService(loanAmount, assumptions)
	if assumptions.Mode == ModeStrict {
		debtService = round(AnnualPayment(float64(loanAmount), assumptions.InterestRate, assumptions.LoanTermYears))
	}
	cashFlow := noi - debtService

	m := &models.FinancialModel{
		Mode:                 string(assumptions.Mode),
		PurchasePrice:        price,
		DownPayment:          downPayment,
		LoanAmount:           loanAmount,
		InterestRate:         assumptions.InterestRate,
		LoanTermYears:        assumptions.LoanTermYears,
		UnitCount:            units,
		PricePerUnit:         round(float64(price) / float64(units)),
		GrossScheduledIncome: gross,
		VacancyLoss:          vacancy,
		EffectiveGrossIncome: effectiveGross,
		OperatingExpenses:    expenses,
		NetOperatingIncome:   noi,
		AnnualDebtService:    debtService,
		AnnualCashFlow:       cashFlow,
		CapRate:              capRate,
		IRRMethod:            IRRMethodApproximate,
	}
	if downPayment > 0 {
		m.CashOnCashReturn = float64(cashFlow) / float64(downPayment) * 100
	}
	m.TotalReturn = capRate + m.CashOnCashReturn
	if debtService > 0 {
		m.DebtServiceCoverage = float64(noi) / float64(debtService)
	}

	m.TenYearProjection = Project(float64(effectiveGross), float64(expenses), float64(debtService), assumptions)
	m.InternalRateOfReturn = ApproximateIRR(cashFlow, price, assumptions)

	if assumptions.Mode == ModeStrict {
		flows := equityCashFlows(m, assumptions)
		if irr, ok := SolveIRR(flows); ok {
			m.InternalRateOfReturn = irr * 100
			m.IRRMethod = IRRMethodSolved
		}
	}

	m.MarketComparables = Comparables(price, capRate, assumptions.Comparables)
	return m, nil
}

// Project compounds income and expenses independently from their base values;
// year 1 is already one growth step past the base. Debt service is held at the
// year-1 figure throughout.
func Project(baseIncome, baseExpenses, debtService float64, assumptions MarketAssumptions) []models.YearProjection {
	projections := make([]models.YearProjection, 0, assumptions.ProjectionYears)
	income := baseIncome
	expenses := baseExpenses
	for year := 1; year <= assumptions.ProjectionYears; year++ {
		income *= 1 + assumptions.RentGrowthRate
		expenses *= 1 + assumptions.ExpenseGrowthRate
		noi := income - expenses
		projections = append(projections, models.YearProjection{
			Year:     year,
			Income:   income,
			Expenses: expenses,
			NOI:      noi,
			CashFlow: noi - debtService,
		})
	}
	return projections
}

// ApproximateIRR expresses the hold-period cash flow plus assumed appreciation
// as a compound annual rate on the purchase price, in percent. It is not a
// discounted cash-flow solve. A non-positive total return reads as -100.
func ApproximateIRR(annualCashFlow, price int, assumptions MarketAssumptions) float64 {
	if price <= 0 {
		return 0
	}
	years := float64(assumptions.ProjectionYears)
	totalReturn := float64(annualCashFlow)*years + float64(price)*assumptions.AssumedAppreciation
	if totalReturn <= 0 {
		return -100
	}
	return (math.Pow(totalReturn/float64(price), 1/years) - 1) * 100
}

// Comparables scales the subject price and shifts its cap rate per template.
func Comparables(price int, capRate float64, templates []ComparableTemplate) []models.MarketComparable {
	comps := make([]models.MarketComparable, 0, len(templates))
	for _, t := range templates {
		compPrice := round(float64(price) * t.PriceFactor)
		units := t.Units
		if units < 1 {
			units = 1
		}
		comps = append(comps, models.MarketComparable{
			Address:      t.Address,
			Price:        compPrice,
			CapRate:      math.Round((capRate+t.CapRateOffset)*100) / 100,
			PricePerUnit: round(float64(compPrice) / float64(units)),
		})
	}
	return comps
}

func referenceDebtService(loanAmount int, assumptions MarketAssumptions) int {
	return round(float64(loanAmount) * assumptions.DebtServiceConstant)
}

func round(v float64) int {
	return int(math.Round(v))
}
