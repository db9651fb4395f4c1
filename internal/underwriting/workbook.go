package underwriting

import (
	"errors"
	"math"

	"dealdesk/server/internal/models"
)

const closingCostFraction = 0.025

var ErrNilModel = errors.New("financial model is required")

var expenseWeights = []struct {
	category string
	weight   float64
}{
	{"Management", 8},
	{"Maintenance", 12},
	{"Insurance", 6},
	{"Taxes", 15},
	{"Utilities", 5},
	{"Other", 4},
}

var unitMixTable = []struct {
	unitType    string
	share       float64
	avgSF       int
	currentRent int
	marketRent  int
}{
	{"Studio", 0.15, 550, 1850, 1950},
	{"1BR", 0.45, 750, 2400, 2550},
	{"2BR", 0.35, 1100, 3200, 3400},
	{"3BR", 0, 1350, 4100, 4350},
}

var (
	exitCapRates  = []float64{4.0, 4.5, 5.0, 5.5, 6.0}
	noiVariations = []float64{-10, -5, 0, 5, 10}
)

// BuildWorkbook lays a computed model out the way the spreadsheet export
// presents it.
func BuildWorkbook(listing models.PropertyListing, m *models.FinancialModel, assumptions MarketAssumptions) (*models.Workbook, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	closing := round(float64(m.PurchasePrice) * closingCostFraction)
	wb := &models.Workbook{
		PropertyAddress: listing.Address,
		TotalUnits:      m.UnitCount,
		Acquisition: models.AcquisitionAnalysis{
			PurchasePrice:   m.PurchasePrice,
			ClosingCosts:    closing,
			TotalInvestment: m.PurchasePrice + closing,
			DownPayment:     m.DownPayment,
			LoanAmount:      m.LoanAmount,
			InterestRate:    m.InterestRate,
			Amortization:    m.LoanTermYears,
			DebtService:     m.AnnualDebtService,
		},
		OperatingStatement: models.OperatingStatement{
			GrossScheduledIncome: m.GrossScheduledIncome,
			Vacancy:              m.VacancyLoss,
			EffectiveGrossIncome: m.EffectiveGrossIncome,
			OperatingExpenses:    m.OperatingExpenses,
			NetOperatingIncome:   m.NetOperatingIncome,
			DebtService:          m.AnnualDebtService,
			CashFlow:             m.AnnualCashFlow,
		},
		ExpenseBreakdown: ExpenseBreakdown(m.OperatingExpenses),
		UnitMix:          UnitMix(m.UnitCount),
		Comparables:      m.MarketComparables,
	}
	if m.PurchasePrice > 0 {
		wb.Acquisition.LoanToValue = math.Round(float64(m.LoanAmount)/float64(m.PurchasePrice)*10000) / 100
	}

	var cumulative, totalCashFlow float64
	for _, p := range m.TenYearProjection {
		gross := p.Income / (1 - assumptions.VacancyRate)
		cumulative += p.CashFlow
		totalCashFlow += p.CashFlow
		wb.Projections = append(wb.Projections, models.WorkbookProjection{
			Year:               p.Year,
			Income:             round(gross),
			Vacancy:            round(gross - p.Income),
			EffectiveIncome:    round(p.Income),
			OperatingExpenses:  round(p.Expenses),
			NOI:                round(p.NOI),
			DebtService:        m.AnnualDebtService,
			CashFlow:           round(p.CashFlow),
			CumulativeCashFlow: round(cumulative),
		})
	}

	wb.Returns = models.ReturnAnalysis{
		CapRate:     m.CapRate,
		CashOnCash:  m.CashOnCashReturn,
		TotalReturn: m.TotalReturn,
		IRR:         m.InternalRateOfReturn,
	}
	if m.DownPayment > 0 {
		appreciation := float64(m.PurchasePrice) * assumptions.AssumedAppreciation
		wb.Returns.EquityMultiple = (totalCashFlow + appreciation) / float64(m.DownPayment)
		if n := len(m.TenYearProjection); n > 0 {
			wb.Returns.AverageCashYield = totalCashFlow / float64(n) / float64(m.DownPayment) * 100
		}
	}

	wb.Sensitivity = sensitivity(m, assumptions)
	return wb, nil
}

// ExpenseBreakdown splits total operating expenses across the standard
// categories. The last line absorbs rounding so the lines sum to the total.
func ExpenseBreakdown(total int) []models.ExpenseLine {
	var weightSum float64
	for _, w := range expenseWeights {
		weightSum += w.weight
	}
	lines := make([]models.ExpenseLine, 0, len(expenseWeights))
	allocated := 0
	for i, w := range expenseWeights {
		amount := round(float64(total) * w.weight / weightSum)
		if i == len(expenseWeights)-1 {
			amount = total - allocated
		}
		allocated += amount
		lines = append(lines, models.ExpenseLine{Category: w.category, Amount: amount})
	}
	return lines
}

// UnitMix splits units 15/45/35 percent with the remainder as 3BR.
func UnitMix(totalUnits int) []models.UnitMixRow {
	rows := make([]models.UnitMixRow, 0, len(unitMixTable))
	remaining := totalUnits
	for i, u := range unitMixTable {
		count := int(math.Floor(float64(totalUnits) * u.share))
		if i == len(unitMixTable)-1 {
			count = remaining
		}
		remaining -= count
		rows = append(rows, models.UnitMixRow{
			UnitType:     u.unitType,
			Count:        count,
			AvgSF:        u.avgSF,
			CurrentRent:  u.currentRent,
			MarketRent:   u.marketRent,
			AnnualIncome: count * u.currentRent * 12,
		})
	}
	return rows
}

func sensitivity(m *models.FinancialModel, assumptions MarketAssumptions) models.Sensitivity {
	var s models.Sensitivity

	exitNOI := float64(m.NetOperatingIncome)
	if n := len(m.TenYearProjection); n > 0 {
		exitNOI = m.TenYearProjection[n-1].NOI
	}
	payoff := float64(m.LoanAmount)
	if assumptions.Mode == ModeStrict {
		payoff = RemainingBalance(float64(m.LoanAmount), assumptions.InterestRate, assumptions.LoanTermYears, assumptions.ProjectionYears)
	}
	for _, c := range exitCapRates {
		value := round(exitNOI / (c / 100))
		s.ExitScenarios = append(s.ExitScenarios, models.ExitScenario{
			ExitCapRate: c,
			ExitValue:   value,
			ExitEquity:  value - round(payoff),
		})
	}

	for _, pct := range noiVariations {
		noi := round(float64(m.NetOperatingIncome) * (1 + pct/100))
		cf := noi - m.AnnualDebtService
		scenario := models.NOIScenario{NOIChangePct: pct, NOI: noi, CashFlow: cf}
		if m.DownPayment > 0 {
			scenario.CashOnCash = float64(cf) / float64(m.DownPayment) * 100
		}
		s.NOIScenarios = append(s.NOIScenarios, scenario)
	}
	return s
}
