package underwriting

import (
	"fmt"
	"strings"

	"dealdesk/server/internal/models"
)

const (
	averageUnitSF  = 850
	proFormaUplift = 1.08
)

var propertyTypes = []struct {
	keyword      string
	propertyType string
	zoning       string
}{
	{"mixed use", "Mixed-Use Building", "Neighborhood Commercial"},
	{"mixed-use", "Mixed-Use Building", "Neighborhood Commercial"},
	{"office", "Office Building", "Commercial"},
	{"retail", "Retail Center", "Commercial"},
}

var riskFactors = []string{
	"Interest rate sensitivity and borrowing cost fluctuations",
	"Regulatory changes affecting rental housing",
	"Market saturation in select submarkets",
	"Construction and renovation cost inflation",
	"Tenant turnover and vacancy risk",
}

// BuildOfferingMemorandum assembles the numeric sections of an offering
// memorandum from a computed model. Narrative sections are left empty.
func BuildOfferingMemorandum(listing models.PropertyListing, m *models.FinancialModel) (*models.OfferingMemorandum, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	propertyType, zoning := classify(listing.Details)
	totalSF := m.UnitCount * averageUnitSF

	om := &models.OfferingMemorandum{
		PropertyOverview: models.PropertyOverview{
			Address:      listing.Address,
			Location:     listing.Location,
			PropertyType: propertyType,
			TotalUnits:   m.UnitCount,
			TotalSF:      totalSF,
			Zoning:       zoning,
		},
		FinancialHighlights: models.FinancialHighlights{
			PurchasePrice: m.PurchasePrice,
			CapRate:       m.CapRate,
			NOI:           m.NetOperatingIncome,
			GrossIncome:   m.GrossScheduledIncome,
			PricePerUnit:  m.PricePerUnit,
		},
		FinancialSummary: models.FinancialSummary{
			CurrentIncome:     m.GrossScheduledIncome,
			ProFormaIncome:    round(float64(m.GrossScheduledIncome) * proFormaUplift),
			VacancyLoss:       m.VacancyLoss,
			OperatingExpenses: m.OperatingExpenses,
			NOI:               m.NetOperatingIncome,
			CapRate:           m.CapRate,
		},
		InvestmentHighlights: investmentHighlights(listing, m, propertyType),
		RiskFactors:          append([]string(nil), riskFactors...),
		UnitMix:              UnitMix(m.UnitCount),
	}
	if totalSF > 0 {
		om.FinancialHighlights.PricePerSF = round(float64(m.PurchasePrice) / float64(totalSF))
	}
	if m.AnnualCashFlow < 0 {
		om.RiskFactors = append(om.RiskFactors,
			fmt.Sprintf("Negative year-one cash flow of %s at the assumed leverage", models.FormatDollars(m.AnnualCashFlow)))
	}
	return om, nil
}

// classify maps listing details to a marketing property type and zoning.
// Anything unrecognized is treated as multifamily.
func classify(details string) (string, string) {
	lower := strings.ToLower(details)
	for _, pt := range propertyTypes {
		if strings.Contains(lower, pt.keyword) {
			return pt.propertyType, pt.zoning
		}
	}
	return "Multifamily Apartment Building", "Multifamily Residential"
}

func investmentHighlights(listing models.PropertyListing, m *models.FinancialModel, propertyType string) []string {
	market := "an established submarket"
	if city, _, ok := strings.Cut(listing.Location, ","); ok && strings.TrimSpace(city) != "" {
		market = "the " + strings.TrimSpace(city) + " market"
	}

	highlights := []string{
		fmt.Sprintf("Strong %.2f%% cap rate in %s", m.CapRate, market),
		fmt.Sprintf("%d-unit %s with a stable income profile", m.UnitCount, strings.ToLower(propertyType)),
		"Proximity to major employment centers and transportation",
		"Value-add opportunities through unit renovations",
	}
	if m.DebtServiceCoverage >= 1.25 {
		highlights = append(highlights, fmt.Sprintf("Debt service covered %.2fx by in-place NOI", m.DebtServiceCoverage))
	}
	return append(highlights, "Professional property management in place")
}
