// Package analyst turns a computed financial model into an investment
// recommendation, a written memo and a letter of intent draft.
package analyst

import (
	"fmt"
	"strings"

	"dealdesk/server/internal/models"
)

const (
	StrongBuy = "STRONG BUY"
	Buy       = "BUY"
	Hold      = "HOLD"
)

// Recommend applies the acquisition rule to a cap rate and a cash-on-cash
// return, both in percent.
func Recommend(capRate, cashOnCashPct float64) string {
	switch {
	case capRate > 5 && cashOnCashPct > 8:
		return StrongBuy
	case capRate > 4 && cashOnCashPct > 5:
		return Buy
	default:
		return Hold
	}
}

// Memo writes the deterministic markdown investment memo.
func Memo(listing models.PropertyListing, m *models.FinancialModel) string {
	rec := Recommend(m.CapRate, m.CashOnCashReturn)

	var b strings.Builder
	fmt.Fprintf(&b, "## Investment Analysis - %s\n\n", listing.Address)
	if listing.Location != "" {
		fmt.Fprintf(&b, "_%s_\n\n", listing.Location)
	}

	b.WriteString("### Key Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Purchase price | %s |\n", models.FormatDollars(m.PurchasePrice))
	fmt.Fprintf(&b, "| Units | %d (%s per unit) |\n", m.UnitCount, models.FormatDollars(m.PricePerUnit))
	fmt.Fprintf(&b, "| Net operating income | %s |\n", models.FormatDollars(m.NetOperatingIncome))
	fmt.Fprintf(&b, "| Annual debt service | %s |\n", models.FormatDollars(m.AnnualDebtService))
	fmt.Fprintf(&b, "| Annual cash flow | %s |\n", models.FormatDollars(m.AnnualCashFlow))
	fmt.Fprintf(&b, "| Cap rate | %.2f%% |\n", m.CapRate)
	fmt.Fprintf(&b, "| Cash-on-cash | %.1f%% |\n", m.CashOnCashReturn)
	fmt.Fprintf(&b, "| IRR (%s) | %.1f%% |\n", m.IRRMethod, m.InternalRateOfReturn)
	fmt.Fprintf(&b, "| DSCR | %.2fx |\n\n", m.DebtServiceCoverage)

	strength := "Moderate"
	if m.CashOnCashReturn > 8 {
		strength = "Strong"
	}
	b.WriteString("### Strengths\n\n")
	fmt.Fprintf(&b, "- Solid %.2f%% cap rate for the submarket\n", m.CapRate)
	fmt.Fprintf(&b, "- %s cash-on-cash return at %.1f%%\n", strength, m.CashOnCashReturn)
	b.WriteString("- Multifamily income is spread across many tenants\n")
	if m.DebtServiceCoverage >= 1.25 {
		fmt.Fprintf(&b, "- Debt service covered %.2fx by NOI\n", m.DebtServiceCoverage)
	}

	b.WriteString("\n### Risk Factors\n\n")
	b.WriteString("- Interest rate sensitivity at current borrowing costs\n")
	b.WriteString("- Supply pressure in some submarkets\n")
	b.WriteString("- Regulatory changes affecting rental housing\n")
	if m.AnnualCashFlow < 0 {
		fmt.Fprintf(&b, "- Negative year-one cash flow of %s needs reserves\n", models.FormatDollars(m.AnnualCashFlow))
	}

	position := "competitively"
	if m.CapRate > 5 {
		position = "favorably"
	}
	yield := "moderate"
	if m.CashOnCashReturn > 6 {
		yield = "attractive"
	}
	b.WriteString("\n### Market Position\n\n")
	fmt.Fprintf(&b, "The property is positioned %s within its market and shows %s yield characteristics.\n", position, yield)

	timeline := "a standard due diligence timeline"
	if rec == StrongBuy {
		timeline = "immediate action"
	}
	fmt.Fprintf(&b, "\n### Recommendation: %s\n\nTarget acquisition with %s.\n", rec, timeline)
	return b.String()
}

// prompt is the narrative request sent to a Generator.
func prompt(listing models.PropertyListing, m *models.FinancialModel) string {
	return fmt.Sprintf(`Analyze this commercial real estate investment.

Property: %s, %s
Purchase price: %s
Cap rate: %s
Units: %d
Details: %s

Financial metrics:
- NOI: %s
- Gross scheduled income: %s
- Annual cash flow: %s
- Cash-on-cash return: %.2f%%
- DSCR: %.2f

Cover strengths and weaknesses, market position, risk factors, growth potential and
end with a recommendation line. Use markdown headings. 200-300 words.`,
		listing.Address, listing.Location, listing.AskingPrice, listing.AdvertisedCapRate,
		m.UnitCount, listing.Details,
		models.FormatDollars(m.NetOperatingIncome),
		models.FormatDollars(m.GrossScheduledIncome),
		models.FormatDollars(m.AnnualCashFlow),
		m.CashOnCashReturn, m.DebtServiceCoverage)
}
