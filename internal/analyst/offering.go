package analyst

import (
	"context"
	"fmt"
	"strings"

	"dealdesk/server/internal/models"

	"golang.org/x/sync/errgroup"
)

// SourceMixed marks a memorandum where only some sections came from the generator.
const SourceMixed = "mixed"

type section struct {
	prompt   string
	fallback string
	dest     *string
}

// WriteOffering fills the executive summary, location and market sections of
// om. Each section is generated independently and falls back to its
// rule-based text on its own, so a failed call never fails the memorandum.
func (a *Analyst) WriteOffering(ctx context.Context, listing models.PropertyListing, m *models.FinancialModel, om *models.OfferingMemorandum) error {
	if m == nil || om == nil {
		return fmt.Errorf("cannot write offering for %q without a model", listing.Address)
	}

	sections := []section{
		{executivePrompt(listing, m, om), executiveSummary(listing, m, om), &om.ExecutiveSummary},
		{locationPrompt(listing, om), locationAnalysis(listing, om), &om.LocationAnalysis},
		{marketPrompt(listing, m), marketAnalysis(m), &om.MarketAnalysis},
	}

	generated := make([]bool, len(sections))
	var g errgroup.Group
	for i, s := range sections {
		i, s := i, s
		g.Go(func() error {
			if md, ok := a.generate(ctx, listing.Address, s.prompt); ok {
				*s.dest = md
				generated[i] = true
				return nil
			}
			*s.dest = s.fallback
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, ok := range generated {
		if ok {
			count++
		}
	}
	switch count {
	case 0:
		om.NarrativeSource = SourceRules
	case len(sections):
		om.NarrativeSource = SourceGenerator
	default:
		om.NarrativeSource = SourceMixed
	}
	return nil
}

func executivePrompt(listing models.PropertyListing, m *models.FinancialModel, om *models.OfferingMemorandum) string {
	return fmt.Sprintf(`You are a commercial real estate analyst creating professional offering memoranda for institutional investors.

Write the executive summary for this offering memorandum.

Property: %s, %s
Property type: %s
Units: %d
Purchase price: %s (%s per unit)
Cap rate: %.2f%%
NOI: %s
Gross income: %s

Write 2-3 paragraphs covering the investment opportunity, key financial metrics
and value proposition. Use markdown with a single level-2 heading.`,
		listing.Address, listing.Location, om.PropertyOverview.PropertyType, m.UnitCount,
		models.FormatDollars(m.PurchasePrice), models.FormatDollars(m.PricePerUnit), m.CapRate,
		models.FormatDollars(m.NetOperatingIncome), models.FormatDollars(m.GrossScheduledIncome))
}

func locationPrompt(listing models.PropertyListing, om *models.OfferingMemorandum) string {
	return fmt.Sprintf(`You are a commercial real estate analyst specializing in location and demographic analysis.

Write the location analysis section of an offering memorandum.

Property: %s, %s
Property type: %s

Cover neighborhood characteristics, transportation access, nearby employers,
amenities and demographics. Use markdown with a single level-2 heading.`,
		listing.Address, listing.Location, om.PropertyOverview.PropertyType)
}

func marketPrompt(listing models.PropertyListing, m *models.FinancialModel) string {
	return fmt.Sprintf(`You are a commercial real estate market analyst with expertise in multifamily properties.

Write the market analysis section of an offering memorandum.

Property: %s, %s
Cap rate: %.2f%%
Price per unit: %s

Cover comparable sales, rental market trends, supply and demand and the outlook
for the submarket. Use markdown with a single level-2 heading.`,
		listing.Address, listing.Location, m.CapRate, models.FormatDollars(m.PricePerUnit))
}

func executiveSummary(listing models.PropertyListing, m *models.FinancialModel, om *models.OfferingMemorandum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Investment Opportunity - %s\n\n", listing.Address)
	fmt.Fprintf(&b, "%s is offered at %s, a %.2f%% cap rate on in-place net operating income of %s. ",
		listing.Address, models.FormatDollars(m.PurchasePrice), m.CapRate, models.FormatDollars(m.NetOperatingIncome))
	fmt.Fprintf(&b, "The %d-unit %s produces %s of gross scheduled income, or %s per unit at the asking price.\n\n",
		m.UnitCount, strings.ToLower(om.PropertyOverview.PropertyType),
		models.FormatDollars(m.GrossScheduledIncome), models.FormatDollars(m.PricePerUnit))
	fmt.Fprintf(&b, "Rents marked to market support pro forma income of %s. ",
		models.FormatDollars(om.FinancialSummary.ProFormaIncome))
	b.WriteString("Unit renovations and operational improvements offer further upside for an owner with a long-term hold.\n")
	return b.String()
}

func locationAnalysis(listing models.PropertyListing, om *models.OfferingMemorandum) string {
	where := listing.Location
	if where == "" {
		where = "an established neighborhood"
	}

	var b strings.Builder
	b.WriteString("## Location Overview\n\n")
	fmt.Fprintf(&b, "%s sits in %s with access to major employment centers and public transportation. ", listing.Address, where)
	b.WriteString("Neighborhood retail, dining and services are within walking distance.\n\n")
	fmt.Fprintf(&b, "Zoned %s, the site fits its surrounding uses and draws from a deep renter pool.\n",
		strings.ToLower(om.PropertyOverview.Zoning))
	return b.String()
}

func marketAnalysis(m *models.FinancialModel) string {
	var b strings.Builder
	b.WriteString("## Market Analysis\n\n")
	fmt.Fprintf(&b, "Comparable sales in the submarket trade between %.2f%% and %.2f%% cap rates",
		m.CapRate-0.5, m.CapRate+0.5)
	if m.PricePerUnit > 0 {
		fmt.Fprintf(&b, " at %s to %s per unit",
			models.FormatDollars(m.PricePerUnit*9/10), models.FormatDollars(m.PricePerUnit*12/10))
	}
	b.WriteString(".\n\n")

	if len(m.MarketComparables) > 0 {
		b.WriteString("| Comparable | Price | Cap rate | Per unit |\n|---|---|---|---|\n")
		for _, c := range m.MarketComparables {
			fmt.Fprintf(&b, "| %s | %s | %.2f%% | %s |\n",
				c.Address, models.FormatDollars(c.Price), c.CapRate, models.FormatDollars(c.PricePerUnit))
		}
		b.WriteString("\n")
	}
	b.WriteString("Steady rental demand and limited new supply support continued rent growth.\n")
	return b.String()
}
