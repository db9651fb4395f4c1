package analyst

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dealdesk/server/internal/models"
	"dealdesk/server/internal/underwriting"
)

const (
	defaultOfferFraction     = 0.95
	earnestMoneyFraction     = 0.01
	defaultClosingDays       = 45
	defaultInspectionDays    = 14
	defaultBuyerName         = "Investment Group LLC"
	defaultBuyerContact      = "contact@investmentgroup.com"
	managementTransitionDays = 30
)

var ErrInvalidTerms = errors.New("invalid offer terms")

func standardTerms() []string {
	return []string{
		"Seller to provide all property maintenance records",
		"Current tenant leases to transfer to buyer at closing",
		fmt.Sprintf("Property management transition period of %d days included", managementTransitionDays),
	}
}

// DraftLOI fills unset terms with the house defaults and renders the letter.
func DraftLOI(listing models.PropertyListing, terms models.LOITerms, now time.Time) (*models.LetterOfIntent, error) {
	asking, err := underwriting.ParsePrice(listing.AskingPrice)
	if err != nil {
		return nil, err
	}
	if terms.OfferPrice < 0 || terms.EarnestMoney < 0 || terms.ClosingDays < 0 || terms.InspectionDays < 0 {
		return nil, fmt.Errorf("%w: amounts and periods must not be negative", ErrInvalidTerms)
	}

	offer := terms.OfferPrice
	if offer == 0 {
		offer = int(math.Round(float64(asking) * defaultOfferFraction))
	}
	earnest := terms.EarnestMoney
	if earnest == 0 {
		earnest = int(math.Round(float64(offer) * earnestMoneyFraction))
	}
	if earnest > offer {
		return nil, fmt.Errorf("%w: earnest money exceeds offer price", ErrInvalidTerms)
	}
	closingDays := terms.ClosingDays
	if closingDays == 0 {
		closingDays = defaultClosingDays
	}
	inspection := terms.InspectionDays
	if inspection == 0 {
		inspection = defaultInspectionDays
	}
	financing := true
	if terms.FinancingContingency != nil {
		financing = *terms.FinancingContingency
	}
	buyer := terms.BuyerName
	if buyer == "" {
		buyer = defaultBuyerName
	}
	contact := terms.BuyerContact
	if contact == "" {
		contact = defaultBuyerContact
	}
	additional := append(standardTerms(), terms.AdditionalTerms...)

	address := listing.Address
	if listing.Location != "" {
		address += ", " + listing.Location
	}

	loi := &models.LetterOfIntent{
		PropertyAddress:      address,
		AskingPrice:          asking,
		OfferPrice:           offer,
		EarnestMoney:         earnest,
		ClosingDate:          now.AddDate(0, 0, closingDays),
		InspectionPeriodDays: inspection,
		FinancingContingency: financing,
		AdditionalTerms:      additional,
		BuyerName:            buyer,
		BuyerContact:         contact,
	}
	loi.Markdown = renderLOI(loi, now)
	return loi, nil
}

func renderLOI(loi *models.LetterOfIntent, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Letter of Intent\n\n")
	fmt.Fprintf(&b, "%s\n\n", now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "**Re:** %s\n\n", loi.PropertyAddress)
	fmt.Fprintf(&b, "%s submits this non-binding letter of intent to acquire the property on the following terms.\n\n", loi.BuyerName)

	fmt.Fprintf(&b, "1. **Purchase price:** %s (asking %s)\n", models.FormatDollars(loi.OfferPrice), models.FormatDollars(loi.AskingPrice))
	fmt.Fprintf(&b, "2. **Earnest money:** %s, deposited within 3 business days of acceptance\n", models.FormatDollars(loi.EarnestMoney))
	fmt.Fprintf(&b, "3. **Inspection period:** %d days\n", loi.InspectionPeriodDays)
	financing := "none"
	if loi.FinancingContingency {
		financing = "subject to buyer obtaining acceptable financing"
	}
	fmt.Fprintf(&b, "4. **Financing contingency:** %s\n", financing)
	fmt.Fprintf(&b, "5. **Closing:** on or before %s\n\n", loi.ClosingDate.Format("January 2, 2006"))

	b.WriteString("**Additional terms:**\n\n")
	for _, t := range loi.AdditionalTerms {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	fmt.Fprintf(&b, "\nSincerely,\n\n%s  \n%s\n", loi.BuyerName, loi.BuyerContact)
	return b.String()
}
