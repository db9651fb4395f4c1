package underwriting

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects between the compatibility formulas and the full financial math.
type Mode string

const (
	// ModeReference reproduces the fixed-ratio debt service and the
	// compound-rate IRR approximation existing outputs were produced with.
	ModeReference Mode = "reference"
	// ModeStrict amortizes the loan and solves IRR from dated cash flows.
	ModeStrict Mode = "strict"
)

var ErrInvalidAssumptions = errors.New("invalid market assumptions")

// ComparableTemplate describes one synthetic comparable sale relative to the
// subject property.
type ComparableTemplate struct {
	Address       string  `yaml:"address" json:"address"`
	PriceFactor   float64 `yaml:"price_factor" json:"price_factor"`
	CapRateOffset float64 `yaml:"cap_rate_offset" json:"cap_rate_offset"`
	Units         int     `yaml:"units" json:"units"`
}

// MarketAssumptions is passed into every calculation. Rates are fractions
// except InterestRate, which is a percentage like the listing cap rate.
type MarketAssumptions struct {
	Mode                  Mode                 `yaml:"mode" json:"mode"`
	DownPaymentFraction   float64              `yaml:"down_payment_fraction" json:"down_payment_fraction"`
	InterestRate          float64              `yaml:"interest_rate" json:"interest_rate"`
	LoanTermYears         int                  `yaml:"loan_term_years" json:"loan_term_years"`
	DebtServiceConstant   float64              `yaml:"debt_service_constant" json:"debt_service_constant"`
	VacancyRate           float64              `yaml:"vacancy_rate" json:"vacancy_rate"`
	NOIToGrossIncomeRatio float64              `yaml:"noi_to_gross_income_ratio" json:"noi_to_gross_income_ratio"`
	RentGrowthRate        float64              `yaml:"rent_growth_rate" json:"rent_growth_rate"`
	ExpenseGrowthRate     float64              `yaml:"expense_growth_rate" json:"expense_growth_rate"`
	ProjectionYears       int                  `yaml:"projection_years" json:"projection_years"`
	AssumedAppreciation   float64              `yaml:"assumed_appreciation" json:"assumed_appreciation"`
	FallbackUnitCount     int                  `yaml:"fallback_unit_count" json:"fallback_unit_count"`
	Comparables           []ComparableTemplate `yaml:"comparables" json:"comparables"`
}

// DefaultAssumptions returns the documented market defaults.
func DefaultAssumptions() MarketAssumptions {
	return MarketAssumptions{
		Mode:                  ModeReference,
		DownPaymentFraction:   0.25,
		InterestRate:          7.5,
		LoanTermYears:         25,
		DebtServiceConstant:   0.08,
		VacancyRate:           0.05,
		NOIToGrossIncomeRatio: 0.85,
		RentGrowthRate:        0.03,
		ExpenseGrowthRate:     0.025,
		ProjectionYears:       10,
		AssumedAppreciation:   0.30,
		FallbackUnitCount:     20,
		Comparables: []ComparableTemplate{
			{Address: "1420 E Pine St, Seattle, WA", PriceFactor: 1.10, CapRateOffset: -0.3, Units: 25},
			{Address: "950 Taylor Ave N, Seattle, WA", PriceFactor: 0.95, CapRateOffset: 0.2, Units: 22},
			{Address: "2200 Westlake Ave, Seattle, WA", PriceFactor: 1.05, CapRateOffset: -0.2, Units: 28},
		},
	}
}

// Validate reports the first assumption that would make the model meaningless.
func (a MarketAssumptions) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"down payment fraction", a.DownPaymentFraction},
		{"interest rate", a.InterestRate},
		{"debt service constant", a.DebtServiceConstant},
		{"vacancy rate", a.VacancyRate},
		{"NOI ratio", a.NOIToGrossIncomeRatio},
		{"rent growth rate", a.RentGrowthRate},
		{"expense growth rate", a.ExpenseGrowthRate},
		{"assumed appreciation", a.AssumedAppreciation},
	} {
		if !isFinite(f.value) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidAssumptions, f.name)
		}
	}

	switch {
	case a.Mode != ModeReference && a.Mode != ModeStrict:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAssumptions, a.Mode)
	case a.DownPaymentFraction <= 0 || a.DownPaymentFraction > 1:
		return fmt.Errorf("%w: down payment fraction %v outside (0,1]", ErrInvalidAssumptions, a.DownPaymentFraction)
	case a.InterestRate < 0:
		return fmt.Errorf("%w: negative interest rate", ErrInvalidAssumptions)
	case a.LoanTermYears <= 0:
		return fmt.Errorf("%w: loan term must be positive", ErrInvalidAssumptions)
	case a.DebtServiceConstant < 0:
		return fmt.Errorf("%w: negative debt service constant", ErrInvalidAssumptions)
	case a.VacancyRate < 0 || a.VacancyRate >= 1:
		return fmt.Errorf("%w: vacancy rate %v outside [0,1)", ErrInvalidAssumptions, a.VacancyRate)
	case a.NOIToGrossIncomeRatio <= 0 || a.NOIToGrossIncomeRatio > 1:
		return fmt.Errorf("%w: NOI ratio %v outside (0,1]", ErrInvalidAssumptions, a.NOIToGrossIncomeRatio)
	case a.RentGrowthRate <= -1 || a.ExpenseGrowthRate <= -1:
		return fmt.Errorf("%w: growth rates must be above -100%%", ErrInvalidAssumptions)
	case a.AssumedAppreciation <= -1:
		return fmt.Errorf("%w: appreciation must be above -100%%", ErrInvalidAssumptions)
	case a.ProjectionYears <= 0:
		return fmt.Errorf("%w: projection years must be positive", ErrInvalidAssumptions)
	case a.FallbackUnitCount < 1:
		return fmt.Errorf("%w: fallback unit count must be at least 1", ErrInvalidAssumptions)
	}
	for _, c := range a.Comparables {
		if !isFinite(c.PriceFactor) || !isFinite(c.CapRateOffset) {
			return fmt.Errorf("%w: comparable %q has a non-finite factor or offset", ErrInvalidAssumptions, c.Address)
		}
		if c.PriceFactor <= 0 || c.Units < 1 {
			return fmt.Errorf("%w: comparable %q needs a positive price factor and units", ErrInvalidAssumptions, c.Address)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
