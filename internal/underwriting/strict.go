package underwriting

import (
	"math"

	"dealdesk/server/internal/models"
)

const (
	irrLowerBound = -0.99
	irrUpperBound = 10.0
	irrTolerance  = 1e-10
	irrMaxIter    = 200
)

// AnnualPayment is twelve level monthly payments on a fixed-rate loan:
// M = P*r(1+r)^n / ((1+r)^n - 1), r = annualRatePct/1200, n = years*12.
func AnnualPayment(principal, annualRatePct float64, years int) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}
	n := float64(years * 12)
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / n * 12
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1) * 12
}

// RemainingBalance is the principal still owed after paidYears of level
// monthly payments.
func RemainingBalance(principal, annualRatePct float64, years, paidYears int) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}
	if paidYears >= years {
		return 0
	}
	n := float64(years * 12)
	p := float64(paidYears * 12)
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal * (n - p) / n
	}
	return principal * (math.Pow(1+r, n) - math.Pow(1+r, p)) / (math.Pow(1+r, n) - 1)
}

// NPV discounts flows[t] at rate per period, with flows[0] undiscounted.
func NPV(rate float64, flows []float64) float64 {
	var total float64
	for t, cf := range flows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

// SolveIRR finds the periodic rate where NPV crosses zero by bisection over
// (-99%, 1000%]. ok is false unless NPV strictly changes sign across that
// interval.
func SolveIRR(flows []float64) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}
	lo, hi := irrLowerBound, irrUpperBound
	npvLo, npvHi := NPV(lo, flows), NPV(hi, flows)
	// A root is only bracketed by a strict sign change; all-zero flows have
	// NPV 0 everywhere and no meaningful rate.
	if !(npvLo < 0 && npvHi > 0) && !(npvLo > 0 && npvHi < 0) {
		return 0, false
	}
	for i := 0; i < irrMaxIter && hi-lo > irrTolerance; i++ {
		mid := (lo + hi) / 2
		npvMid := NPV(mid, flows)
		if npvMid == 0 {
			return mid, true
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo, npvLo = mid, npvMid
		}
	}
	return (lo + hi) / 2, true
}

// equityCashFlows lays out the investor's flows: the down payment out at t0,
// each projected year's cash flow, and the sale net of the loan payoff in
// the final year.
func equityCashFlows(m *models.FinancialModel, assumptions MarketAssumptions) []float64 {
	flows := make([]float64, 0, len(m.TenYearProjection)+1)
	flows = append(flows, -float64(m.DownPayment))
	for _, p := range m.TenYearProjection {
		flows = append(flows, p.CashFlow)
	}
	salePrice := float64(m.PurchasePrice) * (1 + assumptions.AssumedAppreciation)
	payoff := RemainingBalance(float64(m.LoanAmount), assumptions.InterestRate, assumptions.LoanTermYears, assumptions.ProjectionYears)
	flows[len(flows)-1] += salePrice - payoff
	return flows
}
