package models

// YearProjection is one row of the multi-year projection. Values are kept
// unrounded so each year is exactly the prior year times its growth factor.
type YearProjection struct {
	Year     int     `json:"year"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	NOI      float64 `json:"noi"`
	CashFlow float64 `json:"cash_flow"`
}

// MarketComparable is a synthetic comparable sale derived from the subject.
type MarketComparable struct {
	Address      string  `json:"address"`
	Price        int     `json:"price"`
	CapRate      float64 `json:"cap_rate"`
	PricePerUnit int     `json:"price_per_unit"`
}

// FinancialModel is the full underwriting output for one listing snapshot.
// Percentages (rates and returns) are expressed as e.g. 5.07, not 0.0507.
type FinancialModel struct {
	Mode string `json:"mode"`

	PurchasePrice int     `json:"purchase_price"`
	DownPayment   int     `json:"down_payment"`
	LoanAmount    int     `json:"loan_amount"`
	InterestRate  float64 `json:"interest_rate"`
	LoanTermYears int     `json:"loan_term_years"`
	UnitCount     int     `json:"unit_count"`
	PricePerUnit  int     `json:"price_per_unit"`

	GrossScheduledIncome int `json:"gross_scheduled_income"`
	VacancyLoss          int `json:"vacancy_loss"`
	EffectiveGrossIncome int `json:"effective_gross_income"`
	OperatingExpenses    int `json:"operating_expenses"`
	NetOperatingIncome   int `json:"net_operating_income"`
	AnnualDebtService    int `json:"annual_debt_service"`
	AnnualCashFlow       int `json:"annual_cash_flow"`

	CapRate              float64 `json:"cap_rate"`
	CashOnCashReturn     float64 `json:"cash_on_cash_return"`
	TotalReturn          float64 `json:"total_return"`
	DebtServiceCoverage  float64 `json:"debt_service_coverage"`
	InternalRateOfReturn float64 `json:"internal_rate_of_return"`
	IRRMethod            string  `json:"irr_method"`

	TenYearProjection []YearProjection   `json:"ten_year_projection"`
	MarketComparables []MarketComparable `json:"market_comparables"`
}
