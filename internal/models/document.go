package models

import "time"

// AcquisitionAnalysis summarises the capital stack at purchase.
type AcquisitionAnalysis struct {
	PurchasePrice   int     `json:"purchase_price"`
	ClosingCosts    int     `json:"closing_costs"`
	TotalInvestment int     `json:"total_investment"`
	DownPayment     int     `json:"down_payment"`
	LoanAmount      int     `json:"loan_amount"`
	LoanToValue     float64 `json:"loan_to_value"`
	InterestRate    float64 `json:"interest_rate"`
	Amortization    int     `json:"amortization"`
	DebtService     int     `json:"debt_service"`
}

type OperatingStatement struct {
	GrossScheduledIncome int `json:"gross_scheduled_income"`
	Vacancy              int `json:"vacancy"`
	EffectiveGrossIncome int `json:"effective_gross_income"`
	OperatingExpenses    int `json:"operating_expenses"`
	NetOperatingIncome   int `json:"net_operating_income"`
	DebtService          int `json:"debt_service"`
	CashFlow             int `json:"cash_flow"`
}

type ExpenseLine struct {
	Category string `json:"category"`
	Amount   int    `json:"amount"`
}

// WorkbookProjection extends a projection year with the columns a
// spreadsheet export carries.
type WorkbookProjection struct {
	Year               int `json:"year"`
	Income             int `json:"income"`
	Vacancy            int `json:"vacancy"`
	EffectiveIncome    int `json:"effective_income"`
	OperatingExpenses  int `json:"operating_expenses"`
	NOI                int `json:"noi"`
	DebtService        int `json:"debt_service"`
	CashFlow           int `json:"cash_flow"`
	CumulativeCashFlow int `json:"cumulative_cash_flow"`
}

type ReturnAnalysis struct {
	CapRate          float64 `json:"cap_rate"`
	CashOnCash       float64 `json:"cash_on_cash"`
	TotalReturn      float64 `json:"total_return"`
	IRR              float64 `json:"irr"`
	EquityMultiple   float64 `json:"equity_multiple"`
	AverageCashYield float64 `json:"average_cash_yield"`
}

type UnitMixRow struct {
	UnitType     string `json:"unit_type"`
	Count        int    `json:"count"`
	AvgSF        int    `json:"avg_sf"`
	CurrentRent  int    `json:"current_rent"`
	MarketRent   int    `json:"market_rent"`
	AnnualIncome int    `json:"annual_income"`
}

type ExitScenario struct {
	ExitCapRate float64 `json:"exit_cap_rate"`
	ExitValue   int     `json:"exit_value"`
	ExitEquity  int     `json:"exit_equity"`
}

type NOIScenario struct {
	NOIChangePct float64 `json:"noi_change_pct"`
	NOI          int     `json:"noi"`
	CashFlow     int     `json:"cash_flow"`
	CashOnCash   float64 `json:"cash_on_cash"`
}

type Sensitivity struct {
	ExitScenarios []ExitScenario `json:"exit_scenarios"`
	NOIScenarios  []NOIScenario  `json:"noi_scenarios"`
}

// Workbook is the spreadsheet-shaped view of a financial model.
type Workbook struct {
	PropertyAddress    string               `json:"property_address"`
	TotalUnits         int                  `json:"total_units"`
	Acquisition        AcquisitionAnalysis  `json:"acquisition"`
	OperatingStatement OperatingStatement   `json:"operating_statement"`
	ExpenseBreakdown   []ExpenseLine        `json:"expense_breakdown"`
	Projections        []WorkbookProjection `json:"projections"`
	Returns            ReturnAnalysis       `json:"returns"`
	Sensitivity        Sensitivity          `json:"sensitivity"`
	UnitMix            []UnitMixRow         `json:"unit_mix"`
	Comparables        []MarketComparable   `json:"comparables"`
}

// LOITerms are the caller-adjustable terms of a letter of intent. Zero values
// fall back to the drafting defaults.
type LOITerms struct {
	OfferPrice           int      `json:"offer_price"`
	EarnestMoney         int      `json:"earnest_money"`
	ClosingDays          int      `json:"closing_days"`
	InspectionDays       int      `json:"inspection_days"`
	FinancingContingency *bool    `json:"financing_contingency"`
	BuyerName            string   `json:"buyer_name"`
	BuyerContact         string   `json:"buyer_contact"`
	AdditionalTerms      []string `json:"additional_terms"`
}

type LetterOfIntent struct {
	PropertyAddress      string    `json:"property_address"`
	AskingPrice          int       `json:"asking_price"`
	OfferPrice           int       `json:"offer_price"`
	EarnestMoney         int       `json:"earnest_money"`
	ClosingDate          time.Time `json:"closing_date"`
	InspectionPeriodDays int       `json:"inspection_period_days"`
	FinancingContingency bool      `json:"financing_contingency"`
	AdditionalTerms      []string  `json:"additional_terms"`
	BuyerName            string    `json:"buyer_name"`
	BuyerContact         string    `json:"buyer_contact"`
	Markdown             string    `json:"markdown"`
}

type PropertyOverview struct {
	Address      string `json:"address"`
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	TotalUnits   int    `json:"total_units"`
	TotalSF      int    `json:"total_sf"`
	Zoning       string `json:"zoning"`
}

type FinancialHighlights struct {
	PurchasePrice int     `json:"purchase_price"`
	CapRate       float64 `json:"cap_rate"`
	NOI           int     `json:"noi"`
	GrossIncome   int     `json:"gross_income"`
	PricePerUnit  int     `json:"price_per_unit"`
	PricePerSF    int     `json:"price_per_sf"`
}

// FinancialSummary is the in-place versus pro forma income picture.
// NOI = CurrentIncome - VacancyLoss - OperatingExpenses.
type FinancialSummary struct {
	CurrentIncome     int     `json:"current_income"`
	ProFormaIncome    int     `json:"pro_forma_income"`
	VacancyLoss       int     `json:"vacancy_loss"`
	OperatingExpenses int     `json:"operating_expenses"`
	NOI               int     `json:"noi"`
	CapRate           float64 `json:"cap_rate"`
}

// OfferingMemorandum is the marketing package for a listing. The narrative
// sections are filled in separately from the numbers.
type OfferingMemorandum struct {
	PropertyOverview     PropertyOverview    `json:"property_overview"`
	FinancialHighlights  FinancialHighlights `json:"financial_highlights"`
	FinancialSummary     FinancialSummary    `json:"financial_summary"`
	InvestmentHighlights []string            `json:"investment_highlights"`
	RiskFactors          []string            `json:"risk_factors"`
	UnitMix              []UnitMixRow        `json:"unit_mix"`
	ExecutiveSummary     string              `json:"executive_summary"`
	LocationAnalysis     string              `json:"location_analysis"`
	MarketAnalysis       string              `json:"market_analysis"`
	NarrativeSource      string              `json:"narrative_source"`
}
