package models

// CalculationResponse represents the response from a Grupo B or Grupo A calculation
type CalculationResponse struct {
	ID                   string               `json:"id"`
	Status               string               `json:"status"`
	Class                string               `json:"class"`
	Preset               string               `json:"preset,omitempty"`
	InitialSums          InitialSums          `json:"initial_sums"`
	CreditComparison     CreditComparison     `json:"credit_comparison"`
	Indicators           Indicators           `json:"indicators"`
	ConsumptionBreakdown ConsumptionBreakdown `json:"consumption_breakdown"`
	YearlySummary        []YearSummary        `json:"yearly_summary"`
	CashFlow             []CashFlowRow        `json:"cash_flow"`
	Monthly              []MonthRow           `json:"monthly,omitempty"`
	Sensitivity          []SensitivityPoint   `json:"sensitivity,omitempty"`
}

// InitialSums are year-1 totals. Energy in kWh, money in R$.
type InitialSums struct {
	GenerationKWh    float64 `json:"generation_kwh"`
	ConsumptionKWh   float64 `json:"consumption_kwh"`
	Savings          float64 `json:"savings"`
	LocalSavings     float64 `json:"local_savings"`
	RemoteSavings    float64 `json:"remote_savings"`
	BankEndKWh       float64 `json:"bank_end_kwh"`
	MonthlyAvgSaving float64 `json:"monthly_avg_saving"`
}

// CreditComparison contrasts the bill value of compensated credits with the Fio B charged.
type CreditComparison struct {
	AbatedValue     float64 `json:"abated_value"`
	FioBCost        float64 `json:"fio_b_cost"`
	NetCreditValue  float64 `json:"net_credit_value"`
	FioBShare       float64 `json:"fio_b_share"`
	FioBFraction    float64 `json:"fio_b_fraction"`
	LifetimeFioBFee float64 `json:"lifetime_fio_b_cost"`
}

type Indicators struct {
	NPV                     float64  `json:"npv"`
	IRR                     *float64 `json:"irr"`
	IRRStatus               string   `json:"irr_status"`
	PaybackYears            *float64 `json:"payback_years"`
	PaybackStatus           string   `json:"payback_status"`
	DiscountedPaybackYears  *float64 `json:"discounted_payback_years"`
	DiscountedPaybackStatus string   `json:"discounted_payback_status"`
	LCOE                    float64  `json:"lcoe"`
	ROI                     float64  `json:"roi"`
	ProfitabilityIndex      float64  `json:"profitability_index"`
	TotalSavings            float64  `json:"total_savings"`
}

// Indicator status values
const (
	StatusOK            = "ok"
	StatusIndeterminate = "indeterminate"
	StatusBeyondHorizon = "beyond_horizon"
)

type ConsumptionBreakdown struct {
	TotalKWh         float64 `json:"total_kwh"`
	InstantaneousKWh float64 `json:"instantaneous_kwh"`
	CreditsKWh       float64 `json:"credits_kwh"`
	UnservedKWh      float64 `json:"unserved_kwh"`
	SelfSufficiency  float64 `json:"self_sufficiency"`
}

// YearSummary is the energy side of one project year.
type YearSummary struct {
	Year             int     `json:"year"`
	CalendarYear     int     `json:"calendar_year"`
	FioBFraction     float64 `json:"fio_b_fraction"`
	Tariff           float64 `json:"tariff"`
	GenerationKWh    float64 `json:"generation_kwh"`
	ConsumptionKWh   float64 `json:"consumption_kwh"`
	InstantaneousKWh float64 `json:"instantaneous_kwh"`
	CreditsKWh       float64 `json:"credits_kwh"`
	RemoteKWh        float64 `json:"remote_kwh"`
	BankEndKWh       float64 `json:"bank_end_kwh"`
	FioBCost         float64 `json:"fio_b_cost"`
	Savings          float64 `json:"savings"`
}

// CashFlowRow is the money side of one project year.
type CashFlowRow struct {
	Year                 int     `json:"year"`
	Savings              float64 `json:"savings"`
	OMCost               float64 `json:"om_cost"`
	Salvage              float64 `json:"salvage,omitempty"`
	NetCashFlow          float64 `json:"net_cash_flow"`
	CumulativeNominal    float64 `json:"cumulative_nominal"`
	DiscountedCashFlow   float64 `json:"discounted_cash_flow"`
	CumulativeDiscounted float64 `json:"cumulative_discounted"`
}

type MonthRow struct {
	Year          int                `json:"year"`
	Month         int                `json:"month"`
	GenerationKWh float64            `json:"generation_kwh"`
	ConsumptionKW float64            `json:"consumption_kwh"`
	Instantaneous float64            `json:"instantaneous_kwh"`
	FromNewKWh    float64            `json:"from_new_kwh"`
	FromBankKWh   float64            `json:"from_bank_kwh"`
	BankEndKWh    float64            `json:"bank_end_kwh"`
	FioBCost      float64            `json:"fio_b_cost"`
	Savings       float64            `json:"savings"`
	Remote        []RemoteMonthEntry `json:"remote,omitempty"`
}

type RemoteMonthEntry struct {
	Class        string  `json:"class"`
	Name         string  `json:"name,omitempty"`
	AllocatedKWh float64 `json:"allocated_kwh"`
	UsedKWh      float64 `json:"used_kwh"`
	Savings      float64 `json:"savings"`
}

type SensitivityPoint struct {
	Multiplier   float64  `json:"multiplier"`
	NPV          float64  `json:"npv"`
	IRR          *float64 `json:"irr"`
	PaybackYears *float64 `json:"payback_years"`
}

// CompareResponse represents the response from a comparison, best NPV first
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank          int         `json:"rank,omitempty"`
	Name          string      `json:"name"`
	Indicators    *Indicators `json:"indicators,omitempty"`
	YearOneSaving float64     `json:"year_one_savings,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// PresetInfo represents information about a tariff preset
type PresetInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Distributor string             `json:"distributor,omitempty"`
	Class       string             `json:"class"`
	Tariff      float64            `json:"tariff,omitempty"`
	FioB        float64            `json:"fio_b,omitempty"`
	OffPeak     *RateRequest       `json:"off_peak,omitempty"`
	Peak        *RateRequest       `json:"peak,omitempty"`
	Schedule    map[string]float64 `json:"fio_b_schedule,omitempty"`
}

// ClassInfo represents information about a consumer class
type ClassInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Periods     int    `json:"periods"`
	RemoteRank  int    `json:"remote_rank"`
}

type ScheduleEntry struct {
	Year     int     `json:"year"`
	Fraction float64 `json:"fraction"`
}

type ClassesResponse struct {
	Classes     []ClassInfo     `json:"classes"`
	RemoteOrder []string        `json:"remote_order"`
	BaseYear    int             `json:"base_year"`
	BeforeFirst string          `json:"before_first"`
	Schedule    []ScheduleEntry `json:"fio_b_schedule"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnknownPreset    = "UNKNOWN_PRESET"
	CodeCalculationError = "CALCULATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
)
