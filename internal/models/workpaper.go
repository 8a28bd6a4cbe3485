package models

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type CalculatorKind string

const (
	CalculatorIncomeTax  CalculatorKind = "income-tax"
	CalculatorDeductions CalculatorKind = "deductions"
)

// CalculatorRecord is the raw sub-resource body. Values are left untyped
// because the backend stores whatever was last written.
type CalculatorRecord struct {
	Data map[string]any `json:"data"`
}

// CalculatorUpdate replaces the whole sub-resource. Amounts are written as
// bare JSON number literals so no precision is lost on the way out.
type CalculatorUpdate struct {
	Data map[string]json.Number `json:"data"`
}

type OverviewInputs struct {
	Income     map[string]any `json:"income"`
	Deductions map[string]any `json:"deductions"`
}

type AssigneeOverview struct {
	IncomeTotal     decimal.Decimal `json:"income_total"`
	DeductionsTotal decimal.Decimal `json:"deductions_total"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	EstimatedTax    decimal.Decimal `json:"estimated_tax"`
	Inputs          OverviewInputs  `json:"inputs"`
}

type HelloResponse struct {
	Message string `json:"message"`
}
