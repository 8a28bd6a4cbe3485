package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/company-portal/internal/models"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{"", "0"},
		{"abc", "0"},
		{true, "0"},
		{float64(50000), "50000"},
		{"1250.50", "1250.5"},
		{int64(7), "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.in).String(), "input %#v", tt.in)
	}
}

func TestCalculatorTotal_MissingFieldsAreZero(t *testing.T) {
	amounts := IncomeTaxCalculator.FromRecord(map[string]any{"salary": float64(50000)})
	assert.Equal(t, "50000", IncomeTaxCalculator.Total(amounts).String())

	amounts = IncomeTaxCalculator.FromForm(url.Values{"salary": {"100"}, "bonus": {"x"}, "other": {"0.25"}})
	assert.Equal(t, "100.25", IncomeTaxCalculator.Total(amounts).String())
}

func TestCalculatorTotal_IgnoresForeignKeys(t *testing.T) {
	amounts := DeductionsCalculator.FromRecord(map[string]any{"charity": "100", "salary": float64(9)})
	assert.Equal(t, "100", DeductionsCalculator.Total(amounts).String())
}

func TestParseForm(t *testing.T) {
	amounts, err := DeductionsCalculator.ParseForm(url.Values{"retirement": {"1000"}, "health": {""}})
	require.NoError(t, err)
	assert.True(t, amounts["health"].IsZero())

	_, err = DeductionsCalculator.ParseForm(url.Values{"retirement": {"lots"}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "retirement", vErr.Field)

	_, err = DeductionsCalculator.ParseForm(url.Values{"charity": {"-5"}})
	require.ErrorAs(t, err, &vErr)
}

func TestSelectSection(t *testing.T) {
	assert.Equal(t, SectionOverview, SelectSection("/workpapers/3/overview"))
	assert.Equal(t, SectionIncomeTax, SelectSection("/workpapers/3/income-tax"))
	assert.Equal(t, SectionDeductions, SelectSection("/workpapers/3/deductions"))
	assert.Equal(t, SectionBasic, SelectSection("/workpapers/3/whatever"))
	assert.Equal(t, SectionBasic, SelectSection("/workpapers/3"))
}

func TestCalculatorFor(t *testing.T) {
	c, ok := CalculatorFor("income-tax")
	require.True(t, ok)
	assert.Equal(t, "salary + bonus + other", c.Formula())

	_, ok = CalculatorFor("overview")
	assert.False(t, ok)
}

func TestSaveCalculator_FullReplace(t *testing.T) {
	api := newFakeAPI()
	svc := NewWorkpaperService(api)

	amounts := Amounts{"salary": decimal.NewFromInt(50000)}
	require.NoError(t, svc.SaveCalculator(context.Background(), 3, IncomeTaxCalculator, amounts))

	assert.Equal(t, []string{"PutCalculator:income-tax"}, api.Calls())
	assert.Equal(t, map[string]json.Number{"salary": "50000", "bonus": "0", "other": "0"}, api.lastUpdate.Data)
}

func TestSaveCalculator_KeepsPrecision(t *testing.T) {
	api := newFakeAPI()
	svc := NewWorkpaperService(api)

	amounts, err := DeductionsCalculator.ParseForm(url.Values{
		"retirement": {"12345678901234567.89"},
		"charity":    {"0.10"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.SaveCalculator(context.Background(), 3, DeductionsCalculator, amounts))

	payload, err := json.Marshal(api.lastUpdate)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"retirement":12345678901234567.89,"health":0,"charity":0.1}}`, string(payload))
	assert.Contains(t, string(payload), "12345678901234567.89")
}

func TestOverview_SortsInputRows(t *testing.T) {
	api := newFakeAPI()
	api.aOverview = &models.AssigneeOverview{
		IncomeTotal: decimal.NewFromInt(60000),
		Inputs: models.OverviewInputs{
			Income: map[string]any{"salary": float64(50000), "bonus": float64(10000)},
		},
	}

	view, err := NewWorkpaperService(api).Overview(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, view.IncomeRows, 2)
	assert.Equal(t, "bonus", view.IncomeRows[0].Item)
	assert.Equal(t, "50000", view.IncomeRows[1].Amount.String())
	assert.Empty(t, view.DeductionRows)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}
