package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/TWRT/company-portal/internal/client"
	"github.com/TWRT/company-portal/internal/models"
)

// Workpaper sections, in menu order.
const (
	SectionBasic      = "basic"
	SectionOverview   = "overview"
	SectionIncomeTax  = string(models.CalculatorIncomeTax)
	SectionDeductions = string(models.CalculatorDeductions)
)

type Section struct {
	Key   string
	Label string
	// Divider is drawn above this entry.
	Divider bool
}

var Sections = []Section{
	{Key: SectionBasic, Label: "Basic Information"},
	{Key: SectionOverview, Label: "Total Overview"},
	{Key: SectionIncomeTax, Label: "Income Tax", Divider: true},
	{Key: SectionDeductions, Label: "Deductions"},
}

// SelectSection maps a path suffix to a menu key; anything unknown selects
// basic information.
func SelectSection(path string) string {
	for _, s := range Sections {
		if strings.HasSuffix(path, "/"+s.Key) {
			return s.Key
		}
	}
	return SectionBasic
}

type CalculatorField struct {
	Key   string
	Label string
}

type Calculator struct {
	Kind       models.CalculatorKind
	Title      string
	TotalLabel string
	Fields     []CalculatorField
}

var (
	IncomeTaxCalculator = Calculator{
		Kind:       models.CalculatorIncomeTax,
		Title:      "Income Tax Inputs",
		TotalLabel: "Income total",
		Fields: []CalculatorField{
			{Key: "salary", Label: "Salary"},
			{Key: "bonus", Label: "Bonus"},
			{Key: "other", Label: "Other Income"},
		},
	}
	DeductionsCalculator = Calculator{
		Kind:       models.CalculatorDeductions,
		Title:      "Deductions Inputs",
		TotalLabel: "Total deductions",
		Fields: []CalculatorField{
			{Key: "retirement", Label: "Retirement Contributions"},
			{Key: "health", Label: "Health Expenses"},
			{Key: "charity", Label: "Charitable Donations"},
		},
	}
)

func CalculatorFor(kind string) (Calculator, bool) {
	switch models.CalculatorKind(kind) {
	case models.CalculatorIncomeTax:
		return IncomeTaxCalculator, true
	case models.CalculatorDeductions:
		return DeductionsCalculator, true
	}
	return Calculator{}, false
}

// Formula renders e.g. "salary + bonus + other".
func (c Calculator) Formula() string {
	keys := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		keys[i] = f.Key
	}
	return strings.Join(keys, " + ")
}

// Amounts is an edit buffer keyed by field.
type Amounts map[string]decimal.Decimal

// Amount converts a loosely typed value to a decimal. Missing, empty and
// non-numeric values count as zero.
func Amount(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case decimal.Decimal:
		return val
	case bool:
		return decimal.Zero
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		d, err := decimal.NewFromString(fmt.Sprint(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
}

// FromRecord fills the buffer from a stored record, keeping only the
// calculator's own fields.
func (c Calculator) FromRecord(data map[string]any) Amounts {
	out := make(Amounts, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Key] = Amount(data[f.Key])
	}
	return out
}

// FromForm reads the buffer from submitted form values. Unparseable entries
// count as zero; use ParseForm when the input must be valid.
func (c Calculator) FromForm(form url.Values) Amounts {
	out := make(Amounts, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Key] = Amount(form.Get(f.Key))
	}
	return out
}

// ParseForm is the strict variant of FromForm used before saving.
func (c Calculator) ParseForm(form url.Values) (Amounts, error) {
	out := make(Amounts, len(c.Fields))
	for _, f := range c.Fields {
		raw := strings.TrimSpace(form.Get(f.Key))
		if raw == "" {
			out[f.Key] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, invalid(f.Key, f.Label+" must be a number")
		}
		if d.IsNegative() {
			return nil, invalid(f.Key, f.Label+" cannot be negative")
		}
		out[f.Key] = d
	}
	return out, nil
}

func (c Calculator) Total(amounts Amounts) decimal.Decimal {
	total := decimal.Zero
	for _, f := range c.Fields {
		total = total.Add(amounts[f.Key])
	}
	return total
}

type WorkpaperService struct {
	client client.WorkpaperClient
}

func NewWorkpaperService(client client.WorkpaperClient) *WorkpaperService {
	return &WorkpaperService{client: client}
}

// WorkpaperView is the read-only context handed to every section.
type WorkpaperView struct {
	Assignee models.Assignee
	Section  string
	Sections []Section
}

func (s *WorkpaperService) Open(ctx context.Context, assigneeId int64, section string) (*WorkpaperView, error) {
	assignee, err := s.client.GetAssignee(ctx, assigneeId)
	if err != nil {
		return nil, err
	}
	return &WorkpaperView{
		Assignee: *assignee,
		Section:  section,
		Sections: Sections,
	}, nil
}

type InputRow struct {
	Item   string
	Amount decimal.Decimal
}

type OverviewView struct {
	IncomeTotal     decimal.Decimal
	DeductionsTotal decimal.Decimal
	TaxableIncome   decimal.Decimal
	EstimatedTax    decimal.Decimal
	IncomeRows      []InputRow
	DeductionRows   []InputRow
}

func (s *WorkpaperService) Overview(ctx context.Context, assigneeId int64) (*OverviewView, error) {
	o, err := s.client.GetAssigneeOverview(ctx, assigneeId)
	if err != nil {
		return nil, err
	}
	return &OverviewView{
		IncomeTotal:     o.IncomeTotal,
		DeductionsTotal: o.DeductionsTotal,
		TaxableIncome:   o.TaxableIncome,
		EstimatedTax:    o.EstimatedTax,
		IncomeRows:      inputRows(o.Inputs.Income),
		DeductionRows:   inputRows(o.Inputs.Deductions),
	}, nil
}

func inputRows(m map[string]any) []InputRow {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]InputRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, InputRow{Item: k, Amount: Amount(m[k])})
	}
	return rows
}

func (s *WorkpaperService) LoadCalculator(ctx context.Context, assigneeId int64, calc Calculator) (Amounts, error) {
	record, err := s.client.GetCalculator(ctx, assigneeId, calc.Kind)
	if err != nil {
		return calc.FromRecord(nil), err
	}
	return calc.FromRecord(record.Data), nil
}

// SaveCalculator replaces the whole sub-resource. Concurrent editors
// overwrite each other; the last write wins.
func (s *WorkpaperService) SaveCalculator(ctx context.Context, assigneeId int64, calc Calculator, amounts Amounts) error {
	data := make(map[string]json.Number, len(calc.Fields))
	for _, f := range calc.Fields {
		data[f.Key] = json.Number(amounts[f.Key].String())
	}
	return s.client.PutCalculator(ctx, assigneeId, calc.Kind, models.CalculatorUpdate{Data: data})
}

// ParseID validates a numeric {id} path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("id", "Invalid id")
	}
	return id, nil
}
