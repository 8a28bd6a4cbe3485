package web

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/TWRT/company-portal/internal/service"
)

var (
	md        = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	sanitizer = bluemonday.UGCPolicy()
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"amount":     formatAmount,
		"formatTime": formatTime,
		"timeAgo":    formatTimeAgo,
		"markdown":   markdown,
		"scoreBand":  service.ScoreBand,
		"deref":      deref,
		"orDash":     orDash,
		"dict":       dictFunc,
	}
}

// formatAmount prints a decimal with thousands separators, keeping every
// digit of the fractional part.
func formatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + formatAmount(d.Neg())
	}
	whole := humanize.BigComma(d.BigInt())
	frac := d.Sub(d.Truncate(0)).String()
	if frac == "0" {
		return whole
	}
	return whole + strings.TrimPrefix(frac, "0")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// markdown renders user text as sanitized HTML.
func markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", values[i])
		}
		dict[key] = values[i+1]
	}
	return dict, nil
}
