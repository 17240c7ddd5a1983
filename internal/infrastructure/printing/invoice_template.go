package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceDocument is the data bound to the invoice template
type InvoiceDocument struct {
	TenantName    string
	CustomerName  string
	CustomerEmail string
	Invoice       *accounts.Invoice
	GeneratedAt   time.Time
}

// InvoiceTemplate renders invoices to HTML
type InvoiceTemplate struct {
	tmpl *template.Template
}

// NewInvoiceTemplate parses the built-in invoice layout
func NewInvoiceTemplate() *InvoiceTemplate {
	return &InvoiceTemplate{
		tmpl: template.Must(template.New("invoice").Funcs(templateFuncs()).Parse(invoiceHTML)),
	}
}

// Render executes the template for doc
func (t *InvoiceTemplate) Render(doc InvoiceDocument) (string, error) {
	if doc.Invoice == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	titler := cases.Title(language.English)
	return template.FuncMap{
		"money":   formatMoney,
		"qty":     func(d decimal.Decimal) string { return d.String() },
		"percent": formatPercent,
		"date":    formatDate,
		"add1":    func(i int) int { return i + 1 },
		"status": func(s accounts.InvoiceStatus) string {
			return titler.String(strings.ToLower(string(s)))
		},
	}
}

// formatMoney formats a decimal with thousand separators and two places.
// Example: 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + result.String() + "." + decPart
}

// formatPercent renders a fraction as a percentage. Example: 0.075 -> "7.5%"
func formatPercent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	default:
		return ""
	}
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Invoice.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 22px; margin: 0 0 4px; }
.meta td { padding: 2px 12px 2px 0; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 16px; }
table.lines th, table.lines td { border-bottom: 1px solid #ddd; padding: 6px; }
table.lines th { text-align: left; background: #f4f4f4; }
.num { text-align: right; }
.totals { margin-top: 12px; margin-left: auto; }
.totals td { padding: 3px 6px; }
.status { display: inline-block; padding: 2px 8px; border: 1px solid #888; border-radius: 3px; }
</style>
</head>
<body>
<h1>{{.TenantName}}</h1>
<p>Invoice <strong>{{.Invoice.Number}}</strong> <span class="status">{{status .Invoice.Status}}</span></p>
<table class="meta">
<tr><td>Bill to</td><td>{{.CustomerName}}{{if .CustomerEmail}} &lt;{{.CustomerEmail}}&gt;{{end}}</td></tr>
<tr><td>Issued</td><td>{{date .Invoice.CreatedAt}}</td></tr>
{{- if .Invoice.DueDate}}
<tr><td>Due</td><td>{{date .Invoice.DueDate}}</td></tr>
{{- end}}
<tr><td>Currency</td><td>{{.Invoice.Currency}}</td></tr>
</table>
<table class="lines">
<thead><tr><th>#</th><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr></thead>
<tbody>
{{- range $i, $l := .Invoice.Lines}}
<tr><td>{{add1 $i}}</td><td>{{$l.Description}}</td><td class="num">{{qty $l.Quantity}}</td><td class="num">{{money $l.UnitPrice}}</td><td class="num">{{money $l.Amount}}</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td>Subtotal</td><td class="num">{{money .Invoice.Subtotal}}</td></tr>
<tr><td>Tax ({{percent .Invoice.TaxRate}})</td><td class="num">{{money .Invoice.TaxAmount}}</td></tr>
<tr><td><strong>Total</strong></td><td class="num"><strong>{{.Invoice.Currency}} {{money .Invoice.Total}}</strong></td></tr>
</table>
{{- if .Invoice.Notes}}
<p>{{.Invoice.Notes}}</p>
{{- end}}
<p style="color:#888;font-size:10px">Generated {{date .GeneratedAt}}</p>
</body>
</html>
`
