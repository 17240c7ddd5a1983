package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *accounts.Invoice {
	t.Helper()
	inv, err := accounts.NewInvoice("tenant-1", "user-1", "INV-202601-00001", "cust-1", "usd")
	require.NoError(t, err)
	require.NoError(t, inv.SetLines([]accounts.InvoiceLineInput{
		{Description: "Site survey", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromFloat(1250.5)},
		{Description: "<b>Concrete</b>", Quantity: decimal.NewFromFloat(1.5), UnitPrice: decimal.NewFromInt(80)},
	}))
	require.NoError(t, inv.SetTaxRate(decimal.NewFromFloat(0.075)))
	return inv
}

func TestInvoiceTemplate_Render(t *testing.T) {
	inv := newTestInvoice(t)

	out, err := NewInvoiceTemplate().Render(InvoiceDocument{
		TenantName:    "Acme Builders",
		CustomerName:  "Globex",
		CustomerEmail: "ap@globex.test",
		Invoice:       inv,
		GeneratedAt:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "Acme Builders")
	assert.Contains(t, out, "INV-202601-00001")
	assert.Contains(t, out, `<span class="status">Draft</span>`)
	assert.Contains(t, out, "2,501.00")
	assert.Contains(t, out, "7.5%")
	assert.Contains(t, out, "USD "+formatMoney(inv.Total))
	assert.Contains(t, out, "Generated 2026-01-15")
	// user input is escaped
	assert.Contains(t, out, "&lt;b&gt;Concrete&lt;/b&gt;")
	assert.NotContains(t, out, "<b>Concrete</b>")
}

func TestInvoiceTemplate_NilInvoice(t *testing.T) {
	_, err := NewInvoiceTemplate().Render(InvoiceDocument{})

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ErrCodeInvalidHTML, rerr.Code)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "0.00"},
		{decimal.NewFromFloat(999.999), "1,000.00"},
		{decimal.NewFromInt(1234567), "1,234,567.00"},
		{decimal.NewFromFloat(-1234.5), "-1,234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in))
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	var nilTime *time.Time

	assert.Equal(t, "2026-03-04", formatDate(d))
	assert.Equal(t, "2026-03-04", formatDate(&d))
	assert.Equal(t, "", formatDate(nilTime))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "", formatDate("2026-03-04"))
}

func TestBuildCompleteHTML(t *testing.T) {
	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>hi</p>", Title: "A&B"})
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, "<title>A&amp;B</title>")
	assert.Contains(t, wrapped, "<body><p>hi</p></body>")

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("garbage")))
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(config.RendererConfig{Enabled: true}, nil)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.cfg.Timeout)
	assert.Equal(t, defaultPaperWidthIn, r.cfg.PaperWidthIn)
	assert.Equal(t, defaultPaperHeightIn, r.cfg.PaperHeightIn)

	params := r.printParams()
	assert.Equal(t, defaultPaperWidthIn, params.PaperWidth)
	assert.True(t, params.PrintBackground)
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(config.RendererConfig{}, nil)
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, ErrCodeInvalidHTML, rerr.Code)
}
