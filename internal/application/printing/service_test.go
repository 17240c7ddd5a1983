package printing_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/erp/suite/internal/application/printing"
	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/shared"
	infra "github.com/erp/suite/internal/infrastructure/printing"
	"github.com/erp/suite/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

func newTestInvoice(t *testing.T) *accounts.Invoice {
	t.Helper()
	inv, err := accounts.NewInvoice("T1", "U1", "INV-202601-00001", "C1", "USD")
	require.NoError(t, err)
	require.NoError(t, inv.SetLines([]accounts.InvoiceLineInput{
		{Description: "Site survey", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150)},
	}))
	return inv
}

func TestPrintService_GenerateInvoicePDF(t *testing.T) {
	renderer := new(MockPDFRenderer)
	store := storage.NewMemoryStorage()
	svc := printing.NewPrintService(renderer, store, 10*time.Minute, zap.NewNop())
	inv := newTestInvoice(t)

	renderer.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
		return req.Title == "Invoice INV-202601-00001" &&
			strings.Contains(req.HTML, "Site survey") &&
			strings.Contains(req.HTML, "Acme Corp")
	})).Return(&infra.RenderResult{PDFData: []byte("%PDF-1.4 test"), PageCount: 1}, nil)

	result, err := svc.GenerateInvoicePDF(context.Background(), infra.InvoiceDocument{
		TenantName:   "Acme Corp",
		CustomerName: "Globex",
		Invoice:      inv,
	})

	require.NoError(t, err)
	assert.Equal(t, "tenants/T1/invoices/"+inv.ID+".pdf", result.Key)
	assert.Contains(t, result.URL, result.Key)
	assert.True(t, result.ExpiresAt.After(time.Now().Add(9*time.Minute)))
	assert.Equal(t, 1, result.PageCount)

	data, contentType, ok := store.Get(result.Key)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4 test"), data)
	renderer.AssertExpectations(t)
}

func TestPrintService_DisabledWithoutBackends(t *testing.T) {
	svc := printing.NewPrintService(nil, nil, 0, nil)

	assert.False(t, svc.Enabled())
	_, err := svc.GenerateInvoicePDF(context.Background(), infra.InvoiceDocument{Invoice: newTestInvoice(t)})
	assert.ErrorIs(t, err, shared.ErrFeatureDisabled)

	_, err = svc.Link(context.Background(), "tenants/T1/invoices/x.pdf")
	assert.ErrorIs(t, err, shared.ErrFeatureDisabled)
}

func TestPrintService_RenderFailureStoresNothing(t *testing.T) {
	renderer := new(MockPDFRenderer)
	store := storage.NewMemoryStorage()
	svc := printing.NewPrintService(renderer, store, 0, zap.NewNop())
	inv := newTestInvoice(t)

	renderer.On("Render", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeRenderTimeout, "timed out", errors.New("deadline")))

	_, err := svc.GenerateInvoicePDF(context.Background(), infra.InvoiceDocument{Invoice: inv})

	var renderErr *infra.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.ErrorIs(t, err, &infra.RenderError{Code: infra.ErrCodeRenderTimeout})
	_, _, ok := store.Get(storage.InvoiceKey(inv.TenantID, inv.ID))
	assert.False(t, ok)
}

func TestPrintService_LinkUnknownKey(t *testing.T) {
	svc := printing.NewPrintService(new(MockPDFRenderer), storage.NewMemoryStorage(), 0, zap.NewNop())

	_, err := svc.Link(context.Background(), "tenants/T1/invoices/missing.pdf")
	assert.Error(t, err)
}

func TestPrintService_PreviewInvoiceHTML(t *testing.T) {
	svc := printing.NewPrintService(nil, nil, 0, nil)

	html, err := svc.PreviewInvoiceHTML(infra.InvoiceDocument{TenantName: "Acme", Invoice: newTestInvoice(t)})

	require.NoError(t, err)
	assert.Contains(t, html, "INV-202601-00001")
	assert.Contains(t, html, "300.00")
}
