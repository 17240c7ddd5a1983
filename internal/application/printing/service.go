package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	infra "github.com/erp/suite/internal/infrastructure/printing"
	"github.com/erp/suite/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

// DocumentStorage stores rendered documents and hands out download links
type DocumentStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// PrintService turns invoices into stored PDFs
type PrintService struct {
	template *infra.InvoiceTemplate
	renderer infra.PDFRenderer
	storage  DocumentStorage
	linkTTL  time.Duration
	logger   *zap.Logger
}

// NewPrintService creates a PrintService. renderer and storage may be nil,
// in which case document generation reports FEATURE_DISABLED.
func NewPrintService(renderer infra.PDFRenderer, store DocumentStorage, linkTTL time.Duration, logger *zap.Logger) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &PrintService{
		template: infra.NewInvoiceTemplate(),
		renderer: renderer,
		storage:  store,
		linkTTL:  linkTTL,
		logger:   logger,
	}
}

// Enabled reports whether both a renderer and a storage backend are configured
func (s *PrintService) Enabled() bool {
	return s != nil && s.renderer != nil && s.storage != nil
}

// PreviewInvoiceHTML renders the invoice HTML without producing a PDF
func (s *PrintService) PreviewInvoiceHTML(doc infra.InvoiceDocument) (string, error) {
	return s.template.Render(doc)
}

// GenerateInvoicePDF renders the invoice, stores the PDF under the tenant's
// invoice key and returns a presigned download link
func (s *PrintService) GenerateInvoicePDF(ctx context.Context, doc infra.InvoiceDocument) (*DocumentResult, error) {
	if !s.Enabled() {
		return nil, shared.NewDomainError(shared.ErrFeatureDisabled.Code, "Invoice documents are not configured")
	}
	inv := doc.Invoice
	if inv == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invoice is required")
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	html, err := s.template.Render(doc)
	if err != nil {
		s.logger.Error("invoice template rendering failed", zap.Error(err), zap.String("invoice_id", inv.ID))
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:  html,
		Title: "Invoice " + inv.Number,
	})
	if err != nil {
		s.logger.Error("PDF rendering failed", zap.Error(err), zap.String("invoice_id", inv.ID))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	key := storage.InvoiceKey(inv.TenantID, inv.ID)
	if err := s.storage.Put(ctx, key, pdf.PDFData, pdfContentType); err != nil {
		s.logger.Error("PDF storage failed", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	url, expiresAt, err := s.storage.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign PDF: %w", err)
	}

	s.logger.Info("PDF generated",
		zap.String("invoice_id", inv.ID),
		zap.String("key", key),
		zap.Int("pages", pdf.PageCount),
		zap.Duration("render_duration", pdf.RenderDuration))

	return &DocumentResult{
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		PageCount: pdf.PageCount,
		SizeBytes: len(pdf.PDFData),
	}, nil
}

// Link presigns a fresh download URL for an already stored document
func (s *PrintService) Link(ctx context.Context, key string) (*DocumentResult, error) {
	if s == nil || s.storage == nil {
		return nil, shared.NewDomainError(shared.ErrFeatureDisabled.Code, "Document storage is not configured")
	}
	url, expiresAt, err := s.storage.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign PDF: %w", err)
	}
	return &DocumentResult{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}
