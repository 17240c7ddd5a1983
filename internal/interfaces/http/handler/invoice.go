package handler

import (
	"context"
	"time"

	appaccounts "github.com/erp/suite/internal/application/accounts"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appaccounts.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appaccounts.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceLineRequest is one priced line
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500" example:"Site survey"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"150.00"`
}

// CreateInvoiceRequest represents a request to draft an invoice
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" binding:"required,ulid" example:"01J9Z3N8W4YHX2Q7K5D6F0B1CE"`
	Currency   string               `json:"currency" binding:"omitempty,currency" example:"GBP"`
	TaxRate    decimal.Decimal      `json:"tax_rate" swaggertype:"string" example:"0.20"`
	DueDate    *time.Time           `json:"due_date" example:"2026-11-30T00:00:00Z"`
	Notes      string               `json:"notes" binding:"max=2000"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"omitempty,dive"`
}

// UpdateInvoiceRequest edits a draft invoice. Omitted fields keep their
// current values; an empty notes string clears the notes.
type UpdateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	TaxRate    *decimal.Decimal     `json:"tax_rate" swaggertype:"string"`
	DueDate    *time.Time           `json:"due_date"`
	Notes      *string              `json:"notes" binding:"omitempty,max=2000"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"omitempty,dive"`
}

// PayInvoiceRequest records a payment
type PayInvoiceRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"360.00"`
}

// InvoiceListQuery narrows an invoice listing
type InvoiceListQuery struct {
	dto.ListRequest
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
}

func toLineInputs(lines []InvoiceLineRequest) []appaccounts.InvoiceLineInput {
	if lines == nil {
		return nil
	}
	return lo.Map(lines, func(l InvoiceLineRequest, _ int) appaccounts.InvoiceLineInput {
		return appaccounts.InvoiceLineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	})
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Drafts are only listed for their creator
// @Tags         invoices
// @Produce      json
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        search      query string false "Search by number"
// @Param        status      query string false "DRAFT, SENT or PAID"
// @Param        customer_id query string false "Filter by customer"
// @Success      200 {object} APIResponse[[]appaccounts.InvoiceDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var q InvoiceListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.invoiceService.List(c.Request.Context(), appaccounts.InvoiceListFilter{
		Filter:     q.Filter(),
		Status:     q.Status,
		CustomerID: q.CustomerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createInvoice
// @Summary      Draft an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice details"
// @Success      201 {object} APIResponse[appaccounts.InvoiceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), appaccounts.CreateInvoiceInput{
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		TaxRate:    req.TaxRate,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		Lines:      toLineInputs(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[appaccounts.InvoiceDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	h.respond(c, h.invoiceService.Get)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update a draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Invoice ID"
// @Param        request body UpdateInvoiceRequest true "Invoice changes"
// @Success      200 {object} APIResponse[appaccounts.InvoiceDTO]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), c.Param("id"), appaccounts.UpdateInvoiceInput{
		CustomerID: req.CustomerID,
		TaxRate:    req.TaxRate,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		Lines:      toLineInputs(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete a draft invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @ID           sendInvoice
// @Summary      Send a draft invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[appaccounts.InvoiceDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.respond(c, h.invoiceService.Send)
}

// Pay godoc
// @ID           payInvoice
// @Summary      Record a payment
// @Description  Paying the full total marks the invoice PAID and awards points to its creator
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Invoice ID"
// @Param        request body PayInvoiceRequest true "Payment"
// @Success      200 {object} APIResponse[appaccounts.InvoiceDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	var req PayInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Pay(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Document godoc
// @ID           generateInvoiceDocument
// @Summary      Render the invoice PDF
// @Description  Renders and stores the PDF, returning a time-limited download link
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/document [post]
func (h *InvoiceHandler) Document(c *gin.Context) {
	doc, err := h.invoiceService.GenerateDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

func (h *InvoiceHandler) respond(c *gin.Context, op func(context.Context, string) (*appaccounts.InvoiceDTO, error)) {
	invoice, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
