package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/domain/invoice"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler provides HTTP handlers for invoices.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /invoices - list with filtering and pagination.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.InvoiceListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := invoice.DefaultListFilter()
	filter.Search = query.Search
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.Limit > 0 {
		filter.Limit = query.Limit
	}
	filter.Offset = query.Offset

	if query.Status != "" {
		status := invoice.Status(query.Status)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("value", query.Status))
			return
		}
		filter.Status = &status
	}

	if query.RecipientID != "" {
		recipientID, err := id.Parse(query.RecipientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid recipient id").WithDetail("field", "recipientId"))
			return
		}
		filter.RecipientID = &recipientID
	}

	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom, expected YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &from
	}

	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo, expected YYYY-MM-DD"))
			return
		}
		filter.DateTo = &to
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromInvoices(result.Items, time.Now().UTC()),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv, time.Now().UTC()))
}

// Create handles POST /invoices - create a prefilled draft.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.CreateDraft(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInvoice(inv, time.Now().UTC()))
}

// Update handles PUT /invoices/:id - save draft edits.
func (h *InvoiceHandler) Update(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(inv); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.UpdateDraft(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv, time.Now().UTC()))
}

// Delete handles DELETE /invoices/:id - remove a draft.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Issue handles POST /invoices/:id/issue - assign number, move to sent,
// notify the recipient.
func (h *InvoiceHandler) Issue(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	inv, err := h.service.IssueAndSend(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv, time.Now().UTC()))
}

// MarkPaid handles POST /invoices/:id/pay.
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	inv, err := h.service.MarkPaid(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv, time.Now().UTC()))
}

// Cancel handles POST /invoices/:id/cancel.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	docID, ok := h.docID(c)
	if !ok {
		return
	}

	inv, err := h.service.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv, time.Now().UTC()))
}

func (h *InvoiceHandler) docID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
