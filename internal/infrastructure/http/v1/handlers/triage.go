package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/domain/triage"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// TriageHandler provides HTTP handlers for the contact and lead inboxes.
type TriageHandler struct {
	*BaseHandler
	service *triage.Service
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(base *BaseHandler, service *triage.Service) *TriageHandler {
	return &TriageHandler{
		BaseHandler: base,
		service:     service,
	}
}

// --- Contact messages ---

// SubmitContact handles POST /contacts.
func (h *TriageHandler) SubmitContact(c *gin.Context) {
	var req dto.SubmitContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg := req.ToEntity()
	if err := h.service.SubmitContact(c.Request.Context(), msg); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromContact(msg))
}

// GetContact handles GET /contacts/:id.
func (h *TriageHandler) GetContact(c *gin.Context) {
	msgID, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := h.service.GetContact(c.Request.Context(), msgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromContact(msg))
}

// ListContacts handles GET /contacts.
func (h *TriageHandler) ListContacts(c *gin.Context) {
	filter := triage.ContactFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := triage.ContactStatus(statusStr)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("unknown contact status").WithDetail("value", statusStr))
			return
		}
		filter.Status = &status
	}

	result, err := h.service.ListContacts(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromContacts(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// UpdateContactStatus handles PATCH /contacts/:id/status.
func (h *TriageHandler) UpdateContactStatus(c *gin.Context) {
	msgID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateContactStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg, err := h.service.UpdateContactStatus(c.Request.Context(), msgID, triage.ContactStatus(req.Status), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromContact(msg))
}

// --- Leads ---

// SubmitLead handles POST /leads.
func (h *TriageHandler) SubmitLead(c *gin.Context) {
	var req dto.SubmitLeadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lead, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.SubmitLead(c.Request.Context(), lead); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromLead(lead))
}

// GetLead handles GET /leads/:id.
func (h *TriageHandler) GetLead(c *gin.Context) {
	leadID, ok := h.parseID(c)
	if !ok {
		return
	}

	lead, err := h.service.GetLead(c.Request.Context(), leadID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLead(lead))
}

// ListLeads handles GET /leads.
func (h *TriageHandler) ListLeads(c *gin.Context) {
	filter := triage.LeadFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := triage.LeadStatus(statusStr)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("unknown lead status").WithDetail("value", statusStr))
			return
		}
		filter.Status = &status
	}

	if vehicleStr := c.Query("vehicleId"); vehicleStr != "" {
		vehicleID, err := id.Parse(vehicleStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid vehicle id").WithDetail("field", "vehicleId"))
			return
		}
		filter.VehicleID = &vehicleID
	}

	result, err := h.service.ListLeads(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromLeads(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// UpdateLeadStatus handles PATCH /leads/:id/status.
func (h *TriageHandler) UpdateLeadStatus(c *gin.Context) {
	leadID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateLeadStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lead, err := h.service.UpdateLeadStatus(c.Request.Context(), leadID, triage.LeadStatus(req.Status), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLead(lead))
}

func (h *TriageHandler) parseID(c *gin.Context) (id.ID, bool) {
	parsed, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return parsed, true
}
