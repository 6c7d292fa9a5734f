package dto

import (
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/domain/triage"
)

// --- Contact messages ---

// SubmitContactRequest is an inbound message from the public contact form.
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *SubmitContactRequest) ToEntity() *triage.ContactMessage {
	return triage.NewContactMessage(r.Name, r.Email, r.Subject, r.Message)
}

// UpdateContactStatusRequest moves a contact message to a new status.
// Notes, when present, replace the operator notes.
type UpdateContactStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// ContactResponse is the response body for a contact message.
type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromContact creates response DTO from domain entity.
func FromContact(msg *triage.ContactMessage) *ContactResponse {
	return &ContactResponse{
		ID:        msg.ID.String(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		Status:    string(msg.Status),
		Notes:     msg.Notes,
		Version:   msg.Version,
		CreatedAt: msg.CreatedAt,
	}
}

// FromContacts converts a slice of domain entities.
func FromContacts(items []*triage.ContactMessage) []*ContactResponse {
	out := make([]*ContactResponse, 0, len(items))
	for _, msg := range items {
		out = append(out, FromContact(msg))
	}
	return out
}

// --- Leads ---

// SubmitLeadRequest is an inbound purchase inquiry.
type SubmitLeadRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	VehicleID *string `json:"vehicleId"`
	Message   string  `json:"message"`
}

// ToEntity converts DTO to domain entity.
func (r *SubmitLeadRequest) ToEntity() (*triage.Lead, error) {
	lead := triage.NewLead(r.Name, r.Email)
	lead.Phone = r.Phone
	lead.Message = r.Message

	if r.VehicleID != nil && *r.VehicleID != "" {
		vehicleID, err := id.Parse(*r.VehicleID)
		if err != nil {
			return nil, apperror.NewValidation("invalid vehicle id").
				WithDetail("field", "vehicleId")
		}
		lead.VehicleID = &vehicleID
	}

	return lead, nil
}

// UpdateLeadStatusRequest moves a lead to a new pipeline status.
// Notes, when present, replace the operator notes.
type UpdateLeadStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// LeadResponse is the response body for a lead.
type LeadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	VehicleID *string   `json:"vehicleId,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromLead creates response DTO from domain entity.
func FromLead(lead *triage.Lead) *LeadResponse {
	resp := &LeadResponse{
		ID:        lead.ID.String(),
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Message:   lead.Message,
		Status:    string(lead.Status),
		Notes:     lead.Notes,
		Version:   lead.Version,
		CreatedAt: lead.CreatedAt,
	}
	if lead.VehicleID != nil {
		vehicleID := lead.VehicleID.String()
		resp.VehicleID = &vehicleID
	}
	return resp
}

// FromLeads converts a slice of domain entities.
func FromLeads(items []*triage.Lead) []*LeadResponse {
	out := make([]*LeadResponse, 0, len(items))
	for _, lead := range items {
		out = append(out, FromLead(lead))
	}
	return out
}
