package dto

import (
	"motordesk/internal/domain/catalogs/recipient"
)

// --- Request DTOs ---

// CreateRecipientRequest is the request body for creating a recipient.
type CreateRecipientRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateRecipientRequest) ToEntity() *recipient.Recipient {
	rcp := recipient.NewRecipient(r.Name, r.Email)
	rcp.Code = r.Code
	rcp.Phone = r.Phone
	rcp.Address = r.Address
	return rcp
}

// UpdateRecipientRequest is the request body for updating a recipient.
type UpdateRecipientRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateRecipientRequest) ApplyTo(rcp *recipient.Recipient) {
	rcp.Code = r.Code
	rcp.Name = r.Name
	rcp.Email = r.Email
	rcp.Phone = r.Phone
	rcp.Address = r.Address
	rcp.Version = r.Version
}

// --- Response DTOs ---

// RecipientResponse is the response body for a recipient.
type RecipientResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromRecipient creates response DTO from domain entity.
func FromRecipient(rcp *recipient.Recipient) *RecipientResponse {
	return &RecipientResponse{
		ID:           rcp.ID.String(),
		Code:         rcp.Code,
		Name:         rcp.Name,
		Email:        rcp.Email,
		Phone:        rcp.Phone,
		Address:      rcp.Address,
		DeletionMark: rcp.DeletionMark,
		Version:      rcp.Version,
	}
}

// FromRecipients converts a slice of domain entities.
func FromRecipients(items []*recipient.Recipient) []*RecipientResponse {
	out := make([]*RecipientResponse, 0, len(items))
	for _, rcp := range items {
		out = append(out, FromRecipient(rcp))
	}
	return out
}
