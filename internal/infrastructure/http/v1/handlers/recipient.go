package handlers

import (
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// RecipientHTTPHandler aliases the generic catalog handler for recipients.
type RecipientHTTPHandler = CatalogHandler[
	*recipient.Recipient,
	dto.CreateRecipientRequest,
	dto.UpdateRecipientRequest,
]

// NewRecipientHandler wires the recipient service into the generic handler.
func NewRecipientHandler(
	base *BaseHandler,
	service *recipient.Service,
) *RecipientHTTPHandler {
	config := CatalogHandlerConfig[
		*recipient.Recipient,
		dto.CreateRecipientRequest,
		dto.UpdateRecipientRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "recipient",

		MapCreateDTO: func(req dto.CreateRecipientRequest) *recipient.Recipient {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateRecipientRequest, existing *recipient.Recipient) *recipient.Recipient {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *recipient.Recipient) any {
			return dto.FromRecipient(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
