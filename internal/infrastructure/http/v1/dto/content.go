package dto

import (
	"time"

	"motordesk/internal/domain/content"
)

// --- Request DTOs ---

// SaveBlockRequest is the request body for saving a content block.
// Saving an unknown slug creates it.
type SaveBlockRequest struct {
	Title      string `json:"title"`
	TitleAr    string `json:"titleAr"`
	BodyHTML   string `json:"bodyHtml"`
	BodyHTMLAr string `json:"bodyHtmlAr"`
}

// ToEntity converts DTO to domain entity for the given slug.
func (r *SaveBlockRequest) ToEntity(slug string) *content.Block {
	block := content.NewBlock(slug)
	block.Title = r.Title
	block.TitleAr = r.TitleAr
	block.BodyHTML = r.BodyHTML
	block.BodyHTMLAr = r.BodyHTMLAr
	return block
}

// --- Response DTOs ---

// BlockResponse is the response body for a content block.
type BlockResponse struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	TitleAr    string    `json:"titleAr"`
	BodyHTML   string    `json:"bodyHtml"`
	BodyHTMLAr string    `json:"bodyHtmlAr"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromBlock creates response DTO from domain entity.
func FromBlock(block *content.Block) *BlockResponse {
	return &BlockResponse{
		ID:         block.ID.String(),
		Slug:       block.Slug,
		Title:      block.Title,
		TitleAr:    block.TitleAr,
		BodyHTML:   block.BodyHTML,
		BodyHTMLAr: block.BodyHTMLAr,
		Version:    block.Version,
		UpdatedAt:  block.UpdatedAt,
	}
}

// FromBlocks converts a slice of domain entities.
func FromBlocks(items []*content.Block) []*BlockResponse {
	out := make([]*BlockResponse, 0, len(items))
	for _, block := range items {
		out = append(out, FromBlock(block))
	}
	return out
}
