// Package content provides the bilingual content store for site pages.
// Each block is addressed by a stable slug; the admin edits English and
// Arabic variants side by side.
package content

import (
	"context"
	"regexp"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/entity"
)

var slugRE = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Block is one editable content unit (page section, banner, FAQ entry).
type Block struct {
	entity.BaseEntity

	// Slug is the stable lookup key (e.g. "home-hero", "about-us")
	Slug string `db:"slug" json:"slug"`

	// Title / TitleAr are the display titles in English and Arabic
	Title   string `db:"title" json:"title"`
	TitleAr string `db:"title_ar" json:"titleAr"`

	// BodyHTML / BodyHTMLAr hold the rendered-as-is HTML bodies
	BodyHTML   string `db:"body_html" json:"bodyHtml"`
	BodyHTMLAr string `db:"body_html_ar" json:"bodyHtmlAr"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBlock creates a content block for the given slug.
func NewBlock(slug string) *Block {
	return &Block{
		BaseEntity: entity.NewBaseEntity(),
		Slug:       slug,
		UpdatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (b *Block) Validate(ctx context.Context) error {
	var fields []apperror.FieldError

	switch {
	case b.Slug == "":
		fields = append(fields, apperror.FieldError{Field: "slug", Message: "slug is required"})
	case !slugRE.MatchString(b.Slug):
		fields = append(fields, apperror.FieldError{Field: "slug", Message: "slug must be lowercase letters, digits and hyphens"})
	}

	if b.Title == "" && b.TitleAr == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "at least one language title is required"})
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}
