package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/apperror"
)

func TestBlockValidate(t *testing.T) {
	b := NewBlock("home-hero")
	b.Title = "Find your next car"
	assert.NoError(t, b.Validate(context.Background()))
}

func TestBlockValidateSlug(t *testing.T) {
	cases := []struct {
		slug  string
		valid bool
	}{
		{"home-hero", true},
		{"about-us", true},
		{"faq2", true},
		{"", false},
		{"Home-Hero", false},
		{"home_hero", false},
		{"-leading", false},
		{"trailing-", false},
	}

	for _, tc := range cases {
		b := NewBlock(tc.slug)
		b.Title = "t"
		err := b.Validate(context.Background())
		if tc.valid {
			assert.NoError(t, err, "slug %q", tc.slug)
		} else {
			assert.True(t, apperror.IsValidation(err), "slug %q must be rejected", tc.slug)
		}
	}
}

func TestBlockValidateRequiresOneTitle(t *testing.T) {
	b := NewBlock("home-hero")
	assert.True(t, apperror.IsValidation(b.Validate(context.Background())))

	// Arabic-only blocks are fine.
	b.TitleAr = "اعثر على سيارتك القادمة"
	assert.NoError(t, b.Validate(context.Background()))
}
