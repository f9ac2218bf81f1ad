package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Sites vitrines", "sites-vitrines"},
		{"accents", "Développement web", "developpement-web"},
		{"apostrophe", "Création d'identité", "creation-d-identite"},
		{"cedilla", "Maçonnerie", "maconnerie"},
		{"extra spaces", "  Audit   SEO  ", "audit-seo"},
		{"punctuation", "Design & UX / UI", "design-ux-ui"},
		{"digits", "Site vitrine 5 pages", "site-vitrine-5-pages"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
