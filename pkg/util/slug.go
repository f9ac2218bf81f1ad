package util

import (
	"strings"
)

// accents français vers ASCII pour les slugs d'URL
var slugReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
	"œ", "oe", "æ", "ae",
	"'", "-", "’", "-",
)

// Slugify convertit un libellé en slug d'URL : minuscules, accents
// translittérés, tout le reste devient un tiret.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugReplacer.Replace(s)

	var b strings.Builder
	lastDash := true // pas de tiret en tête
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
