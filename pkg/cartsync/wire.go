package cartsync

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Line une entrée du panier, au format mémoire : prix numérique,
// contrairement au format serveur qui sérialise les décimaux en chaîne.
type Line struct {
	ServiceID        int     `json:"service_id"`
	Nom              string  `json:"nom"`
	PrixUnitaire     float64 `json:"prix_unitaire"`
	Quantite         int     `json:"quantite"`
	ImageURL         string  `json:"image_url,omitempty"`
	Slug             string  `json:"slugs,omitempty"`
	MainCategorySlug string  `json:"main_category_slugs,omitempty"`
	SubCategorySlug  string  `json:"sub_category_slugs,omitempty"`
}

// flexNumber accepte un nombre JSON ou un nombre entre guillemets, le
// serveur renvoyant les décimaux sous forme de chaîne. Une valeur
// illisible laisse le champ invalide au lieu d'interrompre le décodage
// du tableau, la ligne fautive sera écartée par la validation.
type flexNumber struct {
	value float64
	valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	s = strings.Trim(s, `"`)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) {
		return nil
	}

	n.value = value
	n.valid = true
	return nil
}

type rawLine struct {
	ServiceID        flexNumber `json:"service_id"`
	Nom              string     `json:"nom"`
	PrixUnitaire     flexNumber `json:"prix_unitaire"`
	Quantite         flexNumber `json:"quantite"`
	ImageURL         *string    `json:"image_url"`
	Slug             string     `json:"slugs"`
	MainCategorySlug string     `json:"main_category_slugs"`
	SubCategorySlug  string     `json:"sub_category_slugs"`
}

// ParseLines décode un tableau brut de lignes de panier, du serveur ou du
// stockage invité, et n'en retient que les lignes valides : identifiant
// et nom présents, quantité strictement positive, prix numérique. Les
// lignes écartées le sont silencieusement.
func ParseLines(data []byte) ([]Line, error) {
	var raws []rawLine
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return validateLines(raws), nil
}

func validateLines(raws []rawLine) []Line {
	lines := make([]Line, 0, len(raws))
	for _, raw := range raws {
		serviceID := int(raw.ServiceID.value)
		quantite := int(raw.Quantite.value)

		if !raw.ServiceID.valid || serviceID == 0 {
			continue
		}
		if raw.Nom == "" {
			continue
		}
		if !raw.Quantite.valid || quantite <= 0 {
			continue
		}
		if !raw.PrixUnitaire.valid {
			continue
		}

		line := Line{
			ServiceID:        serviceID,
			Nom:              raw.Nom,
			PrixUnitaire:     raw.PrixUnitaire.value,
			Quantite:         quantite,
			Slug:             raw.Slug,
			MainCategorySlug: raw.MainCategorySlug,
			SubCategorySlug:  raw.SubCategorySlug,
		}
		if raw.ImageURL != nil {
			line.ImageURL = *raw.ImageURL
		}
		lines = append(lines, line)
	}
	return lines
}
