package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines_StringAndNumericPrices(t *testing.T) {
	// le serveur renvoie les prix en chaîne, le stockage invité en nombre
	data := []byte(`[
		{"service_id": 1, "nom": "Logo", "prix_unitaire": "450.00", "quantite": 2, "slugs": "logo"},
		{"service_id": 2, "nom": "Site vitrine", "prix_unitaire": 1200.5, "quantite": 1}
	]`)

	lines, err := ParseLines(data)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, 1, lines[0].ServiceID)
	assert.Equal(t, "Logo", lines[0].Nom)
	assert.Equal(t, 450.0, lines[0].PrixUnitaire)
	assert.Equal(t, 2, lines[0].Quantite)
	assert.Equal(t, "logo", lines[0].Slug)

	assert.Equal(t, 1200.5, lines[1].PrixUnitaire)
}

func TestParseLines_DropsInvalidLines(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing service id", `[{"nom": "Logo", "prix_unitaire": "10.00", "quantite": 1}]`},
		{"zero service id", `[{"service_id": 0, "nom": "Logo", "prix_unitaire": "10.00", "quantite": 1}]`},
		{"missing name", `[{"service_id": 1, "prix_unitaire": "10.00", "quantite": 1}]`},
		{"zero quantity", `[{"service_id": 1, "nom": "Logo", "prix_unitaire": "10.00", "quantite": 0}]`},
		{"negative quantity", `[{"service_id": 1, "nom": "Logo", "prix_unitaire": "10.00", "quantite": -2}]`},
		{"unparseable price", `[{"service_id": 1, "nom": "Logo", "prix_unitaire": "abc", "quantite": 1}]`},
		{"null price", `[{"service_id": 1, "nom": "Logo", "prix_unitaire": null, "quantite": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ParseLines([]byte(tt.data))
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestParseLines_KeepsValidLinesAmongInvalid(t *testing.T) {
	data := []byte(`[
		{"service_id": 1, "nom": "Logo", "prix_unitaire": "50.00", "quantite": 1},
		{"service_id": 2, "nom": "Flyer", "prix_unitaire": "80.00", "quantite": 0}
	]`)

	lines, err := ParseLines(data)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ServiceID)
}

func TestParseLines_MalformedJSON(t *testing.T) {
	_, err := ParseLines([]byte(`{"pas": "un tableau"`))
	assert.Error(t, err)
}

func TestParseLines_NullableImageURL(t *testing.T) {
	data := []byte(`[
		{"service_id": 1, "nom": "Logo", "prix_unitaire": "50.00", "quantite": 1, "image_url": null},
		{"service_id": 2, "nom": "Flyer", "prix_unitaire": "80.00", "quantite": 1, "image_url": "https://cdn.example.com/flyer.png"}
	]`)

	lines, err := ParseLines(data)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Empty(t, lines[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/flyer.png", lines[1].ImageURL)
}
