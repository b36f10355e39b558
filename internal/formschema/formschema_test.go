package formschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSchemasAreValid(t *testing.T) {
	for _, s := range builtin {
		assert.NoError(t, s.Check(), s.ProductType)
	}
}

func TestValidate(t *testing.T) {
	s, err := NewRegistry().Get(DefaultProductType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		answers map[string]string
		key     string
	}{
		{"ok", map[string]string{"character": "Totoro", "main_color": "gris", "style": "chibi"}, ""},
		{"missing required", map[string]string{"character": "Totoro", "style": "chibi"}, "main_color"},
		{"blank counts as missing", map[string]string{"character": "  ", "main_color": "gris", "style": "chibi"}, "character"},
		{"bad option", map[string]string{"character": "Totoro", "main_color": "gris", "style": "cubista"}, "style"},
		{"bad number", map[string]string{"character": "Totoro", "main_color": "gris", "style": "chibi", "quantity": "dos"}, "quantity"},
		{"bad checkbox", map[string]string{"character": "Totoro", "main_color": "gris", "style": "chibi", "safety_eyes": "maybe"}, "safety_eyes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(s, tt.answers)
			if tt.key == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.key, fe.Key)
		})
	}
}

func TestDescribeIsDeterministic(t *testing.T) {
	s, err := NewRegistry().Get(DefaultProductType)
	require.NoError(t, err)

	answers := map[string]string{
		"safety_eyes": "true",
		"style":       "chibi",
		"character":   "Totoro",
		"main_color":  "gris",
		"unknown":     "ignored",
	}
	want := "Personaje: Totoro\nColor principal: gris\nEstilo: chibi\nOjos de seguridad: yes"
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, Describe(s, answers))
	}

	answers["safety_eyes"] = "false"
	assert.NotContains(t, Describe(s, answers), "Ojos")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("blanket")
	assert.ErrorIs(t, err, ErrUnknownProductType)

	err = r.Register(Schema{ProductType: "Blanket", Fields: []Field{{Key: "size", Label: "Size", Kind: KindSelect}}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	require.NoError(t, r.Register(Schema{ProductType: "Blanket", Fields: []Field{{Key: "size", Label: "Size", Kind: KindSelect, Options: []string{"S", "M"}}}}))
	s, err := r.Get("blanket")
	require.NoError(t, err)
	assert.Equal(t, "blanket", s.ProductType)
	assert.Len(t, r.List(), 3)
}
