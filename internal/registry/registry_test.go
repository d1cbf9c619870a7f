package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrpboutique/loom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	reg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, 10, reg.Len())

	// Definition order is the menu order.
	summaries := reg.ListCategories()
	assert.Equal(t, "lehenga", summaries[0].Key)
	assert.Equal(t, "dress", summaries[len(summaries)-1].Key)

	def, ok := reg.Get("saree")
	require.True(t, ok)
	assert.Equal(t, "Elegant Saree", def.DisplayName)
	assert.NotEmpty(t, def.Keywords)
	assert.LessOrEqual(t, def.PriceRange.Min, def.PriceRange.Max)

	_, ok = reg.Get("nonexistent")
	assert.False(t, ok)

	assert.Equal(t, "dress", reg.Fallback().Category)
}

func TestRegistry_RelatedCategories(t *testing.T) {
	reg, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want []string
	}{
		{
			name: "known category",
			key:  "lehenga",
			want: []string{"kurti", "saree", "dupatta", "jewelry"},
		},
		{
			name: "category without relations",
			key:  "dupatta",
			want: nil,
		},
		{
			name: "unknown category returns empty, not error",
			key:  "spaceship",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.RelatedCategories(tt.key))
		})
	}
}

func TestRegistry_ExtractColors(t *testing.T) {
	reg, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single color",
			text: "bridal_lehenga_red_designer.jpg",
			want: []string{"red"},
		},
		{
			name: "multiple colors in vocabulary order",
			text: "NAVY_blue_saree.jpg",
			want: []string{"blue", "navy"},
		},
		{
			name: "no colors",
			text: "plain_kurti.jpg",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.ExtractColors(tt.text))
		})
	}
}

func TestNew_Validation(t *testing.T) {
	valid := model.CategoryDefinition{
		Key:         "saree",
		DisplayName: "Saree",
		Keywords:    []string{"saree"},
		PriceRange:  model.PriceRange{Min: 100, Max: 200},
	}
	fallback := Fallback{Category: "saree"}

	tests := []struct {
		name       string
		categories []model.CategoryDefinition
		fallback   Fallback
		wantErr    string
	}{
		{
			name:       "empty table",
			categories: nil,
			fallback:   fallback,
			wantErr:    "empty",
		},
		{
			name:       "duplicate key",
			categories: []model.CategoryDefinition{valid, valid},
			fallback:   fallback,
			wantErr:    "duplicate",
		},
		{
			name: "no keywords",
			categories: []model.CategoryDefinition{{
				Key:        "saree",
				PriceRange: model.PriceRange{Min: 1, Max: 2},
			}},
			fallback: fallback,
			wantErr:  "keywords",
		},
		{
			name: "inverted price range",
			categories: []model.CategoryDefinition{{
				Key:        "saree",
				Keywords:   []string{"saree"},
				PriceRange: model.PriceRange{Min: 200, Max: 100},
			}},
			fallback: fallback,
			wantErr:  "price range",
		},
		{
			name:       "missing fallback",
			categories: []model.CategoryDefinition{valid},
			fallback:   Fallback{},
			wantErr:    "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.categories, nil, nil, tt.fallback)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")

	content := `
categories:
  - key: widget
    displayName: Widget
    keywords: [widget, gadget]
    priceRange: {min: 10, max: 20}
relations:
  widget: [gizmo]
colors: [red]
fallback:
  category: widget
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"gizmo"}, reg.RelatedCategories("widget"))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
