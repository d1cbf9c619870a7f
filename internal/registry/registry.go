// Package registry holds the category definition table: an ordered,
// immutable set of product categories with their keywords, relations and
// the color vocabulary used for metadata extraction.
package registry

import (
	"fmt"
	"strings"

	"github.com/jrpboutique/loom/internal/model"
)

// Fallback describes the catch-all record returned when no category
// keyword matches an input.
type Fallback struct {
	Category          string   `yaml:"category"`
	DisplayName       string   `yaml:"displayName"`
	Description       string   `yaml:"description"`
	Tags              []string `yaml:"tags"`
	SeasonalFit       []string `yaml:"seasonalFit"`
	ColorCategory     []string `yaml:"colorCategory"`
	SuggestedKeywords []string `yaml:"suggestedKeywords"`
}

// Registry is the in-memory category table. It preserves definition order,
// which determines menu numbering and classification tie-breaks.
type Registry struct {
	byKey     map[string]*model.CategoryDefinition
	relations map[string][]string
	order     []model.CategoryDefinition
	colors    []string
	fallback  Fallback
}

// New builds a registry from its parts and validates the invariants:
// unique keys, non-empty keyword lists, min <= max on price ranges.
func New(categories []model.CategoryDefinition, relations map[string][]string, colors []string, fallback Fallback) (*Registry, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}

	byKey := make(map[string]*model.CategoryDefinition, len(categories))
	order := make([]model.CategoryDefinition, len(categories))
	copy(order, categories)

	for i := range order {
		def := &order[i]
		if def.Key == "" {
			return nil, fmt.Errorf("category at index %d has no key", i)
		}
		if _, exists := byKey[def.Key]; exists {
			return nil, fmt.Errorf("duplicate category key %q", def.Key)
		}
		if len(def.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", def.Key)
		}
		if def.PriceRange.Min > def.PriceRange.Max {
			return nil, fmt.Errorf("category %q has inverted price range %d-%d", def.Key, def.PriceRange.Min, def.PriceRange.Max)
		}
		byKey[def.Key] = def
	}

	if fallback.Category == "" {
		return nil, fmt.Errorf("no fallback category configured")
	}

	if relations == nil {
		relations = map[string][]string{}
	}

	return &Registry{
		order:     order,
		byKey:     byKey,
		relations: relations,
		colors:    colors,
		fallback:  fallback,
	}, nil
}

// Definitions returns all category definitions in definition order.
func (r *Registry) Definitions() []model.CategoryDefinition {
	return r.order
}

// ListCategories returns the menu view of all categories in definition order.
func (r *Registry) ListCategories() []model.CategorySummary {
	summaries := make([]model.CategorySummary, len(r.order))
	for i, def := range r.order {
		summaries[i] = model.CategorySummary{
			Key:         def.Key,
			DisplayName: def.DisplayName,
			Description: def.Description,
			Tags:        def.Tags,
			PriceRange:  def.PriceRange,
		}
	}
	return summaries
}

// Get looks up a category definition by key.
func (r *Registry) Get(key string) (*model.CategoryDefinition, bool) {
	def, ok := r.byKey[key]
	return def, ok
}

// RelatedCategories returns the hand-authored related keys for a category.
// Unknown keys yield an empty result, not an error.
func (r *Registry) RelatedCategories(key string) []string {
	return r.relations[key]
}

// ExtractColors returns every color from the vocabulary that occurs as a
// case-insensitive substring of text, in vocabulary order.
func (r *Registry) ExtractColors(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, color := range r.colors {
		if strings.Contains(lower, color) {
			found = append(found, color)
		}
	}
	return found
}

// Fallback returns the configured catch-all category data.
func (r *Registry) Fallback() Fallback {
	return r.fallback
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.order)
}
