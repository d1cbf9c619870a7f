// Package model defines the core domain models used throughout the application.
package model

// PriceRange is an inclusive price band in whole rupees.
type PriceRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// CategoryDefinition describes one product category: how to recognize it
// from text and what descriptive attributes it carries. Definitions are
// loaded at startup and immutable for the rest of the run.
type CategoryDefinition struct {
	Key           string     `yaml:"key"`
	DisplayName   string     `yaml:"displayName"`
	Description   string     `yaml:"description"`
	Keywords      []string   `yaml:"keywords"`
	Tags          []string   `yaml:"tags"`
	PriceRange    PriceRange `yaml:"priceRange"`
	SeasonalFit   []string   `yaml:"seasonalFit"`
	ColorCategory []string   `yaml:"colorCategory"`
}

// CategorySummary is the listing view of a category, in the shape used to
// render numbered selection menus.
type CategorySummary struct {
	Key         string     `json:"key"`
	DisplayName string     `json:"displayName"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	PriceRange  PriceRange `json:"priceRange"`
}
