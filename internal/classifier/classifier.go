// Package classifier implements keyword-based product categorization with
// confidence scoring.
package classifier

import (
	"strings"

	"github.com/jrpboutique/loom/internal/model"
	"github.com/jrpboutique/loom/internal/registry"
)

const (
	maxConfidence       = 100
	strongMatchBonus    = 20
	highConfidenceFloor = 80
	highConfidenceBonus = 10
	fallbackConfidence  = 10
)

// Classifier scores text input against the category registry. It is pure:
// given the same registry and inputs it always returns the same record, and
// it never fails (a no-match input yields the fallback record).
type Classifier struct {
	registry *registry.Registry
}

// New creates a classifier backed by the given registry.
func New(reg *registry.Registry) *Classifier {
	return &Classifier{registry: reg}
}

// Categorize proposes a category for a filename plus optional metadata.
//
// Each category is scored by counting its keywords that occur as
// case-insensitive substrings of filename+name. Keywords that equal or
// contain the category key count as strong matches and add a flat bonus.
// The raw score is min(100, matched/total*100 + strong*20); the category
// with the highest score wins, first-seen winning exact ties. Scores above
// 80 receive a single +10 boost, capped at 100.
//
// The returned record is transient: provenance flags and timestamps are
// stamped later by the batch categorizer.
func (c *Classifier) Categorize(filename string, meta model.Metadata) *model.Record {
	searchText := strings.ToLower(filename)
	if meta.Name != "" {
		searchText += " " + strings.ToLower(meta.Name)
	}

	defs := c.registry.Definitions()

	var best *model.CategoryDefinition
	var bestScore float64

	for i := range defs {
		def := &defs[i]

		matched := 0
		strong := 0
		for _, kw := range def.Keywords {
			if !strings.Contains(searchText, strings.ToLower(kw)) {
				continue
			}
			matched++
			if kw == def.Key || strings.Contains(kw, def.Key) {
				strong++
			}
		}
		if matched == 0 {
			continue
		}

		score := float64(matched)/float64(len(def.Keywords))*100 + float64(strong)*strongMatchBonus
		if score > maxConfidence {
			score = maxConfidence
		}

		// Strictly greater: ties keep the earlier category.
		if score > bestScore {
			bestScore = score
			best = def
		}
	}

	if best == nil {
		return c.fallbackRecord()
	}

	if bestScore > highConfidenceFloor {
		bestScore += highConfidenceBonus
		if bestScore > maxConfidence {
			bestScore = maxConfidence
		}
	}

	priceRange := best.PriceRange
	return &model.Record{
		Category:            best.Key,
		DisplayName:         best.DisplayName,
		Description:         best.Description,
		Confidence:          bestScore,
		Tags:                best.Tags,
		SeasonalFit:         best.SeasonalFit,
		ColorCategory:       best.ColorCategory,
		SuggestedKeywords:   best.Keywords,
		SuggestedPriceRange: &priceRange,
	}
}

// fallbackRecord is the defined no-match outcome: the catch-all category at
// confidence 10, flagged for review.
func (c *Classifier) fallbackRecord() *model.Record {
	fb := c.registry.Fallback()
	return &model.Record{
		Category:          fb.Category,
		DisplayName:       fb.DisplayName,
		Description:       fb.Description,
		Confidence:        fallbackConfidence,
		Tags:              fb.Tags,
		SeasonalFit:       fb.SeasonalFit,
		ColorCategory:     fb.ColorCategory,
		SuggestedKeywords: fb.SuggestedKeywords,
		NeedsReview:       true,
	}
}
