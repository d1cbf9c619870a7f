package model

import (
	"encoding/json"
	"time"
)

// Record is one item's categorization, persisted keyed by filename.
//
// A Record starts life as a transient proposal from the classifier
// (category, confidence and the descriptive fields) and is promoted to a
// persisted record by the batch categorizer, which stamps the provenance
// flags. A later manual review may overwrite it with confidence 100.
type Record struct {
	Category            string      `json:"category"`
	DisplayName         string      `json:"displayName,omitempty"`
	Description         string      `json:"description,omitempty"`
	Confidence          float64     `json:"confidence"`
	Tags                []string    `json:"tags,omitempty"`
	SeasonalFit         []string    `json:"seasonalFit,omitempty"`
	ColorCategory       []string    `json:"colorCategory,omitempty"`
	SuggestedKeywords   []string    `json:"suggestedKeywords,omitempty"`
	SuggestedPriceRange *PriceRange `json:"suggestedPriceRange,omitempty"`
	NeedsReview         bool        `json:"needsReview,omitempty"`
	AutoGenerated       bool        `json:"autoGenerated,omitempty"`
	ManuallyReviewed    bool        `json:"manuallyReviewed,omitempty"`
	Timestamp           *time.Time  `json:"timestamp,omitempty"`
	ReviewedAt          *time.Time  `json:"reviewedAt,omitempty"`
	CustomPriceRange    *PriceRange `json:"customPriceRange,omitempty"`
	AdditionalTags      []string    `json:"additionalTags,omitempty"`

	// Legacy marks entries read from the old mapping format, where the
	// value was a bare category-key string. Legacy records have no
	// confidence and are written back out as bare strings.
	Legacy bool `json:"-"`
}

// recordAlias avoids Marshal/Unmarshal recursion.
type recordAlias Record

// UnmarshalJSON reads either the structured record shape or the legacy
// bare-string form ("saree" becomes {Category: "saree", Legacy: true}).
func (r *Record) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err == nil {
		*r = Record{Category: key, Legacy: true}
		return nil
	}

	var rec recordAlias
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*r = Record(rec)
	return nil
}

// MarshalJSON writes legacy entries back as bare strings so a load/save
// cycle reproduces the file verbatim.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.Legacy {
		return json.Marshal(r.Category)
	}
	return json.Marshal((*recordAlias)(r))
}

// AllTags returns the category tags merged with any manually added tags.
// This is the tag set handed to the downstream catalog sink.
func (r *Record) AllTags() []string {
	if len(r.AdditionalTags) == 0 {
		return r.Tags
	}
	tags := make([]string, 0, len(r.Tags)+len(r.AdditionalTags))
	tags = append(tags, r.Tags...)
	tags = append(tags, r.AdditionalTags...)
	return tags
}

// Mapping is the persisted filename-to-record table.
type Mapping map[string]*Record
