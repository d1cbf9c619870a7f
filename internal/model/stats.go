package model

import "time"

// ConfidenceStat aggregates confidence per category.
type ConfidenceStat struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
}

// StatisticsSnapshot is a full recompute over the persisted mapping,
// regenerated on every save. Legacy string entries contribute to
// CategoryCounts only.
type StatisticsSnapshot struct {
	TotalImages          int                        `json:"totalImages"`
	CategoryCounts       map[string]int             `json:"categoryCounts"`
	ConfidenceStats      map[string]*ConfidenceStat `json:"confidenceStats"`
	SeasonalDistribution map[string]int             `json:"seasonalDistribution"`
	ColorDistribution    map[string]int             `json:"colorDistribution"`
	LastUpdated          time.Time                  `json:"lastUpdated"`
}

// ReportSummary counts records by provenance.
type ReportSummary struct {
	TotalImages      int `json:"totalImages"`
	AutoGenerated    int `json:"autoGenerated"`
	ManuallyReviewed int `json:"manuallyReviewed"`
	NeedsReview      int `json:"needsReview"`
}

// CategoryReport is the per-category section of a report.
type CategoryReport struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avgConfidence"`
}

// ConfidenceDistribution buckets records by confidence band:
// low < 50, 50 <= medium < 80, high >= 80.
type ConfidenceDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Report is the persisted categorization report.
type Report struct {
	Summary                ReportSummary              `json:"summary"`
	Categories             map[string]*CategoryReport `json:"categories"`
	ConfidenceDistribution ConfidenceDistribution     `json:"confidenceDistribution"`
	GeneratedAt            time.Time                  `json:"generatedAt"`
}
