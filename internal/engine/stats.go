package engine

import (
	"time"

	"github.com/jrpboutique/loom/internal/model"
)

// Confidence band cut points for reports.
const (
	lowBandCeiling    = 50
	mediumBandCeiling = 80
)

// ComputeStatistics recomputes the snapshot in full over the mapping.
// Legacy string entries contribute only to the category counts; they carry
// no confidence, seasonal or color data.
func ComputeStatistics(mapping model.Mapping) *model.StatisticsSnapshot {
	stats := &model.StatisticsSnapshot{
		TotalImages:          len(mapping),
		CategoryCounts:       make(map[string]int),
		ConfidenceStats:      make(map[string]*model.ConfidenceStat),
		SeasonalDistribution: make(map[string]int),
		ColorDistribution:    make(map[string]int),
		LastUpdated:          time.Now(),
	}

	for _, record := range mapping {
		stats.CategoryCounts[record.Category]++

		if record.Legacy {
			continue
		}

		cs := stats.ConfidenceStats[record.Category]
		if cs == nil {
			cs = &model.ConfidenceStat{}
			stats.ConfidenceStats[record.Category] = cs
		}
		cs.Total += record.Confidence
		cs.Count++
		cs.Avg = cs.Total / float64(cs.Count)

		for _, season := range record.SeasonalFit {
			stats.SeasonalDistribution[season]++
		}
		for _, color := range record.ColorCategory {
			stats.ColorDistribution[color]++
		}
	}

	return stats
}

// BuildReport aggregates the mapping into the report shape: provenance
// counters, per-category count and average confidence, and the fixed
// low/medium/high confidence bands. Legacy entries appear in category
// counts only.
func BuildReport(mapping model.Mapping) *model.Report {
	report := &model.Report{
		Summary:     model.ReportSummary{TotalImages: len(mapping)},
		Categories:  make(map[string]*model.CategoryReport),
		GeneratedAt: time.Now(),
	}

	totals := make(map[string]float64)

	for _, record := range mapping {
		cat := report.Categories[record.Category]
		if cat == nil {
			cat = &model.CategoryReport{}
			report.Categories[record.Category] = cat
		}
		cat.Count++

		if record.Legacy {
			continue
		}

		if record.AutoGenerated {
			report.Summary.AutoGenerated++
		}
		if record.ManuallyReviewed {
			report.Summary.ManuallyReviewed++
		}
		if record.NeedsReview {
			report.Summary.NeedsReview++
		}

		totals[record.Category] += record.Confidence

		switch {
		case record.Confidence < lowBandCeiling:
			report.ConfidenceDistribution.Low++
		case record.Confidence < mediumBandCeiling:
			report.ConfidenceDistribution.Medium++
		default:
			report.ConfidenceDistribution.High++
		}
	}

	// Averages are over the full category count, matching the persisted
	// report format (legacy entries dilute the average with zero).
	for key, cat := range report.Categories {
		cat.AvgConfidence = totals[key] / float64(cat.Count)
	}

	return report
}
