// Package engine implements the batch categorizer that orchestrates
// classification, review and reporting over a collection of image files.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrpboutique/loom/internal/classifier"
	"github.com/jrpboutique/loom/internal/common"
	"github.com/jrpboutique/loom/internal/model"
	"github.com/jrpboutique/loom/internal/registry"
	"github.com/jrpboutique/loom/internal/service"
)

// DefaultThreshold is the confidence floor for auto-acceptance.
const DefaultThreshold = 70

// ManualConfidence is the confidence assigned to human decisions.
const ManualConfidence = 100

// BatchCategorizer runs the load → classify → persist → report pipeline.
// Items are processed strictly one at a time, in input order.
type BatchCategorizer struct {
	store      service.Store
	classifier *classifier.Classifier
	registry   *registry.Registry
	prompter   Prompter

	// OnProgress, when set, is called after each item in an auto run.
	OnProgress func(done, total int, filename string)
}

// New creates a batch categorizer with the given collaborators.
func New(store service.Store, clf *classifier.Classifier, reg *registry.Registry, prompter Prompter) *BatchCategorizer {
	return &BatchCategorizer{
		store:      store,
		classifier: clf,
		registry:   reg,
		prompter:   prompter,
	}
}

// loadMapping reads the persisted mapping. Corruption is surfaced unless
// force is set, in which case the documented original behavior applies:
// proceed with an empty mapping, prior work overwritten on next save.
func (b *BatchCategorizer) loadMapping(ctx context.Context, force bool) (model.Mapping, error) {
	mapping, err := b.store.LoadMapping(ctx)
	if err != nil {
		if errors.Is(err, common.ErrCorruptMapping) && force {
			slog.Warn("Mapping file is corrupt, starting from an empty mapping", "error", err)
			return model.Mapping{}, nil
		}
		return nil, err
	}
	return mapping, nil
}

// persist saves the mapping and a freshly recomputed statistics snapshot.
func (b *BatchCategorizer) persist(ctx context.Context, mapping model.Mapping) error {
	if err := b.store.SaveMapping(ctx, mapping); err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	if err := b.store.SaveStatistics(ctx, ComputeStatistics(mapping)); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// AutoCategorize classifies every file not already covered by a structured
// record, accepting results at or above threshold and flagging the rest
// for review. The updated mapping and statistics are persisted before
// returning.
func (b *BatchCategorizer) AutoCategorize(ctx context.Context, files []string, threshold float64, force bool) (service.AutoStats, error) {
	var stats service.AutoStats

	mapping, err := b.loadMapping(ctx, force)
	if err != nil {
		return stats, err
	}

	slog.Info("Starting auto-categorization",
		"files", len(files),
		"existing", len(mapping),
		"threshold", threshold)

	for i, file := range files {
		select {
		case <-ctx.Done():
			// Flush what we have before bailing out.
			if err := b.persist(ctx, mapping); err != nil {
				slog.Error("Failed to persist mapping on cancellation", "error", err)
			}
			return stats, ctx.Err()
		default:
		}

		// Legacy bare-string entries are re-classified; only structured
		// records count as already done.
		if existing, ok := mapping[file]; ok && !existing.Legacy {
			slog.Debug("Already categorized, skipping", "file", file)
			stats.Skipped++
			continue
		}

		meta := b.classifier.ExtractMetadata(file)
		record := b.classifier.Categorize(file, meta)

		now := time.Now()
		record.AutoGenerated = true
		record.Timestamp = &now

		if record.Confidence >= threshold {
			record.NeedsReview = false
			stats.Processed++
			slog.Info("Categorized",
				"file", file,
				"category", record.Category,
				"confidence", record.Confidence)
		} else {
			record.NeedsReview = true
			stats.LowConfidence++
			slog.Warn("Low confidence, flagged for review",
				"file", file,
				"category", record.Category,
				"confidence", record.Confidence)
		}

		mapping[file] = record

		if b.OnProgress != nil {
			b.OnProgress(i+1, len(files), file)
		}
	}

	if err := b.persist(ctx, mapping); err != nil {
		return stats, err
	}

	slog.Info("Auto-categorization complete",
		"processed", stats.Processed,
		"low_confidence", stats.LowConfidence,
		"skipped", stats.Skipped)

	return stats, nil
}

// ManualReview walks the selected items through the prompter, one pending
// prompt at a time. In review-only mode the selection is filtered to items
// flagged needs-review; the filter is the only difference between the two
// modes, so acceptance semantics are identical. Quitting mid-way persists
// every decision made so far.
func (b *BatchCategorizer) ManualReview(ctx context.Context, files []string, reviewOnly, force bool) (service.ReviewStats, error) {
	var stats service.ReviewStats

	mapping, err := b.loadMapping(ctx, force)
	if err != nil {
		return stats, err
	}

	selected := b.selectForReview(files, mapping, reviewOnly)
	if len(selected) == 0 {
		slog.Info("Nothing to review", "review_only", reviewOnly)
		return stats, nil
	}

	categories := b.registry.ListCategories()

	for i, file := range selected {
		item := b.buildReviewItem(file, mapping, categories, i+1, len(selected))

		decision, err := b.prompter.ReviewItem(ctx, item)
		if err != nil {
			// Flush decisions made so far; interrupted input must not
			// discard completed work.
			if persistErr := b.persist(ctx, mapping); persistErr != nil {
				slog.Error("Failed to persist mapping after prompt error", "error", persistErr)
			}
			return stats, fmt.Errorf("review prompt failed: %w", err)
		}

		switch decision.Action {
		case ActionQuit:
			stats.Quit = true
		case ActionSkip:
			stats.Skipped++
			continue
		case ActionInvalid:
			slog.Warn("Invalid choice, item left unresolved", "file", file)
			stats.Skipped++
			continue
		case ActionAcceptSuggestion:
			mapping[file] = b.acceptSuggestion(item.Suggestion, decision)
			stats.Reviewed++
			continue
		case ActionChoose:
			record, err := b.chooseCategory(decision)
			if err != nil {
				slog.Warn("Invalid choice, item left unresolved", "file", file, "error", err)
				stats.Skipped++
				continue
			}
			mapping[file] = record
			stats.Reviewed++
			continue
		}

		if stats.Quit {
			break
		}
	}

	if err := b.persist(ctx, mapping); err != nil {
		return stats, err
	}

	slog.Info("Manual review complete",
		"reviewed", stats.Reviewed,
		"skipped", stats.Skipped,
		"quit", stats.Quit)

	return stats, nil
}

// selectForReview applies the review filter predicate. Review-only mode
// selects flagged items; otherwise every file not already resolved is
// presented.
func (b *BatchCategorizer) selectForReview(files []string, mapping model.Mapping, reviewOnly bool) []string {
	var selected []string
	for _, file := range files {
		record := mapping[file]
		if reviewOnly {
			if record != nil && record.NeedsReview {
				selected = append(selected, file)
			}
			continue
		}
		if record != nil && !record.NeedsReview {
			slog.Debug("Already categorized, skipping", "file", file)
			continue
		}
		selected = append(selected, file)
	}
	return selected
}

func (b *BatchCategorizer) buildReviewItem(file string, mapping model.Mapping, categories []model.CategorySummary, position, total int) ReviewItem {
	meta := b.classifier.ExtractMetadata(file)
	suggestion := b.classifier.Categorize(file, meta)

	current := mapping[file]
	relatedKey := suggestion.Category
	if current != nil && current.Category != "" {
		relatedKey = current.Category
	}

	return ReviewItem{
		Filename:   file,
		Current:    current,
		Suggestion: suggestion,
		Metadata:   meta,
		Related:    b.registry.RelatedCategories(relatedKey),
		Categories: categories,
		Position:   position,
		Total:      total,
	}
}

// acceptSuggestion promotes the classifier's proposal to a manually
// reviewed record at full confidence.
func (b *BatchCategorizer) acceptSuggestion(suggestion *model.Record, decision ReviewDecision) *model.Record {
	record := *suggestion
	record.Confidence = ManualConfidence
	record.NeedsReview = false
	record.ManuallyReviewed = true
	record.AutoGenerated = false
	record.CustomPriceRange = decision.CustomPriceRange
	record.AdditionalTags = decision.AdditionalTags
	now := time.Now()
	record.ReviewedAt = &now
	return &record
}

// chooseCategory builds a record for an explicit menu selection.
func (b *BatchCategorizer) chooseCategory(decision ReviewDecision) (*model.Record, error) {
	def, ok := b.registry.Get(decision.CategoryKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownCategory, decision.CategoryKey)
	}

	now := time.Now()
	priceRange := def.PriceRange
	return &model.Record{
		Category:            def.Key,
		DisplayName:         def.DisplayName,
		Description:         def.Description,
		Confidence:          ManualConfidence,
		Tags:                def.Tags,
		SeasonalFit:         def.SeasonalFit,
		ColorCategory:       def.ColorCategory,
		SuggestedKeywords:   def.Keywords,
		SuggestedPriceRange: &priceRange,
		ManuallyReviewed:    true,
		ReviewedAt:          &now,
		CustomPriceRange:    decision.CustomPriceRange,
		AdditionalTags:      decision.AdditionalTags,
	}, nil
}

// GenerateReport recomputes the report over the persisted mapping and
// saves it.
func (b *BatchCategorizer) GenerateReport(ctx context.Context, force bool) (*model.Report, error) {
	mapping, err := b.loadMapping(ctx, force)
	if err != nil {
		return nil, err
	}

	report := BuildReport(mapping)
	if err := b.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	return report, nil
}
