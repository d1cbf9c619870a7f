package engine

import (
	"context"
	"testing"
	"time"

	"github.com/jrpboutique/loom/internal/classifier"
	"github.com/jrpboutique/loom/internal/model"
	"github.com/jrpboutique/loom/internal/registry"
	"github.com/jrpboutique/loom/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRegistry is a compact category set with predictable scores:
// both keywords hitting yields 100, one keyword yields 50 is impossible
// (50 < threshold in these tests comes from single weak keyword hits).
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(
		[]model.CategoryDefinition{
			{
				Key:         "saree",
				DisplayName: "Elegant Saree",
				Keywords:    []string{"saree", "silk_saree"},
				Tags:        []string{"traditional"},
				PriceRange:  model.PriceRange{Min: 8000, Max: 25000},
				SeasonalFit: []string{"all-season"},
			},
			{
				Key:         "kurti",
				DisplayName: "Stylish Kurti",
				Keywords:    []string{"kurti", "cotton_kurti", "tunic", "casual_kurti"},
				Tags:        []string{"casual"},
				PriceRange:  model.PriceRange{Min: 2000, Max: 8000},
				SeasonalFit: []string{"all-season"},
			},
		},
		map[string][]string{"saree": {"kurti"}},
		[]string{"red", "blue"},
		registry.Fallback{
			Category:          "dress",
			DisplayName:       "Designer Dress",
			Tags:              []string{"fashion"},
			SuggestedKeywords: []string{"dress"},
		},
	)
	require.NoError(t, err)
	return reg
}

func newTestCategorizer(t *testing.T, prompter Prompter) (*BatchCategorizer, *storage.JSONStore) {
	t.Helper()
	store, err := storage.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	reg := testRegistry(t)
	return New(store, classifier.New(reg), reg, prompter), store
}

func TestBatchCategorizer_AutoCategorize(t *testing.T) {
	ctx := context.Background()

	t.Run("partitions by threshold", func(t *testing.T) {
		eng, store := newTestCategorizer(t, nil)

		files := []string{
			"silk_saree_red.jpg", // both saree keywords, confidence 100
			"tunic_blue.jpg",     // 1/4 kurti keywords, confidence 25
			"random_thing.jpg",   // fallback, confidence 10
		}

		stats, err := eng.AutoCategorize(ctx, files, 70, false)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Processed)
		assert.Equal(t, 2, stats.LowConfidence)
		assert.Equal(t, 0, stats.Skipped)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		require.Len(t, mapping, 3)

		accepted := mapping["silk_saree_red.jpg"]
		assert.Equal(t, "saree", accepted.Category)
		assert.False(t, accepted.NeedsReview)
		assert.True(t, accepted.AutoGenerated)
		require.NotNil(t, accepted.Timestamp)

		flagged := mapping["tunic_blue.jpg"]
		assert.Equal(t, "kurti", flagged.Category)
		assert.True(t, flagged.NeedsReview)

		fallback := mapping["random_thing.jpg"]
		assert.Equal(t, "dress", fallback.Category)
		assert.InDelta(t, 10, fallback.Confidence, 0.001)
		assert.True(t, fallback.NeedsReview)
	})

	t.Run("skips structured records, reclassifies legacy strings", func(t *testing.T) {
		eng, store := newTestCategorizer(t, nil)

		existing := model.Mapping{
			"silk_saree_red.jpg": {Category: "saree", Confidence: 95, AutoGenerated: true},
			"old_entry.jpg":      {Category: "kurti", Legacy: true},
		}
		require.NoError(t, store.SaveMapping(ctx, existing))

		stats, err := eng.AutoCategorize(ctx, []string{"silk_saree_red.jpg", "old_entry.jpg"}, 70, false)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Skipped)
		assert.Equal(t, 1, stats.LowConfidence) // legacy name has no keywords, fallback

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		assert.False(t, mapping["old_entry.jpg"].Legacy)
		assert.Equal(t, "dress", mapping["old_entry.jpg"].Category)
		assert.InDelta(t, 95, mapping["silk_saree_red.jpg"].Confidence, 0.001)
	})

	t.Run("persists statistics snapshot", func(t *testing.T) {
		eng, store := newTestCategorizer(t, nil)

		_, err := eng.AutoCategorize(ctx, []string{"silk_saree_red.jpg"}, 70, false)
		require.NoError(t, err)

		stats, err := store.LoadStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalImages)
		assert.Equal(t, 1, stats.CategoryCounts["saree"])
	})

	t.Run("reports progress per item", func(t *testing.T) {
		eng, _ := newTestCategorizer(t, nil)

		var calls []int
		eng.OnProgress = func(done, total int, _ string) {
			assert.Equal(t, 2, total)
			calls = append(calls, done)
		}

		_, err := eng.AutoCategorize(ctx, []string{"silk_saree_red.jpg", "tunic_blue.jpg"}, 70, false)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, calls)
	})
}

func TestBatchCategorizer_ManualReview(t *testing.T) {
	ctx := context.Background()

	seedFlagged := func(t *testing.T, store *storage.JSONStore) {
		t.Helper()
		now := time.Now()
		require.NoError(t, store.SaveMapping(ctx, model.Mapping{
			"tunic_blue.jpg": {
				Category:      "kurti",
				DisplayName:   "Stylish Kurti",
				Confidence:    25,
				NeedsReview:   true,
				AutoGenerated: true,
				Timestamp:     &now,
			},
			"silk_saree_red.jpg": {
				Category:      "saree",
				Confidence:    100,
				AutoGenerated: true,
				Timestamp:     &now,
			},
		}))
	}

	t.Run("review-only mode filters to flagged items", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{Action: ActionChoose, CategoryKey: "saree"},
		}}
		eng, store := newTestCategorizer(t, prompter)
		seedFlagged(t, store)

		stats, err := eng.ManualReview(ctx, []string{"silk_saree_red.jpg", "tunic_blue.jpg"}, true, false)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Reviewed)

		require.Len(t, prompter.Items, 1)
		assert.Equal(t, "tunic_blue.jpg", prompter.Items[0].Filename)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		record := mapping["tunic_blue.jpg"]
		assert.Equal(t, "saree", record.Category)
		assert.InDelta(t, 100, record.Confidence, 0.001)
		assert.True(t, record.ManuallyReviewed)
		assert.False(t, record.NeedsReview)
		require.NotNil(t, record.ReviewedAt)
	})

	t.Run("accepting the suggestion forces confidence to 100", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{Action: ActionAcceptSuggestion},
		}}
		eng, store := newTestCategorizer(t, prompter)
		seedFlagged(t, store)

		_, err := eng.ManualReview(ctx, []string{"tunic_blue.jpg"}, true, false)
		require.NoError(t, err)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		record := mapping["tunic_blue.jpg"]
		assert.Equal(t, "kurti", record.Category)
		assert.InDelta(t, 100, record.Confidence, 0.001)
		assert.True(t, record.ManuallyReviewed)
		assert.False(t, record.AutoGenerated)
		assert.False(t, record.NeedsReview)
	})

	t.Run("manual details are recorded", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{
				Action:           ActionChoose,
				CategoryKey:      "kurti",
				CustomPriceRange: &model.PriceRange{Min: 3000, Max: 6000},
				AdditionalTags:   []string{"summer", "sale"},
			},
		}}
		eng, store := newTestCategorizer(t, prompter)
		seedFlagged(t, store)

		_, err := eng.ManualReview(ctx, []string{"tunic_blue.jpg"}, true, false)
		require.NoError(t, err)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		record := mapping["tunic_blue.jpg"]
		require.NotNil(t, record.CustomPriceRange)
		assert.Equal(t, 3000, record.CustomPriceRange.Min)
		assert.Equal(t, []string{"summer", "sale"}, record.AdditionalTags)
		assert.Equal(t, []string{"casual", "summer", "sale"}, record.AllTags())
	})

	t.Run("quit preserves decisions made so far", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{Action: ActionChoose, CategoryKey: "saree"},
			{Action: ActionQuit},
		}}
		eng, store := newTestCategorizer(t, prompter)

		files := []string{"aaa_unknown.jpg", "bbb_unknown.jpg", "ccc_unknown.jpg"}
		stats, err := eng.ManualReview(ctx, files, false, false)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Reviewed)
		assert.True(t, stats.Quit)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		require.Len(t, mapping, 1)
		assert.Equal(t, "saree", mapping["aaa_unknown.jpg"].Category)
	})

	t.Run("invalid input leaves the item unresolved", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{Action: ActionInvalid},
			{Action: ActionChoose, CategoryKey: "no-such-category"},
		}}
		eng, store := newTestCategorizer(t, prompter)

		stats, err := eng.ManualReview(ctx, []string{"aaa_unknown.jpg", "bbb_unknown.jpg"}, false, false)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Reviewed)
		assert.Equal(t, 2, stats.Skipped)

		mapping, err := store.LoadMapping(ctx)
		require.NoError(t, err)
		assert.Empty(t, mapping)
	})

	t.Run("all mode skips resolved items", func(t *testing.T) {
		prompter := &MockPrompter{Decisions: []ReviewDecision{
			{Action: ActionSkip},
		}}
		eng, store := newTestCategorizer(t, prompter)
		seedFlagged(t, store)

		stats, err := eng.ManualReview(ctx, []string{"silk_saree_red.jpg", "tunic_blue.jpg"}, false, false)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Skipped)

		// Only the flagged item was presented; the resolved one was not.
		require.Len(t, prompter.Items, 1)
		assert.Equal(t, "tunic_blue.jpg", prompter.Items[0].Filename)
	})

	t.Run("review item carries suggestion and related categories", func(t *testing.T) {
		prompter := &MockPrompter{}
		eng, store := newTestCategorizer(t, prompter)
		seedFlagged(t, store)

		_, err := eng.ManualReview(ctx, []string{"tunic_blue.jpg"}, true, false)
		require.NoError(t, err)

		require.Len(t, prompter.Items, 1)
		item := prompter.Items[0]
		require.NotNil(t, item.Current)
		require.NotNil(t, item.Suggestion)
		assert.Equal(t, "kurti", item.Suggestion.Category)
		assert.Len(t, item.Categories, 2)
		assert.Equal(t, 1, item.Position)
		assert.Equal(t, 1, item.Total)
	})
}
