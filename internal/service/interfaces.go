// Package service defines the contracts between the categorization engine
// and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/jrpboutique/loom/internal/model"
)

// Store is the persistence contract for the categorization mapping and its
// derived artifacts.
type Store interface {
	// LoadMapping reads the persisted mapping. A missing file yields an
	// empty mapping and no error; an unparseable file yields an empty
	// mapping and an error wrapping common.ErrCorruptMapping, leaving the
	// caller to decide whether proceeding (and eventually overwriting the
	// file) is acceptable.
	LoadMapping(ctx context.Context) (model.Mapping, error)

	// SaveMapping persists the mapping, backing up the previous file
	// version first. Last backup wins.
	SaveMapping(ctx context.Context, mapping model.Mapping) error

	SaveStatistics(ctx context.Context, stats *model.StatisticsSnapshot) error
	LoadStatistics(ctx context.Context) (*model.StatisticsSnapshot, error)
	SaveReport(ctx context.Context, report *model.Report) error
}

// CatalogSink receives finished categorization records, keyed by the image
// filename the product carries. The sink consumes the record shape as-is;
// the engine never drives the upsert details.
type CatalogSink interface {
	ApplyRecord(ctx context.Context, filename string, record *model.Record) (updated bool, err error)
	Close() error
}

// RetryOptions configures retry behavior for sink operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// AutoStats summarizes an auto-categorization run.
type AutoStats struct {
	Processed     int
	LowConfidence int
	Skipped       int
}

// ReviewStats summarizes a manual review session.
type ReviewStats struct {
	Reviewed int
	Skipped  int
	Quit     bool
}

// ApplyStats summarizes a catalog sync.
type ApplyStats struct {
	Updated  int
	NotFound int
}
