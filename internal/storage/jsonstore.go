// Package storage implements persistence for the categorization mapping,
// its derived artifacts, and the product catalog sink.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrpboutique/loom/internal/common"
	"github.com/jrpboutique/loom/internal/model"
)

// Mapping artifact filenames inside the data directory. The mapping file
// format is the external contract and is written verbatim: a JSON object
// keyed by filename, values either structured records or legacy strings,
// pretty-printed with two-space indentation.
const (
	mappingFile = "image-categories.json"
	backupFile  = "image-categories-backup.json"
	statsFile   = "categorization-stats.json"
	reportFile  = "categorization-report.json"
)

// JSONStore persists the mapping and derived documents as JSON files in a
// single data directory.
type JSONStore struct {
	dataDir string
}

// NewJSONStore creates a store rooted at dataDir, creating the directory
// if needed.
func NewJSONStore(dataDir string) (*JSONStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", common.ErrInvalidConfig)
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dataDir: dataDir}, nil
}

// MappingPath returns the path of the persisted mapping file.
func (s *JSONStore) MappingPath() string {
	return filepath.Join(s.dataDir, mappingFile)
}

// LoadMapping reads the persisted mapping. A missing file is an empty
// mapping; an unparseable file returns an empty mapping plus an error
// wrapping common.ErrCorruptMapping so the caller can decide whether to
// risk overwriting it.
func (s *JSONStore) LoadMapping(ctx context.Context) (model.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.MappingPath())
	if err != nil {
		if os.IsNotExist(err) {
			return model.Mapping{}, nil
		}
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var mapping model.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return model.Mapping{}, fmt.Errorf("%w: %v", common.ErrCorruptMapping, err)
	}
	if mapping == nil {
		mapping = model.Mapping{}
	}
	return mapping, nil
}

// SaveMapping writes the mapping, copying the previous file version to the
// backup location first. Only the most recent backup is kept.
func (s *JSONStore) SaveMapping(ctx context.Context, mapping model.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.MappingPath()
	if previous, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(filepath.Join(s.dataDir, backupFile), previous, 0o600); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}

	return s.writeJSON(path, mapping)
}

// SaveStatistics persists the statistics snapshot.
func (s *JSONStore) SaveStatistics(ctx context.Context, stats *model.StatisticsSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeJSON(filepath.Join(s.dataDir, statsFile), stats)
}

// LoadStatistics reads the last persisted statistics snapshot.
func (s *JSONStore) LoadStatistics(ctx context.Context) (*model.StatisticsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, statsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no statistics file", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read statistics file: %w", err)
	}

	var stats model.StatisticsSnapshot
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse statistics file: %w", err)
	}
	return &stats, nil
}

// SaveReport persists the categorization report.
func (s *JSONStore) SaveReport(ctx context.Context, report *model.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeJSON(filepath.Join(s.dataDir, reportFile), report)
}

func (s *JSONStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
