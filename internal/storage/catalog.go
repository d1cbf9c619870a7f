package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jrpboutique/loom/internal/common"
	"github.com/jrpboutique/loom/internal/model"
	"github.com/jrpboutique/loom/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// CatalogStore pushes finished categorization records into the product
// catalog database. Products are keyed by their image filename; records
// for images without a matching product are counted, not created.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore opens (and if necessary initializes) the catalog
// database at dbPath.
func NewCatalogStore(dbPath string) (*CatalogStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: catalog database path is required", common.ErrInvalidConfig)
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	store := &CatalogStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (c *CatalogStore) ensureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS products (
		image           TEXT PRIMARY KEY,
		name            TEXT,
		price           INTEGER,
		description     TEXT,
		category        TEXT,
		tags            TEXT,
		seasonal_fit    TEXT,
		color_category  TEXT,
		confidence      REAL,
		in_stock        BOOLEAN NOT NULL DEFAULT 1,
		featured        BOOLEAN NOT NULL DEFAULT 0,
		created_at      TIMESTAMP,
		updated_at      TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *CatalogStore) Close() error {
	return c.db.Close()
}

// ApplyRecord updates the product whose image matches filename with the
// record's category data. Legacy entries carry only a category key, so
// only that column is touched for them. Returns false when no product row
// matched.
func (c *CatalogStore) ApplyRecord(ctx context.Context, filename string, record *model.Record) (bool, error) {
	var result sql.Result
	var err error

	if record.Legacy {
		result, err = c.db.ExecContext(ctx,
			`UPDATE products SET category = ?, updated_at = ? WHERE image = ?`,
			record.Category, time.Now(), filename)
	} else {
		result, err = c.db.ExecContext(ctx,
			`UPDATE products
			 SET category = ?, tags = ?, seasonal_fit = ?, color_category = ?, confidence = ?, updated_at = ?
			 WHERE image = ?`,
			record.Category,
			strings.Join(record.AllTags(), ","),
			strings.Join(record.SeasonalFit, ","),
			strings.Join(record.ColorCategory, ","),
			record.Confidence,
			time.Now(),
			filename)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update product for %s: %w", filename, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result for %s: %w", filename, err)
	}
	return rows > 0, nil
}

// ApplyMapping pushes every record in the mapping into the catalog, in
// filename order, retrying transient database errors per record.
func (c *CatalogStore) ApplyMapping(ctx context.Context, mapping model.Mapping) (service.ApplyStats, error) {
	var stats service.ApplyStats

	filenames := make([]string, 0, len(mapping))
	for filename := range mapping {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		record := mapping[filename]

		var updated bool
		err := common.WithRetry(ctx, func() error {
			var applyErr error
			updated, applyErr = c.ApplyRecord(ctx, filename, record)
			if applyErr != nil {
				return &common.RetryableError{Err: applyErr, Retryable: true}
			}
			return nil
		}, service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
		})
		if err != nil {
			return stats, err
		}

		if updated {
			stats.Updated++
		} else {
			stats.NotFound++
		}
	}

	return stats, nil
}

// SeedProduct inserts a product row if one does not exist yet. Used by
// tests and by catalog bootstrap tooling.
func (c *CatalogStore) SeedProduct(ctx context.Context, image, name string, price int) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO products (image, name, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		image, name, price, time.Now(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to seed product %s: %w", image, err)
	}
	return nil
}

// ProductCategory reads back the stored category for an image, primarily
// for verification after a sync.
func (c *CatalogStore) ProductCategory(ctx context.Context, image string) (string, error) {
	var category sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT category FROM products WHERE image = ?`, image).Scan(&category)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: product %s", common.ErrNotFound, image)
		}
		return "", fmt.Errorf("failed to query product %s: %w", image, err)
	}
	return category.String, nil
}
