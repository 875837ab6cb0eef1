package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-nav-backend/internal/geo"
	"parking-nav-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	UpsertSigns(ctx context.Context, items []SignItem) error
	SignsWithin(ctx context.Context, bounds geo.Bounds) ([]model.Sign, error)
	Streets(ctx context.Context, borough string) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
	WatchedSignIDs(ctx context.Context) ([]int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertSigns batch-upserts the sign corpus fetched from the provider.
// Items whose ID or coordinates could not be resolved are skipped; the feed
// always carries a tail of records without geocoding.
func (s *gormStore) UpsertSigns(ctx context.Context, items []SignItem) error {
	signs := make([]model.Sign, 0, len(items))
	for _, item := range items {
		if !item.Resolved {
			continue
		}
		signs = append(signs, model.Sign{
			ID:          item.ID,
			Street:      item.Street,
			FromStreet:  item.FromStreet,
			ToStreet:    item.ToStreet,
			Side:        item.Side,
			Borough:     item.Borough,
			Description: item.Description,
			Latitude:    item.Lat,
			Longitude:   item.Lon,
		})
	}
	if len(signs) == 0 {
		return nil
	}

	log.Printf("Batch upserting %d signs...", len(signs))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite chokes on very large multi-row inserts, so chunk.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"street", "from_street", "to_street", "side", "borough",
				"description", "latitude", "longitude", "updated_at",
			}),
		}).CreateInBatches(&signs, 500).Error
	})
}

// SignsWithin returns every sign inside the bounding box. Callers narrow the
// result to a true radius with geo.Distance.
func (s *gormStore) SignsWithin(ctx context.Context, bounds geo.Bounds) ([]model.Sign, error) {
	var signs []model.Sign
	err := s.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", bounds.MinLat, bounds.MaxLat).
		Where("longitude BETWEEN ? AND ?", bounds.MinLon, bounds.MaxLon).
		Find(&signs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query signs within bounds: %w", err)
	}
	return signs, nil
}

// Streets returns the distinct street names, optionally limited to a borough.
func (s *gormStore) Streets(ctx context.Context, borough string) ([]string, error) {
	q := s.db.WithContext(ctx).
		Model(&model.Sign{}).
		Distinct("street").
		Where("street <> ''").
		Order("street")
	if borough != "" {
		q = q.Where("borough = ?", borough)
	}

	var streets []string
	if err := q.Pluck("street", &streets).Error; err != nil {
		return nil, fmt.Errorf("failed to list streets: %w", err)
	}
	return streets, nil
}

// Stats aggregates corpus totals, per-borough counts, and coverage bounds.
func (s *gormStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByBorough: make(map[string]int64)}

	if err := s.db.WithContext(ctx).Model(&model.Sign{}).Count(&stats.TotalSigns).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count signs: %w", err)
	}

	type boroughRow struct {
		Borough string
		Total   int64
	}
	var rows []boroughRow
	if err := s.db.WithContext(ctx).
		Model(&model.Sign{}).
		Select("borough as borough, COUNT(*) as total").
		Group("borough").
		Scan(&rows).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate boroughs: %w", err)
	}
	for _, r := range rows {
		stats.ByBorough[r.Borough] = r.Total
	}

	if stats.TotalSigns > 0 {
		var cov CoverageBounds
		if err := s.db.WithContext(ctx).
			Model(&model.Sign{}).
			Select("MIN(latitude) as south, MAX(latitude) as north, MIN(longitude) as west, MAX(longitude) as east").
			Scan(&cov).Error; err != nil {
			return Stats{}, fmt.Errorf("failed to compute coverage: %w", err)
		}
		stats.Coverage = &cov
	}

	return stats, nil
}

// WatchedSignIDs returns the IDs of signs that at least one push
// subscription is watching. The provider only evaluates cleaning alerts
// for these.
func (s *gormStore) WatchedSignIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Table("subscription_sign_mapping").
		Distinct("sign_id").
		Pluck("sign_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watched signs: %w", err)
	}
	return ids, nil
}
