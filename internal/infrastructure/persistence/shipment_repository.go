package persistence

import (
	"context"
	"fmt"

	"github.com/panellens/backend/internal/domain"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// filterColumns are the shipment columns exposed as dashboard filters
var filterColumns = map[string]bool{
	"brand":       true,
	"application": true,
	"panel_maker": true,
	"technology":  true,
}

// GormShipmentRepository implements domain.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// List returns the shipments matching filter ordered by period, then id
func (r *GormShipmentRepository) List(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error) {
	query := r.db.WithContext(ctx).Model(&shipmentModel{})

	if len(filter.Years) > 0 {
		query = query.Where("year IN ?", filter.Years)
	}
	if len(filter.Quarters) > 0 {
		query = query.Where("quarter IN ?", filter.Quarters)
	}
	if len(filter.Brands) > 0 {
		query = query.Where("brand IN ?", filter.Brands)
	}
	if len(filter.Applications) > 0 {
		query = query.Where("application IN ?", filter.Applications)
	}
	if len(filter.PanelMakers) > 0 {
		query = query.Where("panel_maker IN ?", filter.PanelMakers)
	}
	if len(filter.Technologies) > 0 {
		query = query.Where("technology IN ?", filter.Technologies)
	}

	var models []shipmentModel
	if err := query.Order("year, quarter, id").Find(&models).Error; err != nil {
		return nil, err
	}

	shipments := make([]domain.Shipment, len(models))
	for i, m := range models {
		shipments[i] = m.toDomain()
	}
	return shipments, nil
}

// Create inserts shipments in batches inside one transaction
func (r *GormShipmentRepository) Create(ctx context.Context, shipments []domain.Shipment) error {
	if len(shipments) == 0 {
		return nil
	}

	models := make([]shipmentModel, len(shipments))
	for i, s := range shipments {
		models[i] = newShipmentModel(s)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&models, insertBatchSize).Error
	})
}

// DistinctStrings returns the sorted, non-empty distinct values of a filter column
func (r *GormShipmentRepository) DistinctStrings(ctx context.Context, column string) ([]string, error) {
	if !filterColumns[column] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFilterColumn, column)
	}

	values := []string{}
	err := r.db.WithContext(ctx).
		Model(&shipmentModel{}).
		Where(column+" <> ''").
		Distinct().
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// DistinctYears returns the years present in the store, ascending
func (r *GormShipmentRepository) DistinctYears(ctx context.Context) ([]int, error) {
	years := []int{}
	err := r.db.WithContext(ctx).
		Model(&shipmentModel{}).
		Distinct().
		Order("year").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}
