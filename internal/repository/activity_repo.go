package repository

import (
	"context"

	"procurement/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository defines the interface for the activity log
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, page, limit int) ([]model.ActivityLog, int64, error)
	CountEntities(ctx context.Context) (Counts, error)
}

// Counts aggregates entity totals for the statistics endpoint
type Counts struct {
	Clients        int64 `json:"clients"`
	Suppliers      int64 `json:"suppliers"`
	Items          int64 `json:"items"`
	Quotations     int64 `json:"quotations"`
	PurchaseOrders int64 `json:"purchase_orders"`
	Users          int64 `json:"users"`
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository returns a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, page, limit int) ([]model.ActivityLog, int64, error) {
	var entries []model.ActivityLog
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *activityRepository) CountEntities(ctx context.Context) (Counts, error) {
	var counts Counts

	pairs := []struct {
		model interface{}
		dest  *int64
	}{
		{&model.Client{}, &counts.Clients},
		{&model.Supplier{}, &counts.Suppliers},
		{&model.Item{}, &counts.Items},
		{&model.QuotationRequest{}, &counts.Quotations},
		{&model.PurchaseOrder{}, &counts.PurchaseOrders},
		{&model.User{}, &counts.Users},
	}
	for _, p := range pairs {
		if err := r.db.WithContext(ctx).Model(p.model).Count(p.dest).Error; err != nil {
			return Counts{}, err
		}
	}

	return counts, nil
}
