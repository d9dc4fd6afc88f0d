package repository

import (
	"context"

	"procurement/internal/model"

	"gorm.io/gorm"
)

// ItemRepository defines the interface for data access of Item entities
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	GetByItemNumber(ctx context.Context, itemNumber string) (*model.Item, error)
	GetByNormalizedPartNumber(ctx context.Context, normalized string) (*model.Item, error)
	List(ctx context.Context, search, category string, page, limit int) ([]model.Item, int64, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
	NextSequence(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository returns a new instance of ItemRepository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByItemNumber(ctx context.Context, itemNumber string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "item_number = ?", itemNumber).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByNormalizedPartNumber(ctx context.Context, normalized string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "normalized_part_number = ?", normalized).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, search, category string, page, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Item{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("description ILIKE ? OR part_number ILIKE ? OR item_number ILIKE ? OR brand ILIKE ?",
			like, like, like, like)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("item_number asc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).Order("item_number asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{}).Error
}

// NextSequence returns the next numeric suffix for the P-xxxxxx item number.
// Soft-deleted rows still count so numbers are never reused.
func (r *itemRepository) NextSequence(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Unscoped().
		Select("COALESCE(MAX(CAST(SUBSTRING(item_number FROM 3) AS BIGINT)), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
