package repository

import (
	"context"
	"fmt"
	"time"

	"procurement/internal/model"

	"gorm.io/gorm"
)

// PurchaseOrderRepository defines the interface for data access of purchase orders
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error)
	List(ctx context.Context, status string, page, limit int) ([]model.PurchaseOrder, int64, error)
	ListAll(ctx context.Context) ([]model.PurchaseOrder, error)
	Update(ctx context.Context, po *model.PurchaseOrder) error
	Delete(ctx context.Context, id string) error

	AddItem(ctx context.Context, line *model.PurchaseOrderItem) error
	ListItems(ctx context.Context, poID string) ([]model.PurchaseOrderItem, error)
	RemoveItem(ctx context.Context, poID, lineID string) error

	NextPONumber(ctx context.Context) (string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository returns a new instance of PurchaseOrderRepository
func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Quotation").
		Preload("Quotation.Client").
		Preload("Items").
		Preload("Items.Item").
		Preload("Items.Supplier").
		First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, status string, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var list []model.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Quotation").Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *purchaseOrderRepository) ListAll(ctx context.Context) ([]model.PurchaseOrder, error) {
	var list []model.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Quotation").Order("po_number asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *purchaseOrderRepository) Update(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PurchaseOrder{}).Error
}

func (r *purchaseOrderRepository) AddItem(ctx context.Context, line *model.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *purchaseOrderRepository) ListItems(ctx context.Context, poID string) ([]model.PurchaseOrderItem, error) {
	var lines []model.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Supplier").
		Where("po_id = ?", poID).
		Order("created_at asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *purchaseOrderRepository) RemoveItem(ctx context.Context, poID, lineID string) error {
	return r.db.WithContext(ctx).
		Where("po_id = ? AND id = ?", poID, lineID).
		Delete(&model.PurchaseOrderItem{}).Error
}

// NextPONumber produces numbers like PO-25-000118 with a yearly counter
func (r *purchaseOrderRepository) NextPONumber(ctx context.Context) (string, error) {
	year := time.Now().Year() % 100
	prefix := fmt.Sprintf("PO-%02d-", year)

	var count int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Unscoped().
		Where("po_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

func (r *purchaseOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
