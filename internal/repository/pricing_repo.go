package repository

import (
	"context"

	"procurement/internal/model"

	"gorm.io/gorm"
)

// PricingRepository defines the interface for supplier pricing, customer
// pricing, and the shared price change history
type PricingRepository interface {
	CreateSupplierPricing(ctx context.Context, p *model.SupplierPricing) error
	GetSupplierPricing(ctx context.Context, id string) (*model.SupplierPricing, error)
	ListSupplierPricing(ctx context.Context, itemID, supplierID string, page, limit int) ([]model.SupplierPricing, int64, error)
	UpdateSupplierPricing(ctx context.Context, p *model.SupplierPricing) error
	DeleteSupplierPricing(ctx context.Context, id string) error
	SupersedeSupplierPricing(ctx context.Context, itemID, supplierID, exceptID string) error

	CreateCustomerPricing(ctx context.Context, p *model.CustomerPricing) error
	GetCustomerPricing(ctx context.Context, id string) (*model.CustomerPricing, error)
	ListCustomerPricing(ctx context.Context, quotationID string, page, limit int) ([]model.CustomerPricing, int64, error)
	UpdateCustomerPricing(ctx context.Context, p *model.CustomerPricing) error
	DeleteCustomerPricing(ctx context.Context, id string) error

	AddHistory(ctx context.Context, h *model.PricingHistory) error
	ListHistory(ctx context.Context, itemID string, page, limit int) ([]model.PricingHistory, int64, error)
}

type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository returns a new instance of PricingRepository
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) CreateSupplierPricing(ctx context.Context, p *model.SupplierPricing) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pricingRepository) GetSupplierPricing(ctx context.Context, id string) (*model.SupplierPricing, error) {
	var p model.SupplierPricing
	err := r.db.WithContext(ctx).Preload("Item").Preload("Supplier").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pricingRepository) ListSupplierPricing(ctx context.Context, itemID, supplierID string, page, limit int) ([]model.SupplierPricing, int64, error) {
	var list []model.SupplierPricing
	var total int64

	query := r.db.WithContext(ctx).Model(&model.SupplierPricing{})
	if itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	if supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Item").Preload("Supplier").
		Order("price_received_date desc").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *pricingRepository) UpdateSupplierPricing(ctx context.Context, p *model.SupplierPricing) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pricingRepository) DeleteSupplierPricing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SupplierPricing{}).Error
}

// SupersedeSupplierPricing marks all active prices for an item/supplier pair
// as superseded, except the record that replaced them
func (r *pricingRepository) SupersedeSupplierPricing(ctx context.Context, itemID, supplierID, exceptID string) error {
	return r.db.WithContext(ctx).Model(&model.SupplierPricing{}).
		Where("item_id = ? AND supplier_id = ? AND id <> ? AND status = ?",
			itemID, supplierID, exceptID, model.PricingActive).
		Update("status", model.PricingSuperseded).Error
}

func (r *pricingRepository) CreateCustomerPricing(ctx context.Context, p *model.CustomerPricing) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pricingRepository) GetCustomerPricing(ctx context.Context, id string) (*model.CustomerPricing, error) {
	var p model.CustomerPricing
	err := r.db.WithContext(ctx).Preload("Item").Preload("SupplierPricing").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pricingRepository) ListCustomerPricing(ctx context.Context, quotationID string, page, limit int) ([]model.CustomerPricing, int64, error) {
	var list []model.CustomerPricing
	var total int64

	query := r.db.WithContext(ctx).Model(&model.CustomerPricing{})
	if quotationID != "" {
		query = query.Where("quotation_id = ?", quotationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Item").Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *pricingRepository) UpdateCustomerPricing(ctx context.Context, p *model.CustomerPricing) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pricingRepository) DeleteCustomerPricing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CustomerPricing{}).Error
}

func (r *pricingRepository) AddHistory(ctx context.Context, h *model.PricingHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *pricingRepository) ListHistory(ctx context.Context, itemID string, page, limit int) ([]model.PricingHistory, int64, error) {
	var list []model.PricingHistory
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PricingHistory{})
	if itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}
