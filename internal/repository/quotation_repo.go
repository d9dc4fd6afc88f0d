package repository

import (
	"context"
	"fmt"
	"time"

	"procurement/internal/model"

	"gorm.io/gorm"
)

// QuotationRepository defines the interface for data access of quotation requests
type QuotationRepository interface {
	Create(ctx context.Context, q *model.QuotationRequest) error
	GetByID(ctx context.Context, id string) (*model.QuotationRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]model.QuotationRequest, int64, error)
	ListAll(ctx context.Context) ([]model.QuotationRequest, error)
	Update(ctx context.Context, q *model.QuotationRequest) error
	Delete(ctx context.Context, id string) error

	AddItem(ctx context.Context, line *model.QuotationItem) error
	ListItems(ctx context.Context, quotationID string) ([]model.QuotationItem, error)
	RemoveItem(ctx context.Context, quotationID, lineID string) error

	NextRequestNumber(ctx context.Context) (string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository returns a new instance of QuotationRepository
func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, q *model.QuotationRequest) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id string) (*model.QuotationRequest, error) {
	var q model.QuotationRequest
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Preload("Items.Item").
		Preload("Items.Supplier").
		First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) List(ctx context.Context, status string, page, limit int) ([]model.QuotationRequest, int64, error) {
	var list []model.QuotationRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&model.QuotationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Client").Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *quotationRepository) ListAll(ctx context.Context) ([]model.QuotationRequest, error) {
	var list []model.QuotationRequest
	if err := r.db.WithContext(ctx).Preload("Client").Order("request_number asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *quotationRepository) Update(ctx context.Context, q *model.QuotationRequest) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *quotationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.QuotationRequest{}).Error
}

func (r *quotationRepository) AddItem(ctx context.Context, line *model.QuotationItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *quotationRepository) ListItems(ctx context.Context, quotationID string) ([]model.QuotationItem, error) {
	var lines []model.QuotationItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Supplier").
		Where("quotation_id = ?", quotationID).
		Order("created_at asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *quotationRepository) RemoveItem(ctx context.Context, quotationID, lineID string) error {
	return r.db.WithContext(ctx).
		Where("quotation_id = ? AND id = ?", quotationID, lineID).
		Delete(&model.QuotationItem{}).Error
}

// NextRequestNumber produces numbers like 25R000244: two-digit year, a
// literal R, and a six-digit counter that resets each year.
func (r *quotationRepository) NextRequestNumber(ctx context.Context) (string, error) {
	year := time.Now().Year() % 100
	prefix := fmt.Sprintf("%02dR", year)

	var count int64
	err := r.db.WithContext(ctx).Model(&model.QuotationRequest{}).Unscoped().
		Where("request_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

func (r *quotationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.QuotationRequest{}).
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
