package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateSupplierPricingRequest struct {
	ItemID               string          `json:"item_id" binding:"required"`
	SupplierID           string          `json:"supplier_id"`
	UnitPrice            decimal.Decimal `json:"unit_price" binding:"required"`
	Currency             string          `json:"currency"`
	PriceReceivedDate    string          `json:"price_received_date"` // 2006-01-02
	ValidityPeriod       int             `json:"validity_period"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	DeliveryTime         int             `json:"delivery_time"`
	PaymentTerms         string          `json:"payment_terms"`
	Notes                string          `json:"notes"`
	QuotationRequestID   string          `json:"quotation_request_id"`
}

type UpdateSupplierPricingRequest struct {
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	Status       string           `json:"status"`
	IsSelected   *bool            `json:"is_selected"`
	Notes        string           `json:"notes"`
	ChangeReason string           `json:"change_reason"`
}

type SupplierPricingResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ItemID               uuid.UUID       `json:"item_id"`
	ItemNumber           string          `json:"item_number,omitempty"`
	SupplierID           *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName         string          `json:"supplier_name,omitempty"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Currency             string          `json:"currency"`
	PriceReceivedDate    string          `json:"price_received_date"`
	ValidityPeriod       int             `json:"validity_period"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity"`
	DeliveryTime         int             `json:"delivery_time"`
	PaymentTerms         string          `json:"payment_terms,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	Status               string          `json:"status"`
	IsSelected           bool            `json:"is_selected"`
	CreatedAt            string          `json:"created_at"`
}

type CreateCustomerPricingRequest struct {
	ItemID            string          `json:"item_id" binding:"required"`
	QuotationID       string          `json:"quotation_id"`
	SupplierPricingID string          `json:"supplier_pricing_id"`
	CostPrice         decimal.Decimal `json:"cost_price" binding:"required"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	Currency          string          `json:"currency"`
	Quantity          int             `json:"quantity" binding:"required,min=1"`
	Notes             string          `json:"notes"`
}

type CustomerPricingResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	ItemNumber   string          `json:"item_number,omitempty"`
	QuotationID  *uuid.UUID      `json:"quotation_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Currency     string          `json:"currency"`
	Quantity     int             `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Notes        string          `json:"notes,omitempty"`
	Status       string          `json:"status"`
	ApprovedBy   *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt   string          `json:"approved_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type PricingHistoryResponse struct {
	ID           uuid.UUID        `json:"id"`
	ItemID       uuid.UUID        `json:"item_id"`
	PriceType    string           `json:"price_type"`
	ReferenceID  uuid.UUID        `json:"reference_id"`
	OldPrice     *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice     decimal.Decimal  `json:"new_price"`
	ChangeReason string           `json:"change_reason,omitempty"`
	ChangedBy    uuid.UUID        `json:"changed_by"`
	CreatedAt    string           `json:"created_at"`
}

// PricingService defines the interface for business logic related to supplier
// and customer pricing
type PricingService interface {
	CreateSupplierPricing(ctx context.Context, req CreateSupplierPricingRequest, createdBy string) (*SupplierPricingResponse, error)
	ListSupplierPricing(ctx context.Context, itemID, supplierID string, page, limit int) ([]SupplierPricingResponse, int64, error)
	UpdateSupplierPricing(ctx context.Context, id string, req UpdateSupplierPricingRequest, changedBy string) (*SupplierPricingResponse, error)
	DeleteSupplierPricing(ctx context.Context, id string) error

	CreateCustomerPricing(ctx context.Context, req CreateCustomerPricingRequest, createdBy string) (*CustomerPricingResponse, error)
	ListCustomerPricing(ctx context.Context, quotationID string, page, limit int) ([]CustomerPricingResponse, int64, error)
	ApproveCustomerPricing(ctx context.Context, id string, approvedBy string) (*CustomerPricingResponse, error)
	RejectCustomerPricing(ctx context.Context, id string, rejectedBy string) (*CustomerPricingResponse, error)

	ListHistory(ctx context.Context, itemID string, page, limit int) ([]PricingHistoryResponse, int64, error)
}

type pricingService struct {
	repo  repository.PricingRepository
	items repository.ItemRepository
	log   *zap.Logger
}

// NewPricingService returns a new instance of PricingService
func NewPricingService(repo repository.PricingRepository, items repository.ItemRepository, log *zap.Logger) PricingService {
	return &pricingService{repo: repo, items: items, log: log}
}

func mapSupplierPricing(p *model.SupplierPricing) *SupplierPricingResponse {
	res := &SupplierPricingResponse{
		ID:                   p.ID,
		ItemID:               p.ItemID,
		SupplierID:           p.SupplierID,
		UnitPrice:            p.UnitPrice,
		Currency:             p.Currency,
		PriceReceivedDate:    p.PriceReceivedDate.Format("2006-01-02"),
		ValidityPeriod:       p.ValidityPeriod,
		MinimumOrderQuantity: p.MinimumOrderQuantity,
		DeliveryTime:         p.DeliveryTime,
		PaymentTerms:         p.PaymentTerms,
		Notes:                p.Notes,
		Status:               p.Status,
		IsSelected:           p.IsSelected,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
	if p.Item != nil {
		res.ItemNumber = p.Item.ItemNumber
	}
	if p.Supplier != nil {
		res.SupplierName = p.Supplier.Name
	}
	return res
}

func mapCustomerPricing(p *model.CustomerPricing) *CustomerPricingResponse {
	res := &CustomerPricingResponse{
		ID:           p.ID,
		ItemID:       p.ItemID,
		QuotationID:  p.QuotationID,
		CostPrice:    p.CostPrice,
		ProfitMargin: p.ProfitMargin,
		SellingPrice: p.SellingPrice,
		Currency:     p.Currency,
		Quantity:     p.Quantity,
		TotalAmount:  p.TotalAmount,
		Notes:        p.Notes,
		Status:       p.Status,
		ApprovedBy:   p.ApprovedBy,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
	if p.Item != nil {
		res.ItemNumber = p.Item.ItemNumber
	}
	if p.ApprovedAt != nil {
		res.ApprovedAt = p.ApprovedAt.Format(time.RFC3339)
	}
	return res
}

func (s *pricingService) CreateSupplierPricing(ctx context.Context, req CreateSupplierPricingRequest, createdBy string) (*SupplierPricingResponse, error) {
	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, errors.New("invalid creator id")
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, errors.New("invalid item id")
	}
	if _, err := s.items.GetByID(ctx, req.ItemID); err != nil {
		return nil, errors.New("item not found")
	}
	if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("unit price must be positive")
	}

	received := time.Now()
	if req.PriceReceivedDate != "" {
		received, err = time.Parse("2006-01-02", req.PriceReceivedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid price_received_date: %w", err)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	pricing := &model.SupplierPricing{
		ItemID:               itemID,
		UnitPrice:            req.UnitPrice,
		Currency:             currency,
		PriceReceivedDate:    received,
		ValidityPeriod:       req.ValidityPeriod,
		MinimumOrderQuantity: req.MinimumOrderQuantity,
		DeliveryTime:         req.DeliveryTime,
		PaymentTerms:         req.PaymentTerms,
		Notes:                req.Notes,
		Status:               model.PricingActive,
		CreatedBy:            creator,
	}
	if req.SupplierID != "" {
		sid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier id")
		}
		pricing.SupplierID = &sid
	}
	if req.QuotationRequestID != "" {
		qid, err := uuid.Parse(req.QuotationRequestID)
		if err != nil {
			return nil, errors.New("invalid quotation request id")
		}
		pricing.QuotationRequestID = &qid
	}

	if err := s.repo.CreateSupplierPricing(ctx, pricing); err != nil {
		return nil, err
	}

	// A new price for the same item/supplier pair replaces earlier active ones
	if pricing.SupplierID != nil {
		if err := s.repo.SupersedeSupplierPricing(ctx, req.ItemID, pricing.SupplierID.String(), pricing.ID.String()); err != nil {
			s.log.Warn("failed to supersede earlier supplier prices",
				zap.String("item_id", req.ItemID), zap.Error(err))
		}
	}

	history := &model.PricingHistory{
		ItemID:      itemID,
		PriceType:   model.PriceTypeSupplier,
		ReferenceID: pricing.ID,
		NewPrice:    pricing.UnitPrice,
		ChangedBy:   creator,
	}
	if err := s.repo.AddHistory(ctx, history); err != nil {
		s.log.Warn("failed to record pricing history", zap.Error(err))
	}

	return mapSupplierPricing(pricing), nil
}

func (s *pricingService) ListSupplierPricing(ctx context.Context, itemID, supplierID string, page, limit int) ([]SupplierPricingResponse, int64, error) {
	list, total, err := s.repo.ListSupplierPricing(ctx, itemID, supplierID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]SupplierPricingResponse, 0, len(list))
	for i := range list {
		res = append(res, *mapSupplierPricing(&list[i]))
	}
	return res, total, nil
}

func (s *pricingService) UpdateSupplierPricing(ctx context.Context, id string, req UpdateSupplierPricingRequest, changedBy string) (*SupplierPricingResponse, error) {
	changer, err := uuid.Parse(changedBy)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	pricing, err := s.repo.GetSupplierPricing(ctx, id)
	if err != nil {
		return nil, errors.New("supplier pricing not found")
	}

	var oldPrice *decimal.Decimal
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("unit price must be positive")
		}
		if !req.UnitPrice.Equal(pricing.UnitPrice) {
			prev := pricing.UnitPrice
			oldPrice = &prev
			pricing.UnitPrice = *req.UnitPrice
		}
	}
	if req.Status != "" {
		switch req.Status {
		case model.PricingActive, model.PricingExpired, model.PricingSuperseded:
			pricing.Status = req.Status
		default:
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
	}
	if req.IsSelected != nil {
		pricing.IsSelected = *req.IsSelected
	}
	if req.Notes != "" {
		pricing.Notes = req.Notes
	}

	if err := s.repo.UpdateSupplierPricing(ctx, pricing); err != nil {
		return nil, err
	}

	if oldPrice != nil {
		history := &model.PricingHistory{
			ItemID:       pricing.ItemID,
			PriceType:    model.PriceTypeSupplier,
			ReferenceID:  pricing.ID,
			OldPrice:     oldPrice,
			NewPrice:     pricing.UnitPrice,
			ChangeReason: req.ChangeReason,
			ChangedBy:    changer,
		}
		if err := s.repo.AddHistory(ctx, history); err != nil {
			s.log.Warn("failed to record pricing history", zap.Error(err))
		}
	}

	return mapSupplierPricing(pricing), nil
}

func (s *pricingService) DeleteSupplierPricing(ctx context.Context, id string) error {
	if _, err := s.repo.GetSupplierPricing(ctx, id); err != nil {
		return errors.New("supplier pricing not found")
	}
	return s.repo.DeleteSupplierPricing(ctx, id)
}

func (s *pricingService) CreateCustomerPricing(ctx context.Context, req CreateCustomerPricingRequest, createdBy string) (*CustomerPricingResponse, error) {
	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, errors.New("invalid creator id")
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, errors.New("invalid item id")
	}
	if _, err := s.items.GetByID(ctx, req.ItemID); err != nil {
		return nil, errors.New("item not found")
	}
	if req.CostPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("cost price must be positive")
	}
	if req.ProfitMargin.IsNegative() {
		return nil, errors.New("profit margin cannot be negative")
	}

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	// selling = cost * (1 + margin/100), rounded to currency precision
	hundred := decimal.NewFromInt(100)
	selling := req.CostPrice.Mul(hundred.Add(req.ProfitMargin)).Div(hundred).Round(2)
	total := selling.Mul(decimal.NewFromInt(int64(req.Quantity)))

	pricing := &model.CustomerPricing{
		ItemID:       itemID,
		CostPrice:    req.CostPrice,
		ProfitMargin: req.ProfitMargin,
		SellingPrice: selling,
		Currency:     currency,
		Quantity:     req.Quantity,
		TotalAmount:  total,
		Notes:        req.Notes,
		Status:       model.CustomerPricingPending,
		CreatedBy:    creator,
	}
	if req.QuotationID != "" {
		qid, err := uuid.Parse(req.QuotationID)
		if err != nil {
			return nil, errors.New("invalid quotation id")
		}
		pricing.QuotationID = &qid
	}
	if req.SupplierPricingID != "" {
		spid, err := uuid.Parse(req.SupplierPricingID)
		if err != nil {
			return nil, errors.New("invalid supplier pricing id")
		}
		pricing.SupplierPricingID = &spid
	}

	if err := s.repo.CreateCustomerPricing(ctx, pricing); err != nil {
		return nil, err
	}

	history := &model.PricingHistory{
		ItemID:      itemID,
		PriceType:   model.PriceTypeCustomer,
		ReferenceID: pricing.ID,
		NewPrice:    selling,
		ChangedBy:   creator,
	}
	if err := s.repo.AddHistory(ctx, history); err != nil {
		s.log.Warn("failed to record pricing history", zap.Error(err))
	}

	return mapCustomerPricing(pricing), nil
}

func (s *pricingService) ListCustomerPricing(ctx context.Context, quotationID string, page, limit int) ([]CustomerPricingResponse, int64, error) {
	list, total, err := s.repo.ListCustomerPricing(ctx, quotationID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]CustomerPricingResponse, 0, len(list))
	for i := range list {
		res = append(res, *mapCustomerPricing(&list[i]))
	}
	return res, total, nil
}

func (s *pricingService) setCustomerPricingStatus(ctx context.Context, id, userID, status string) (*CustomerPricingResponse, error) {
	approver, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	pricing, err := s.repo.GetCustomerPricing(ctx, id)
	if err != nil {
		return nil, errors.New("customer pricing not found")
	}
	if pricing.Status != model.CustomerPricingPending {
		return nil, fmt.Errorf("customer pricing is already %s", pricing.Status)
	}

	now := time.Now()
	pricing.Status = status
	pricing.ApprovedBy = &approver
	pricing.ApprovedAt = &now

	if err := s.repo.UpdateCustomerPricing(ctx, pricing); err != nil {
		return nil, err
	}
	return mapCustomerPricing(pricing), nil
}

func (s *pricingService) ApproveCustomerPricing(ctx context.Context, id string, approvedBy string) (*CustomerPricingResponse, error) {
	return s.setCustomerPricingStatus(ctx, id, approvedBy, model.CustomerPricingApproved)
}

func (s *pricingService) RejectCustomerPricing(ctx context.Context, id string, rejectedBy string) (*CustomerPricingResponse, error) {
	return s.setCustomerPricingStatus(ctx, id, rejectedBy, model.CustomerPricingRejected)
}

func (s *pricingService) ListHistory(ctx context.Context, itemID string, page, limit int) ([]PricingHistoryResponse, int64, error) {
	list, total, err := s.repo.ListHistory(ctx, itemID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PricingHistoryResponse, 0, len(list))
	for i := range list {
		h := &list[i]
		res = append(res, PricingHistoryResponse{
			ID:           h.ID,
			ItemID:       h.ItemID,
			PriceType:    h.PriceType,
			ReferenceID:  h.ReferenceID,
			OldPrice:     h.OldPrice,
			NewPrice:     h.NewPrice,
			ChangeReason: h.ChangeReason,
			ChangedBy:    h.ChangedBy,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}
