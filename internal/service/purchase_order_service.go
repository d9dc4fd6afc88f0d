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
	"gorm.io/gorm"
)

type CreatePurchaseOrderRequest struct {
	QuotationID string `json:"quotation_id" binding:"required"`
	PODate      string `json:"po_date"` // 2006-01-02, defaults to today
}

type UpdatePurchaseOrderRequest struct {
	Status         string `json:"status"`
	DeliveryStatus *bool  `json:"delivery_status"`
	InvoiceIssued  *bool  `json:"invoice_issued"`
}

type AddPurchaseOrderItemRequest struct {
	ItemID     string          `json:"item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price" binding:"required"`
	Currency   string          `json:"currency"`
	SupplierID string          `json:"supplier_id"`
}

type PurchaseOrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ItemNumber string          `json:"item_number,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
}

type PurchaseOrderResponse struct {
	ID             uuid.UUID                   `json:"id"`
	PONumber       string                      `json:"po_number"`
	QuotationID    uuid.UUID                   `json:"quotation_id"`
	RequestNumber  string                      `json:"request_number,omitempty"`
	PODate         string                      `json:"po_date"`
	Status         string                      `json:"status"`
	TotalValue     decimal.Decimal             `json:"total_value"`
	DeliveryStatus bool                        `json:"delivery_status"`
	InvoiceIssued  bool                        `json:"invoice_issued"`
	Items          []PurchaseOrderItemResponse `json:"items,omitempty"`
	CreatedAt      string                      `json:"created_at"`
}

// PurchaseOrderService defines the interface for business logic related to
// purchase orders
type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest, createdBy string) (*PurchaseOrderResponse, error)
	GetPurchaseOrderByID(ctx context.Context, id string) (*PurchaseOrderResponse, error)
	ListPurchaseOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error)
	UpdatePurchaseOrder(ctx context.Context, id string, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error)
	DeletePurchaseOrder(ctx context.Context, id string) error

	AddItem(ctx context.Context, poID string, req AddPurchaseOrderItemRequest) (*PurchaseOrderItemResponse, error)
	ListItems(ctx context.Context, poID string) ([]PurchaseOrderItemResponse, error)
	RemoveItem(ctx context.Context, poID, lineID string) error
}

type purchaseOrderService struct {
	repo       repository.PurchaseOrderRepository
	quotations repository.QuotationRepository
	items      repository.ItemRepository
}

// NewPurchaseOrderService returns a new instance of PurchaseOrderService
func NewPurchaseOrderService(repo repository.PurchaseOrderRepository, quotations repository.QuotationRepository, items repository.ItemRepository) PurchaseOrderService {
	return &purchaseOrderService{repo: repo, quotations: quotations, items: items}
}

func validPOStatus(status string) bool {
	switch status {
	case model.POPending, model.POConfirmed, model.PODelivered, model.POInvoiced:
		return true
	}
	return false
}

func mapPOLine(line *model.PurchaseOrderItem) PurchaseOrderItemResponse {
	res := PurchaseOrderItemResponse{
		ID:         line.ID,
		ItemID:     line.ItemID,
		Quantity:   line.Quantity,
		UnitPrice:  line.UnitPrice,
		TotalPrice: line.TotalPrice,
		Currency:   line.Currency,
		SupplierID: line.SupplierID,
	}
	if line.Item != nil {
		res.ItemNumber = line.Item.ItemNumber
	}
	return res
}

func mapPOToResponse(po *model.PurchaseOrder) *PurchaseOrderResponse {
	res := &PurchaseOrderResponse{
		ID:             po.ID,
		PONumber:       po.PONumber,
		QuotationID:    po.QuotationID,
		PODate:         po.PODate.Format("2006-01-02"),
		Status:         po.Status,
		TotalValue:     po.TotalValue,
		DeliveryStatus: po.DeliveryStatus,
		InvoiceIssued:  po.InvoiceIssued,
		CreatedAt:      po.CreatedAt.Format(time.RFC3339),
	}
	if po.Quotation != nil {
		res.RequestNumber = po.Quotation.RequestNumber
	}
	for i := range po.Items {
		res.Items = append(res.Items, mapPOLine(&po.Items[i]))
	}
	return res
}

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest, createdBy string) (*PurchaseOrderResponse, error) {
	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, errors.New("invalid creator id")
	}

	quotation, err := s.quotations.GetByID(ctx, req.QuotationID)
	if err != nil {
		return nil, errors.New("quotation not found")
	}

	poDate := time.Now()
	if req.PODate != "" {
		poDate, err = time.Parse("2006-01-02", req.PODate)
		if err != nil {
			return nil, fmt.Errorf("invalid po_date: %w", err)
		}
	}

	po := &model.PurchaseOrder{
		QuotationID: quotation.ID,
		PODate:      poDate,
		Status:      model.POPending,
		TotalValue:  decimal.Zero,
		CreatedBy:   creator,
	}
	// Same numbering race as quotations: retry on a duplicate PO number.
	for attempt := 0; ; attempt++ {
		number, err := s.repo.NextPONumber(ctx)
		if err != nil {
			return nil, err
		}
		po.PONumber = number

		err = s.repo.Create(ctx, po)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 2 {
			return nil, err
		}
	}
	return mapPOToResponse(po), nil
}

func (s *purchaseOrderService) GetPurchaseOrderByID(ctx context.Context, id string) (*PurchaseOrderResponse, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}
	return mapPOToResponse(po), nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, status string, page, limit int) ([]PurchaseOrderResponse, int64, error) {
	if status != "" && !validPOStatus(status) {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}

	list, total, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PurchaseOrderResponse, 0, len(list))
	for i := range list {
		res = append(res, *mapPOToResponse(&list[i]))
	}
	return res, total, nil
}

func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, id string, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}

	if req.Status != "" {
		if !validPOStatus(req.Status) {
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
		po.Status = req.Status
	}
	if req.DeliveryStatus != nil {
		po.DeliveryStatus = *req.DeliveryStatus
		if po.DeliveryStatus && po.Status == model.POConfirmed {
			po.Status = model.PODelivered
		}
	}
	if req.InvoiceIssued != nil {
		po.InvoiceIssued = *req.InvoiceIssued
		if po.InvoiceIssued && po.Status == model.PODelivered {
			po.Status = model.POInvoiced
		}
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return mapPOToResponse(po), nil
}

func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("purchase order not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *purchaseOrderService) AddItem(ctx context.Context, poID string, req AddPurchaseOrderItemRequest) (*PurchaseOrderItemResponse, error) {
	po, err := s.repo.GetByID(ctx, poID)
	if err != nil {
		return nil, errors.New("purchase order not found")
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, errors.New("invalid item id")
	}
	if _, err := s.items.GetByID(ctx, req.ItemID); err != nil {
		return nil, errors.New("item not found")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return nil, errors.New("unit price cannot be negative")
	}

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	line := &model.PurchaseOrderItem{
		POID:       po.ID,
		ItemID:     itemID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.UnitPrice.Mul(req.Quantity),
		Currency:   currency,
	}
	if req.SupplierID != "" {
		sid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier id")
		}
		line.SupplierID = &sid
	}

	if err := s.repo.AddItem(ctx, line); err != nil {
		return nil, err
	}

	// Keep the header total in sync with the lines
	po.TotalValue = po.TotalValue.Add(line.TotalPrice)
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}

	res := mapPOLine(line)
	return &res, nil
}

func (s *purchaseOrderService) ListItems(ctx context.Context, poID string) ([]PurchaseOrderItemResponse, error) {
	lines, err := s.repo.ListItems(ctx, poID)
	if err != nil {
		return nil, err
	}

	res := make([]PurchaseOrderItemResponse, 0, len(lines))
	for i := range lines {
		res = append(res, mapPOLine(&lines[i]))
	}
	return res, nil
}

func (s *purchaseOrderService) RemoveItem(ctx context.Context, poID, lineID string) error {
	po, err := s.repo.GetByID(ctx, poID)
	if err != nil {
		return errors.New("purchase order not found")
	}

	lines, err := s.repo.ListItems(ctx, poID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ID.String() == lineID {
			po.TotalValue = po.TotalValue.Sub(lines[i].TotalPrice)
			break
		}
	}

	if err := s.repo.RemoveItem(ctx, poID, lineID); err != nil {
		return err
	}
	return s.repo.Update(ctx, po)
}
