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

type CreateQuotationRequest struct {
	ClientID            string `json:"client_id"`
	RequestDate         string `json:"request_date" binding:"required"` // 2006-01-02
	ExpiryDate          string `json:"expiry_date"`
	ResponsibleEmployee string `json:"responsible_employee"`
	CustomRequestNumber string `json:"custom_request_number"`
	Notes               string `json:"notes"`
}

type UpdateQuotationRequest struct {
	ClientID            string `json:"client_id"`
	Status              string `json:"status"`
	ExpiryDate          string `json:"expiry_date"`
	ResponsibleEmployee string `json:"responsible_employee"`
	CustomRequestNumber string `json:"custom_request_number"`
	Notes               string `json:"notes"`
}

type AddQuotationItemRequest struct {
	ItemID     string          `json:"item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   string          `json:"currency"`
	SupplierID string          `json:"supplier_id"`
}

type QuotationItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ItemNumber string          `json:"item_number,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
}

type QuotationResponse struct {
	ID                  uuid.UUID               `json:"id"`
	RequestNumber       string                  `json:"request_number"`
	ClientID            *uuid.UUID              `json:"client_id,omitempty"`
	ClientName          string                  `json:"client_name,omitempty"`
	RequestDate         string                  `json:"request_date"`
	ExpiryDate          string                  `json:"expiry_date,omitempty"`
	Status              string                  `json:"status"`
	ResponsibleEmployee string                  `json:"responsible_employee"`
	CustomRequestNumber string                  `json:"custom_request_number"`
	Notes               string                  `json:"notes"`
	Items               []QuotationItemResponse `json:"items,omitempty"`
	CreatedAt           string                  `json:"created_at"`
}

// QuotationService defines the interface for business logic related to
// quotation requests
type QuotationService interface {
	CreateQuotation(ctx context.Context, req CreateQuotationRequest, createdBy string) (*QuotationResponse, error)
	GetQuotationByID(ctx context.Context, id string) (*QuotationResponse, error)
	ListQuotations(ctx context.Context, status string, page, limit int) ([]QuotationResponse, int64, error)
	UpdateQuotation(ctx context.Context, id string, req UpdateQuotationRequest) (*QuotationResponse, error)
	DeleteQuotation(ctx context.Context, id string) error

	AddItem(ctx context.Context, quotationID string, req AddQuotationItemRequest) (*QuotationItemResponse, error)
	ListItems(ctx context.Context, quotationID string) ([]QuotationItemResponse, error)
	RemoveItem(ctx context.Context, quotationID, lineID string) error
}

type quotationService struct {
	repo  repository.QuotationRepository
	items repository.ItemRepository
}

// NewQuotationService returns a new instance of QuotationService
func NewQuotationService(repo repository.QuotationRepository, items repository.ItemRepository) QuotationService {
	return &quotationService{repo: repo, items: items}
}

func validQuotationStatus(status string) bool {
	switch status {
	case model.QuotationPending, model.QuotationProcessing, model.QuotationCompleted, model.QuotationCancelled:
		return true
	}
	return false
}

func mapQuotationLine(line *model.QuotationItem) QuotationItemResponse {
	res := QuotationItemResponse{
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

func mapQuotationToResponse(q *model.QuotationRequest) *QuotationResponse {
	res := &QuotationResponse{
		ID:                  q.ID,
		RequestNumber:       q.RequestNumber,
		ClientID:            q.ClientID,
		RequestDate:         q.RequestDate.Format("2006-01-02"),
		Status:              q.Status,
		ResponsibleEmployee: q.ResponsibleEmployee,
		CustomRequestNumber: q.CustomRequestNumber,
		Notes:               q.Notes,
		CreatedAt:           q.CreatedAt.Format(time.RFC3339),
	}
	if q.Client != nil {
		res.ClientName = q.Client.Name
	}
	if q.ExpiryDate != nil {
		res.ExpiryDate = q.ExpiryDate.Format("2006-01-02")
	}
	for i := range q.Items {
		res.Items = append(res.Items, mapQuotationLine(&q.Items[i]))
	}
	return res
}

func (s *quotationService) CreateQuotation(ctx context.Context, req CreateQuotationRequest, createdBy string) (*QuotationResponse, error) {
	requestDate, err := time.Parse("2006-01-02", req.RequestDate)
	if err != nil {
		return nil, fmt.Errorf("invalid request_date: %w", err)
	}

	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, errors.New("invalid creator id")
	}

	q := &model.QuotationRequest{
		RequestDate:         requestDate,
		Status:              model.QuotationPending,
		ResponsibleEmployee: req.ResponsibleEmployee,
		CustomRequestNumber: req.CustomRequestNumber,
		Notes:               req.Notes,
		CreatedBy:           creator,
	}
	if req.ClientID != "" {
		cid, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, errors.New("invalid client id")
		}
		q.ClientID = &cid
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		q.ExpiryDate = &expiry
	}

	// The counter-based numbering can hand two concurrent creates the same
	// number; the unique index rejects the loser, so take a fresh number
	// and retry before failing.
	for attempt := 0; ; attempt++ {
		number, err := s.repo.NextRequestNumber(ctx)
		if err != nil {
			return nil, err
		}
		q.RequestNumber = number

		err = s.repo.Create(ctx, q)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 2 {
			return nil, err
		}
	}
	return mapQuotationToResponse(q), nil
}

func (s *quotationService) GetQuotationByID(ctx context.Context, id string) (*QuotationResponse, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("quotation not found")
	}
	return mapQuotationToResponse(q), nil
}

func (s *quotationService) ListQuotations(ctx context.Context, status string, page, limit int) ([]QuotationResponse, int64, error) {
	if status != "" && !validQuotationStatus(status) {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}

	list, total, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]QuotationResponse, 0, len(list))
	for i := range list {
		res = append(res, *mapQuotationToResponse(&list[i]))
	}
	return res, total, nil
}

func (s *quotationService) UpdateQuotation(ctx context.Context, id string, req UpdateQuotationRequest) (*QuotationResponse, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("quotation not found")
	}

	if req.Status != "" {
		if !validQuotationStatus(req.Status) {
			return nil, fmt.Errorf("invalid status %q", req.Status)
		}
		q.Status = req.Status
	}
	if req.ClientID != "" {
		cid, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, errors.New("invalid client id")
		}
		q.ClientID = &cid
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		q.ExpiryDate = &expiry
	}
	if req.ResponsibleEmployee != "" {
		q.ResponsibleEmployee = req.ResponsibleEmployee
	}
	if req.CustomRequestNumber != "" {
		q.CustomRequestNumber = req.CustomRequestNumber
	}
	if req.Notes != "" {
		q.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return mapQuotationToResponse(q), nil
}

func (s *quotationService) DeleteQuotation(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("quotation not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *quotationService) AddItem(ctx context.Context, quotationID string, req AddQuotationItemRequest) (*QuotationItemResponse, error) {
	q, err := s.repo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, errors.New("quotation not found")
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

	currency := req.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	line := &model.QuotationItem{
		QuotationID: q.ID,
		ItemID:      itemID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalPrice:  req.UnitPrice.Mul(req.Quantity),
		Currency:    currency,
	}
	if req.SupplierID != "" {
		sid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, errors.New("invalid supplier id")
		}
		line.SupplierID = &sid
		now := time.Now()
		line.SupplierQuoteDate = &now
	}

	if err := s.repo.AddItem(ctx, line); err != nil {
		return nil, err
	}

	res := mapQuotationLine(line)
	return &res, nil
}

func (s *quotationService) ListItems(ctx context.Context, quotationID string) ([]QuotationItemResponse, error) {
	lines, err := s.repo.ListItems(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	res := make([]QuotationItemResponse, 0, len(lines))
	for i := range lines {
		res = append(res, mapQuotationLine(&lines[i]))
	}
	return res, nil
}

func (s *quotationService) RemoveItem(ctx context.Context, quotationID, lineID string) error {
	return s.repo.RemoveItem(ctx, quotationID, lineID)
}
