package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	PartNumber  string `json:"part_number"`
	LineItem    string `json:"line_item"`
	Description string `json:"description" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
}

type UpdateItemRequest struct {
	PartNumber  string `json:"part_number"`
	LineItem    string `json:"line_item"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
}

type ItemResponse struct {
	ID                   uuid.UUID `json:"id"`
	ItemNumber           string    `json:"item_number"`
	PartNumber           string    `json:"part_number"`
	NormalizedPartNumber string    `json:"normalized_part_number"`
	LineItem             string    `json:"line_item"`
	Description          string    `json:"description"`
	Unit                 string    `json:"unit"`
	Category             string    `json:"category"`
	Brand                string    `json:"brand"`
	CreatedAt            string    `json:"created_at"`
	UpdatedAt            string    `json:"updated_at"`
}

// ItemService defines the interface for business logic related to catalogue items
type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest, createdBy string) (*ItemResponse, error)
	GetItemByID(ctx context.Context, id string) (*ItemResponse, error)
	ListItems(ctx context.Context, search, category string, page, limit int) ([]ItemResponse, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
}

type itemService struct {
	repo repository.ItemRepository
}

// NewItemService returns a new instance of ItemService
func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizePartNumber canonicalizes a manufacturer part number for duplicate
// lookups: uppercase, separators and whitespace stripped. "ab-123 x" and
// "AB.123X" normalize to the same key.
func NormalizePartNumber(partNumber string) string {
	upper := strings.ToUpper(strings.TrimSpace(partNumber))
	return nonAlphanumeric.ReplaceAllString(upper, "")
}

func mapItemToResponse(i *model.Item) *ItemResponse {
	return &ItemResponse{
		ID:                   i.ID,
		ItemNumber:           i.ItemNumber,
		PartNumber:           i.PartNumber,
		NormalizedPartNumber: i.NormalizedPartNumber,
		LineItem:             i.LineItem,
		Description:          i.Description,
		Unit:                 i.Unit,
		Category:             i.Category,
		Brand:                i.Brand,
		CreatedAt:            i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            i.UpdatedAt.Format(time.RFC3339),
	}
}

// ErrDuplicatePartNumber is returned when a normalized part number collides
// with an existing item
var ErrDuplicatePartNumber = errors.New("an item with this part number already exists")

func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest, createdBy string) (*ItemResponse, error) {
	if !model.ValidUnit(req.Unit) {
		return nil, fmt.Errorf("invalid unit %q: must be one of %s", req.Unit, strings.Join(model.Units, ", "))
	}

	normalized := NormalizePartNumber(req.PartNumber)
	if normalized != "" {
		if existing, err := s.repo.GetByNormalizedPartNumber(ctx, normalized); err == nil {
			return nil, fmt.Errorf("%w: %q is catalogued as %s", ErrDuplicatePartNumber, req.PartNumber, existing.ItemNumber)
		}
	}

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		ItemNumber:           fmt.Sprintf("P-%06d", seq),
		PartNumber:           req.PartNumber,
		NormalizedPartNumber: normalized,
		LineItem:             req.LineItem,
		Description:          req.Description,
		Unit:                 req.Unit,
		Category:             req.Category,
		Brand:                req.Brand,
	}
	if uid, err := uuid.Parse(createdBy); err == nil {
		item.CreatedBy = &uid
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return mapItemToResponse(item), nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("item not found")
	}
	return mapItemToResponse(item), nil
}

func (s *itemService) ListItems(ctx context.Context, search, category string, page, limit int) ([]ItemResponse, int64, error) {
	items, total, err := s.repo.List(ctx, search, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, *mapItemToResponse(&items[i]))
	}
	return res, total, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("item not found")
	}

	if req.Unit != "" {
		if !model.ValidUnit(req.Unit) {
			return nil, fmt.Errorf("invalid unit %q", req.Unit)
		}
		item.Unit = req.Unit
	}
	if req.PartNumber != "" && req.PartNumber != item.PartNumber {
		normalized := NormalizePartNumber(req.PartNumber)
		if existing, err := s.repo.GetByNormalizedPartNumber(ctx, normalized); err == nil && existing.ID != item.ID {
			return nil, fmt.Errorf("%w: %q is catalogued as %s", ErrDuplicatePartNumber, req.PartNumber, existing.ItemNumber)
		}
		item.PartNumber = req.PartNumber
		item.NormalizedPartNumber = normalized
	}
	if req.LineItem != "" {
		item.LineItem = req.LineItem
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Brand != "" {
		item.Brand = req.Brand
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return mapItemToResponse(item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("item not found")
	}
	return s.repo.Delete(ctx, id)
}
