package service

import (
	"context"

	"procurement/internal/repository"
)

type StatisticsResponse struct {
	Totals                 repository.Counts `json:"totals"`
	QuotationsByStatus     map[string]int64  `json:"quotations_by_status"`
	PurchaseOrdersByStatus map[string]int64  `json:"purchase_orders_by_status"`
}

// StatisticsService defines the interface for dashboard statistics
type StatisticsService interface {
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
}

type statisticsService struct {
	activity   repository.ActivityRepository
	quotations repository.QuotationRepository
	orders     repository.PurchaseOrderRepository
}

// NewStatisticsService returns a new instance of StatisticsService
func NewStatisticsService(activity repository.ActivityRepository, quotations repository.QuotationRepository, orders repository.PurchaseOrderRepository) StatisticsService {
	return &statisticsService{activity: activity, quotations: quotations, orders: orders}
}

func (s *statisticsService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	totals, err := s.activity.CountEntities(ctx)
	if err != nil {
		return nil, err
	}

	quotationStatus, err := s.quotations.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	orderStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &StatisticsResponse{
		Totals:                 totals,
		QuotationsByStatus:     quotationStatus,
		PurchaseOrdersByStatus: orderStatus,
	}, nil
}
