package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type numberingPORepo struct {
	repository.PurchaseOrderRepository
	created   []model.PurchaseOrder
	dupesLeft int
	next      int
}

func (f *numberingPORepo) NextPONumber(_ context.Context) (string, error) {
	f.next++
	return fmt.Sprintf("PO-26-%06d", f.next), nil
}

func (f *numberingPORepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if f.dupesLeft > 0 {
		f.dupesLeft--
		return gorm.ErrDuplicatedKey
	}
	po.ID = uuid.New()
	f.created = append(f.created, *po)
	return nil
}

type quotationByIDStub struct {
	repository.QuotationRepository
	q *model.QuotationRequest
}

func (s *quotationByIDStub) GetByID(_ context.Context, _ string) (*model.QuotationRequest, error) {
	return s.q, nil
}

func TestCreatePurchaseOrderRetriesDuplicateNumber(t *testing.T) {
	repo := &numberingPORepo{dupesLeft: 1}
	quotations := &quotationByIDStub{q: &model.QuotationRequest{
		ID:            uuid.New(),
		RequestNumber: "26R000001",
		RequestDate:   time.Now(),
		Status:        model.QuotationProcessing,
	}}
	svc := NewPurchaseOrderService(repo, quotations, nil)

	created, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderRequest{
		QuotationID: quotations.q.ID.String(),
	}, uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, "PO-26-000002", created.PONumber)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "PO-26-000002", repo.created[0].PONumber)
}

func TestCreatePurchaseOrderGivesUpAfterRepeatedDuplicates(t *testing.T) {
	repo := &numberingPORepo{dupesLeft: 5}
	quotations := &quotationByIDStub{q: &model.QuotationRequest{
		ID:     uuid.New(),
		Status: model.QuotationProcessing,
	}}
	svc := NewPurchaseOrderService(repo, quotations, nil)

	_, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderRequest{
		QuotationID: quotations.q.ID.String(),
	}, uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Empty(t, repo.created)
}
