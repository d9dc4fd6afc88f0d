package service

import (
	"context"
	"fmt"
	"testing"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// numberingQuotationRepo simulates the numbering race: each rejected insert
// stands for a concurrent create that claimed the number first, so the next
// generated number moves forward.
type numberingQuotationRepo struct {
	repository.QuotationRepository
	created   []model.QuotationRequest
	dupesLeft int
	next      int
}

func (f *numberingQuotationRepo) NextRequestNumber(_ context.Context) (string, error) {
	f.next++
	return fmt.Sprintf("26R%06d", f.next), nil
}

func (f *numberingQuotationRepo) Create(_ context.Context, q *model.QuotationRequest) error {
	if f.dupesLeft > 0 {
		f.dupesLeft--
		return gorm.ErrDuplicatedKey
	}
	q.ID = uuid.New()
	f.created = append(f.created, *q)
	return nil
}

func TestCreateQuotationRetriesDuplicateNumber(t *testing.T) {
	repo := &numberingQuotationRepo{dupesLeft: 1}
	svc := NewQuotationService(repo, nil)

	created, err := svc.CreateQuotation(context.Background(), CreateQuotationRequest{
		RequestDate: "2026-09-01",
	}, uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, "26R000002", created.RequestNumber)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "26R000002", repo.created[0].RequestNumber)
}

func TestCreateQuotationGivesUpAfterRepeatedDuplicates(t *testing.T) {
	repo := &numberingQuotationRepo{dupesLeft: 5}
	svc := NewQuotationService(repo, nil)

	_, err := svc.CreateQuotation(context.Background(), CreateQuotationRequest{
		RequestDate: "2026-09-01",
	}, uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Empty(t, repo.created)
}
