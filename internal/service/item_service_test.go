package service

import (
	"context"
	"errors"
	"testing"

	"procurement/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeItemRepo keeps items in memory, indexed the way the real repository
// queries them
type fakeItemRepo struct {
	items []*model.Item
	seq   int64
}

func (f *fakeItemRepo) Create(_ context.Context, item *model.Item) error {
	item.ID = uuid.New()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	for _, it := range f.items {
		if it.ID.String() == id {
			return it, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeItemRepo) GetByItemNumber(_ context.Context, itemNumber string) (*model.Item, error) {
	for _, it := range f.items {
		if it.ItemNumber == itemNumber {
			return it, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeItemRepo) GetByNormalizedPartNumber(_ context.Context, normalized string) (*model.Item, error) {
	for _, it := range f.items {
		if it.NormalizedPartNumber == normalized {
			return it, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeItemRepo) List(_ context.Context, _, _ string, _, _ int) ([]model.Item, int64, error) {
	out := make([]model.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (f *fakeItemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	out, _, err := f.List(ctx, "", "", 1, 0)
	return out, err
}

func (f *fakeItemRepo) Update(_ context.Context, item *model.Item) error {
	for i, it := range f.items {
		if it.ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	for i, it := range f.items {
		if it.ID.String() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

func (f *fakeItemRepo) NextSequence(_ context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func TestNormalizePartNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ab-123 x", "AB123X"},
		{"AB.123X", "AB123X"},
		{"  ab_123/x  ", "AB123X"},
		{"AB123X", "AB123X"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePartNumber(tc.in), "input %q", tc.in)
	}
}

func TestCreateItemAssignsSequentialNumbers(t *testing.T) {
	svc := NewItemService(&fakeItemRepo{})
	ctx := context.Background()

	first, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "AB-100",
		Description: "Hex bolt M8",
		Unit:        model.UnitPiece,
	}, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "P-000001", first.ItemNumber)

	second, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "AB-200",
		Description: "Hex nut M8",
		Unit:        model.UnitPiece,
	}, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "P-000002", second.ItemNumber)
}

func TestCreateItemRejectsInvalidUnit(t *testing.T) {
	svc := NewItemService(&fakeItemRepo{})

	_, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Description: "Cable tie",
		Unit:        "Bundle",
	}, uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unit")
}

func TestCreateItemDetectsNormalizedDuplicates(t *testing.T) {
	svc := NewItemService(&fakeItemRepo{})
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "AB-123 X",
		Description: "Sensor bracket",
		Unit:        model.UnitEach,
	}, uuid.NewString())
	require.NoError(t, err)

	// Different punctuation, same canonical part number
	_, err = svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "ab.123x",
		Description: "Sensor bracket duplicate",
		Unit:        model.UnitEach,
	}, uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePartNumber)
}

func TestUpdateItemRenormalizesPartNumber(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewItemService(repo)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "CD-500",
		Description: "Terminal block",
		Unit:        model.UnitSet,
	}, uuid.NewString())
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, created.ID.String(), UpdateItemRequest{
		PartNumber: "cd-500/b",
	})
	require.NoError(t, err)
	assert.Equal(t, "CD500B", updated.NormalizedPartNumber)
	// Item number never changes after assignment
	assert.Equal(t, created.ItemNumber, updated.ItemNumber)
}

func TestUpdateItemRejectsCollidingPartNumber(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewItemService(repo)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "EF-700",
		Description: "Relay base",
		Unit:        model.UnitEach,
	}, uuid.NewString())
	require.NoError(t, err)

	other, err := svc.CreateItem(ctx, CreateItemRequest{
		PartNumber:  "EF-800",
		Description: "Relay cover",
		Unit:        model.UnitEach,
	}, uuid.NewString())
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, other.ID.String(), UpdateItemRequest{
		PartNumber: "ef 700",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePartNumber)
}
