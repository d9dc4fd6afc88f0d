package service

import (
	"context"
	"strings"
	"testing"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeStatistics struct {
	response StatisticsResponse
}

func (f *fakeStatistics) GetStatistics(_ context.Context) (*StatisticsResponse, error) {
	return &f.response, nil
}

func TestExportItemsProducesReadableWorkbook(t *testing.T) {
	repo := &fakeItemRepo{}
	require.NoError(t, repo.Create(context.Background(), &model.Item{
		ItemNumber:  "P-000001",
		PartNumber:  "AB-100",
		Description: "Hex bolt M8",
		Unit:        model.UnitPiece,
		Category:    "Fasteners",
	}))
	require.NoError(t, repo.Create(context.Background(), &model.Item{
		ItemNumber:  "P-000002",
		PartNumber:  "AB-200",
		Description: "Hex nut M8",
		Unit:        model.UnitPiece,
	}))

	svc := NewExportService(repo, nil, nil, &fakeStatistics{}, zap.NewNop())

	buf, name, err := svc.ExportItems(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "items_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 items

	assert.Equal(t, "Item Number", rows[0][0])
	assert.Equal(t, "P-000001", rows[1][0])
	assert.Equal(t, "Hex bolt M8", rows[1][2])
	assert.Equal(t, "P-000002", rows[2][0])
}

func TestExportSummaryListsTotalsAndStatuses(t *testing.T) {
	stats := &fakeStatistics{response: StatisticsResponse{
		Totals: repository.Counts{
			Clients: 3,
			Items:   42,
		},
		QuotationsByStatus:     map[string]int64{"pending": 5},
		PurchaseOrdersByStatus: map[string]int64{"confirmed": 2},
	}}

	svc := NewExportService(&fakeItemRepo{}, nil, nil, stats, zap.NewNop())

	buf, _, err := svc.ExportSummary(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)

	flat := make(map[string]string)
	for _, row := range rows[1:] {
		if len(row) >= 2 {
			flat[row[0]] = row[1]
		}
	}
	assert.Equal(t, "3", flat["Clients"])
	assert.Equal(t, "42", flat["Items"])
	assert.Equal(t, "5", flat["Quotations pending"])
	assert.Equal(t, "2", flat["Purchase Orders confirmed"])
}
