package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"procurement/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// exportPageSize bounds how many rows a single export pulls per repository call
const exportPageSize = 1000

// ExportService builds Excel workbooks for the main entity lists and the
// summary report
type ExportService interface {
	ExportItems(ctx context.Context) (*bytes.Buffer, string, error)
	ExportQuotations(ctx context.Context, status string) (*bytes.Buffer, string, error)
	ExportPurchaseOrders(ctx context.Context, status string) (*bytes.Buffer, string, error)
	ExportSummary(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	items      repository.ItemRepository
	quotations repository.QuotationRepository
	orders     repository.PurchaseOrderRepository
	stats      StatisticsService
	log        *zap.Logger
}

// NewExportService returns a new instance of ExportService
func NewExportService(items repository.ItemRepository, quotations repository.QuotationRepository, orders repository.PurchaseOrderRepository, stats StatisticsService, log *zap.Logger) ExportService {
	return &exportService{items: items, quotations: quotations, orders: orders, stats: stats, log: log}
}

func newWorkbook(sheet string, headers []string, widths []float64) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportService) ExportItems(ctx context.Context) (*bytes.Buffer, string, error) {
	const sheet = "Items"
	f, err := newWorkbook(sheet,
		[]string{"Item Number", "Part Number", "Description", "Unit", "Category", "Brand", "Created At"},
		[]float64{14, 22, 45, 10, 18, 16, 20})
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	row := 2
	for page := 1; ; page++ {
		items, total, err := s.items.List(ctx, "", "", page, exportPageSize)
		if err != nil {
			return nil, "", err
		}
		for i := range items {
			it := &items[i]
			err := setRow(f, sheet, row, []interface{}{
				it.ItemNumber, it.PartNumber, it.Description, it.Unit,
				it.Category, it.Brand, it.CreatedAt.Format("2006-01-02"),
			})
			if err != nil {
				return nil, "", err
			}
			row++
		}
		if int64(page*exportPageSize) >= total || len(items) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("items_%s.xlsx", time.Now().Format("20060102"))
	s.log.Info("exported items workbook", zap.Int("rows", row-2))
	return buf, name, nil
}

func (s *exportService) ExportQuotations(ctx context.Context, status string) (*bytes.Buffer, string, error) {
	const sheet = "Quotations"
	f, err := newWorkbook(sheet,
		[]string{"Request Number", "Client", "Request Date", "Expiry Date", "Status", "Responsible", "Lines", "Created At"},
		[]float64{16, 28, 14, 14, 12, 22, 8, 20})
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	row := 2
	for page := 1; ; page++ {
		list, total, err := s.quotations.List(ctx, status, page, exportPageSize)
		if err != nil {
			return nil, "", err
		}
		for i := range list {
			q := &list[i]
			client := ""
			if q.Client != nil {
				client = q.Client.Name
			}
			expiry := ""
			if q.ExpiryDate != nil {
				expiry = q.ExpiryDate.Format("2006-01-02")
			}
			err := setRow(f, sheet, row, []interface{}{
				q.RequestNumber, client, q.RequestDate.Format("2006-01-02"), expiry,
				q.Status, q.ResponsibleEmployee, len(q.Items), q.CreatedAt.Format("2006-01-02"),
			})
			if err != nil {
				return nil, "", err
			}
			row++
		}
		if int64(page*exportPageSize) >= total || len(list) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("quotations_%s.xlsx", time.Now().Format("20060102"))
	s.log.Info("exported quotations workbook", zap.Int("rows", row-2))
	return buf, name, nil
}

func (s *exportService) ExportPurchaseOrders(ctx context.Context, status string) (*bytes.Buffer, string, error) {
	const sheet = "Purchase Orders"
	f, err := newWorkbook(sheet,
		[]string{"PO Number", "Request Number", "PO Date", "Status", "Total Value", "Delivered", "Invoiced", "Created At"},
		[]float64{16, 16, 14, 12, 14, 10, 10, 20})
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	row := 2
	for page := 1; ; page++ {
		list, total, err := s.orders.List(ctx, status, page, exportPageSize)
		if err != nil {
			return nil, "", err
		}
		for i := range list {
			po := &list[i]
			request := ""
			if po.Quotation != nil {
				request = po.Quotation.RequestNumber
			}
			err := setRow(f, sheet, row, []interface{}{
				po.PONumber, request, po.PODate.Format("2006-01-02"), po.Status,
				po.TotalValue.InexactFloat64(), po.DeliveryStatus, po.InvoiceIssued,
				po.CreatedAt.Format("2006-01-02"),
			})
			if err != nil {
				return nil, "", err
			}
			row++
		}
		if int64(page*exportPageSize) >= total || len(list) == 0 {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102"))
	s.log.Info("exported purchase orders workbook", zap.Int("rows", row-2))
	return buf, name, nil
}

func (s *exportService) ExportSummary(ctx context.Context) (*bytes.Buffer, string, error) {
	const sheet = "Summary"
	f, err := newWorkbook(sheet, []string{"Metric", "Value"}, []float64{34, 14})
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	stats, err := s.stats.GetStatistics(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := [][]interface{}{
		{"Clients", stats.Totals.Clients},
		{"Suppliers", stats.Totals.Suppliers},
		{"Items", stats.Totals.Items},
		{"Quotation Requests", stats.Totals.Quotations},
		{"Purchase Orders", stats.Totals.PurchaseOrders},
		{"Users", stats.Totals.Users},
	}
	for status, count := range stats.QuotationsByStatus {
		rows = append(rows, []interface{}{"Quotations " + status, count})
	}
	for status, count := range stats.PurchaseOrdersByStatus {
		rows = append(rows, []interface{}{"Purchase Orders " + status, count})
	}

	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("summary_%s.xlsx", time.Now().Format("20060102"))
	return buf, name, nil
}
