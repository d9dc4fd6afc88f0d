package handler

import (
	"bytes"
	"net/http"

	"procurement/internal/authz"
	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/service"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	statisticsService service.StatisticsService
	activityService   service.ActivityService
	exportService     service.ExportService
	guard             *middleware.Guard
}

func NewReportHandler(statisticsService service.StatisticsService, activityService service.ActivityService, exportService service.ExportService, guard *middleware.Guard) *ReportHandler {
	return &ReportHandler{
		statisticsService: statisticsService,
		activityService:   activityService,
		exportService:     exportService,
		guard:             guard,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/statistics", h.guard.Require(authz.ResourceReports, authz.ActionRead), h.GetStatistics)
		reports.GET("/activity", h.guard.Require(authz.ResourceReports, authz.ActionRead), h.ListActivity)
		reports.GET("/export/summary", h.guard.Require(authz.ResourceReports, authz.ActionExport), h.ExportSummary)
	}

	router.GET("/items/export", h.guard.Require(authz.ResourceItems, authz.ActionExport), h.ExportItems)
	router.GET("/quotations/export", h.guard.Require(authz.ResourceQuotations, authz.ActionExport), h.ExportQuotations)
	router.GET("/purchase-orders/export", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionExport), h.ExportPurchaseOrders)
}

// GetStatistics handles GET /reports/statistics
// @Summary      Dashboard statistics
// @Description  Entity totals plus quotation and purchase order counts per status
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.StatisticsResponse}
// @Router       /reports/statistics [get]
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetStatistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// ListActivity handles GET /reports/activity
// @Summary      Activity log
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]service.ActivityResponse}
// @Router       /reports/activity [get]
func (h *ReportHandler) ListActivity(c *gin.Context) {
	p := pagination.Parse(c)
	entries, total, err := h.activityService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, total, p.Page, p.Limit))
}

func (h *ReportHandler) serveWorkbook(c *gin.Context, buf *bytes.Buffer, name string, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionExportData, "report", "", name, c.ClientIP())

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportItems handles GET /items/export
// @Summary      Export items as Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /items/export [get]
func (h *ReportHandler) ExportItems(c *gin.Context) {
	buf, name, err := h.exportService.ExportItems(c.Request.Context())
	h.serveWorkbook(c, buf, name, err)
}

// ExportQuotations handles GET /quotations/export
func (h *ReportHandler) ExportQuotations(c *gin.Context) {
	buf, name, err := h.exportService.ExportQuotations(c.Request.Context(), c.Query("status"))
	h.serveWorkbook(c, buf, name, err)
}

// ExportPurchaseOrders handles GET /purchase-orders/export
func (h *ReportHandler) ExportPurchaseOrders(c *gin.Context) {
	buf, name, err := h.exportService.ExportPurchaseOrders(c.Request.Context(), c.Query("status"))
	h.serveWorkbook(c, buf, name, err)
}

// ExportSummary handles GET /reports/export/summary
func (h *ReportHandler) ExportSummary(c *gin.Context) {
	buf, name, err := h.exportService.ExportSummary(c.Request.Context())
	h.serveWorkbook(c, buf, name, err)
}
