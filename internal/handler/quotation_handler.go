package handler

import (
	"net/http"

	"procurement/internal/authz"
	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/service"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	quotationService service.QuotationService
	activityService  service.ActivityService
	guard            *middleware.Guard
}

func NewQuotationHandler(quotationService service.QuotationService, activityService service.ActivityService, guard *middleware.Guard) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, activityService: activityService, guard: guard}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotations := router.Group("/quotations")
	{
		quotations.POST("", h.guard.Require(authz.ResourceQuotations, authz.ActionCreate), h.CreateQuotation)
		quotations.GET("", h.guard.Require(authz.ResourceQuotations, authz.ActionRead), h.ListQuotations)
		quotations.GET("/:id", h.guard.Require(authz.ResourceQuotations, authz.ActionRead), h.GetQuotation)
		quotations.PUT("/:id", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.UpdateQuotation)
		quotations.DELETE("/:id", h.guard.Require(authz.ResourceQuotations, authz.ActionDelete), h.DeleteQuotation)

		quotations.POST("/:id/items", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.AddItem)
		quotations.GET("/:id/items", h.guard.Require(authz.ResourceQuotations, authz.ActionRead), h.ListItems)
		quotations.DELETE("/:id/items/:lineId", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.RemoveItem)
	}
}

// CreateQuotation handles POST /quotations
// @Summary      Create a quotation request
// @Description  Creates a quotation request with an auto-assigned yearly request number
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateQuotationRequest  true  "Create Quotation Payload"
// @Success      201      {object}  response.Response{data=service.QuotationResponse}
// @Failure      400      {object}  response.Response
// @Router       /quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateQuotation, "quotation", quotation.ID.String(), quotation.RequestNumber, c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quotation))
}

// ListQuotations handles GET /quotations with optional status filter
// @Summary      List quotation requests
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"  Enums(pending, processing, completed, cancelled)
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]service.QuotationResponse}
// @Router       /quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	p := pagination.Parse(c)
	quotations, total, err := h.quotationService.ListQuotations(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, quotations, total, p.Page, p.Limit))
}

// GetQuotation handles GET /quotations/:id
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	quotation, err := h.quotationService.GetQuotationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Quotation not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// UpdateQuotation handles PUT /quotations/:id
func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	var req service.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdateQuotation, "quotation", id, quotation.RequestNumber, c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}

// DeleteQuotation handles DELETE /quotations/:id
func (h *QuotationHandler) DeleteQuotation(c *gin.Context) {
	id := c.Param("id")
	if err := h.quotationService.DeleteQuotation(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeleteQuotation, "quotation", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "quotation deleted"}))
}

// AddItem handles POST /quotations/:id/items
// @Summary      Add a quotation line
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Quotation ID"
// @Param        payload  body      service.AddQuotationItemRequest  true  "Line Payload"
// @Success      201      {object}  response.Response{data=service.QuotationItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /quotations/{id}/items [post]
func (h *QuotationHandler) AddItem(c *gin.Context) {
	var req service.AddQuotationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	line, err := h.quotationService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, line))
}

// ListItems handles GET /quotations/:id/items
func (h *QuotationHandler) ListItems(c *gin.Context) {
	lines, err := h.quotationService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, lines))
}

// RemoveItem handles DELETE /quotations/:id/items/:lineId
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	if err := h.quotationService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("lineId")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "line removed"}))
}
