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

type PurchaseOrderHandler struct {
	poService       service.PurchaseOrderService
	activityService service.ActivityService
	guard           *middleware.Guard
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService, activityService service.ActivityService, guard *middleware.Guard) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService, activityService: activityService, guard: guard}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/purchase-orders")
	{
		orders.POST("", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionCreate), h.CreatePurchaseOrder)
		orders.GET("", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionRead), h.ListPurchaseOrders)
		orders.GET("/:id", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionRead), h.GetPurchaseOrder)
		orders.PUT("/:id", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionUpdate), h.UpdatePurchaseOrder)
		orders.DELETE("/:id", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionDelete), h.DeletePurchaseOrder)

		orders.POST("/:id/items", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionUpdate), h.AddItem)
		orders.GET("/:id/items", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionRead), h.ListItems)
		orders.DELETE("/:id/items/:lineId", h.guard.Require(authz.ResourcePurchaseOrders, authz.ActionUpdate), h.RemoveItem)
	}
}

// CreatePurchaseOrder handles POST /purchase-orders
// @Summary      Create a purchase order
// @Description  Issues a purchase order against an existing quotation with an auto-assigned PO number
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePurchaseOrderRequest  true  "Create PO Payload"
// @Success      201      {object}  response.Response{data=service.PurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	po, err := h.poService.CreatePurchaseOrder(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreatePurchaseOrder, "purchase_order", po.ID.String(), po.PONumber, c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, po))
}

// ListPurchaseOrders handles GET /purchase-orders with optional status filter
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"  Enums(pending, confirmed, delivered, invoiced)
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]service.PurchaseOrderResponse}
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	p := pagination.Parse(c)
	orders, total, err := h.poService.ListPurchaseOrders(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// GetPurchaseOrder handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *gin.Context) {
	po, err := h.poService.GetPurchaseOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Purchase order not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// UpdatePurchaseOrder handles PUT /purchase-orders/:id
func (h *PurchaseOrderHandler) UpdatePurchaseOrder(c *gin.Context) {
	var req service.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	po, err := h.poService.UpdatePurchaseOrder(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdatePurchaseOrder, "purchase_order", id, po.PONumber, c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// DeletePurchaseOrder handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id := c.Param("id")
	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeletePurchaseOrder, "purchase_order", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "purchase order deleted"}))
}

// AddItem handles POST /purchase-orders/:id/items
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	var req service.AddPurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	line, err := h.poService.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, line))
}

// ListItems handles GET /purchase-orders/:id/items
func (h *PurchaseOrderHandler) ListItems(c *gin.Context) {
	lines, err := h.poService.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, lines))
}

// RemoveItem handles DELETE /purchase-orders/:id/items/:lineId
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	if err := h.poService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("lineId")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "line removed"}))
}
