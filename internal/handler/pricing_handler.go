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

type PricingHandler struct {
	pricingService  service.PricingService
	activityService service.ActivityService
	guard           *middleware.Guard
}

func NewPricingHandler(pricingService service.PricingService, activityService service.ActivityService, guard *middleware.Guard) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, activityService: activityService, guard: guard}
}

// Pricing rides on the items and quotations resources: supplier costs belong
// to the item catalogue, customer prices to the quotation workflow.
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	supplier := router.Group("/supplier-pricing")
	{
		supplier.POST("", h.guard.Require(authz.ResourceItems, authz.ActionUpdate), h.CreateSupplierPricing)
		supplier.GET("", h.guard.Require(authz.ResourceItems, authz.ActionRead), h.ListSupplierPricing)
		supplier.PUT("/:id", h.guard.Require(authz.ResourceItems, authz.ActionUpdate), h.UpdateSupplierPricing)
		supplier.DELETE("/:id", h.guard.Require(authz.ResourceItems, authz.ActionDelete), h.DeleteSupplierPricing)
	}

	customer := router.Group("/customer-pricing")
	{
		customer.POST("", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.CreateCustomerPricing)
		customer.GET("", h.guard.Require(authz.ResourceQuotations, authz.ActionRead), h.ListCustomerPricing)
		customer.PUT("/:id/approve", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.ApproveCustomerPricing)
		customer.PUT("/:id/reject", h.guard.Require(authz.ResourceQuotations, authz.ActionUpdate), h.RejectCustomerPricing)
	}

	router.GET("/pricing-history", h.guard.Require(authz.ResourceItems, authz.ActionRead), h.ListHistory)
}

// CreateSupplierPricing handles POST /supplier-pricing
// @Summary      Record a supplier price
// @Description  Records a supplier quote for an item. Earlier active prices from the same supplier are marked superseded.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSupplierPricingRequest  true  "Supplier Price Payload"
// @Success      201      {object}  response.Response{data=service.SupplierPricingResponse}
// @Failure      400      {object}  response.Response
// @Router       /supplier-pricing [post]
func (h *PricingHandler) CreateSupplierPricing(c *gin.Context) {
	var req service.CreateSupplierPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	pricing, err := h.pricingService.CreateSupplierPricing(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateSupplierPricing, "supplier_pricing", pricing.ID.String(), "", c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pricing))
}

// ListSupplierPricing handles GET /supplier-pricing filtered by item or supplier
func (h *PricingHandler) ListSupplierPricing(c *gin.Context) {
	p := pagination.Parse(c)
	list, total, err := h.pricingService.ListSupplierPricing(c.Request.Context(),
		c.Query("item_id"), c.Query("supplier_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, list, total, p.Page, p.Limit))
}

// UpdateSupplierPricing handles PUT /supplier-pricing/:id
func (h *PricingHandler) UpdateSupplierPricing(c *gin.Context) {
	var req service.UpdateSupplierPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	pricing, err := h.pricingService.UpdateSupplierPricing(c.Request.Context(), id, req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdateSupplierPricing, "supplier_pricing", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pricing))
}

// DeleteSupplierPricing handles DELETE /supplier-pricing/:id
func (h *PricingHandler) DeleteSupplierPricing(c *gin.Context) {
	id := c.Param("id")
	if err := h.pricingService.DeleteSupplierPricing(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeleteSupplierPricing, "supplier_pricing", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "supplier pricing deleted"}))
}

// CreateCustomerPricing handles POST /customer-pricing
// @Summary      Create a customer price
// @Description  Derives a selling price from cost plus margin. The record stays pending until approved.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCustomerPricingRequest  true  "Customer Price Payload"
// @Success      201      {object}  response.Response{data=service.CustomerPricingResponse}
// @Failure      400      {object}  response.Response
// @Router       /customer-pricing [post]
func (h *PricingHandler) CreateCustomerPricing(c *gin.Context) {
	var req service.CreateCustomerPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	pricing, err := h.pricingService.CreateCustomerPricing(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateCustomerPricing, "customer_pricing", pricing.ID.String(), "", c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pricing))
}

// ListCustomerPricing handles GET /customer-pricing filtered by quotation
func (h *PricingHandler) ListCustomerPricing(c *gin.Context) {
	p := pagination.Parse(c)
	list, total, err := h.pricingService.ListCustomerPricing(c.Request.Context(), c.Query("quotation_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, list, total, p.Page, p.Limit))
}

// ApproveCustomerPricing handles PUT /customer-pricing/:id/approve
func (h *PricingHandler) ApproveCustomerPricing(c *gin.Context) {
	id := c.Param("id")
	pricing, err := h.pricingService.ApproveCustomerPricing(c.Request.Context(), id, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionApproveCustomerPricing, "customer_pricing", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pricing))
}

// RejectCustomerPricing handles PUT /customer-pricing/:id/reject
func (h *PricingHandler) RejectCustomerPricing(c *gin.Context) {
	id := c.Param("id")
	pricing, err := h.pricingService.RejectCustomerPricing(c.Request.Context(), id, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionRejectCustomerPricing, "customer_pricing", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pricing))
}

// ListHistory handles GET /pricing-history filtered by item
func (h *PricingHandler) ListHistory(c *gin.Context) {
	p := pagination.Parse(c)
	list, total, err := h.pricingService.ListHistory(c.Request.Context(), c.Query("item_id"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, list, total, p.Page, p.Limit))
}
