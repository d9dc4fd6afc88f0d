package handler

import (
	"errors"
	"net/http"

	"procurement/internal/authz"
	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/service"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService     service.ItemService
	activityService service.ActivityService
	guard           *middleware.Guard
}

func NewItemHandler(itemService service.ItemService, activityService service.ActivityService, guard *middleware.Guard) *ItemHandler {
	return &ItemHandler{itemService: itemService, activityService: activityService, guard: guard}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items")
	{
		items.POST("", h.guard.Require(authz.ResourceItems, authz.ActionCreate), h.CreateItem)
		items.GET("", h.guard.Require(authz.ResourceItems, authz.ActionRead), h.ListItems)
		items.GET("/units", h.guard.Require(authz.ResourceItems, authz.ActionRead), h.ListUnits)
		items.GET("/:id", h.guard.Require(authz.ResourceItems, authz.ActionRead), h.GetItem)
		items.PUT("/:id", h.guard.Require(authz.ResourceItems, authz.ActionUpdate), h.UpdateItem)
		items.DELETE("/:id", h.guard.Require(authz.ResourceItems, authz.ActionDelete), h.DeleteItem)
	}
}

// CreateItem handles POST /items
// @Summary      Create a new item
// @Description  Creates a catalogue item. The part number is normalized for duplicate detection and an internal P-xxxxxx number is assigned.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, service.ErrDuplicatePartNumber) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateItem, "item", item.ID.String(), item.ItemNumber, c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems handles GET /items with optional search and category filters
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Part number or description search"
// @Param        category  query     string  false  "Category filter"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  response.Response{data=[]service.ItemResponse}
// @Router       /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.itemService.ListItems(c.Request.Context(), c.Query("search"), c.Query("category"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, p.Page, p.Limit))
}

// ListUnits handles GET /items/units returning the accepted unit values
func (h *ItemHandler) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, model.Units))
}

// GetItem handles GET /items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Item not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem handles PUT /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	item, err := h.itemService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicatePartNumber) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdateItem, "item", id, item.ItemNumber, c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeleteItem, "item", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "item deleted"}))
}
