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

type ClientHandler struct {
	clientService   service.ClientService
	activityService service.ActivityService
	guard           *middleware.Guard
}

func NewClientHandler(clientService service.ClientService, activityService service.ActivityService, guard *middleware.Guard) *ClientHandler {
	return &ClientHandler{clientService: clientService, activityService: activityService, guard: guard}
}

func (h *ClientHandler) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/clients")
	{
		clients.POST("", h.guard.Require(authz.ResourceClients, authz.ActionCreate), h.CreateClient)
		clients.GET("", h.guard.Require(authz.ResourceClients, authz.ActionRead), h.ListClients)
		clients.GET("/:id", h.guard.Require(authz.ResourceClients, authz.ActionRead), h.GetClient)
		clients.PUT("/:id", h.guard.Require(authz.ResourceClients, authz.ActionUpdate), h.UpdateClient)
		clients.DELETE("/:id", h.guard.Require(authz.ResourceClients, authz.ActionDelete), h.DeleteClient)
	}
}

// CreateClient handles POST /clients
// @Summary      Create a new client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateClientRequest  true  "Create Client Payload"
// @Success      201      {object}  response.Response{data=service.ClientResponse}
// @Failure      400      {object}  response.Response
// @Router       /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateClient, "client", client.ID.String(), client.Name, c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, client))
}

// ListClients handles GET /clients with optional search
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name search"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]service.ClientResponse}
// @Router       /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	p := pagination.Parse(c)
	clients, total, err := h.clientService.ListClients(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, clients, total, p.Page, p.Limit))
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Client not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	client, err := h.clientService.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdateClient, "client", id, client.Name, c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")
	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeleteClient, "client", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "client deleted"}))
}
