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

type UserHandler struct {
	userService     service.UserService
	activityService service.ActivityService
	guard           *middleware.Guard
}

func NewUserHandler(userService service.UserService, activityService service.ActivityService, guard *middleware.Guard) *UserHandler {
	return &UserHandler{userService: userService, activityService: activityService, guard: guard}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/logout", h.guard.RequireAuth(), h.Logout)
	router.POST("/refresh", h.Refresh)
	router.POST("/forgot-password", h.ForgotPassword)
	router.POST("/reset-password", h.RedeemPasswordReset)
	router.GET("/me", h.guard.RequireAuth(), h.GetMe)

	users := router.Group("/users")
	{
		users.POST("", h.guard.Require(authz.ResourceUsers, authz.ActionCreate), h.CreateUser)
		users.GET("", h.guard.Require(authz.ResourceUsers, authz.ActionRead), h.ListUsers)
		users.GET("/:id", h.guard.Require(authz.ResourceUsers, authz.ActionRead), h.GetUser)
		users.PUT("/:id", h.guard.Require(authz.ResourceUsers, authz.ActionUpdate), h.UpdateUser)
		users.DELETE("/:id", h.guard.Require(authz.ResourceUsers, authz.ActionDelete), h.DeleteUser)
		users.GET("/:id/permissions", h.guard.Require(authz.ResourceUsers, authz.ActionRead), h.GetPermissions)
		users.PUT("/:id/permissions", h.guard.Require(authz.ResourceUsers, authz.ActionUpdate), h.UpdatePermissions)
		users.PUT("/:id/reset-password", h.guard.Require(authz.ResourceUsers, authz.ActionUpdate), h.ResetPassword)
	}
}

// Login handles POST /login to authenticate and return tokens
// @Summary      Login user
// @Description  Authenticates a user by username and password, returning access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginUserRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	tokens, err := h.userService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout handles POST /logout to clear the session
// @Summary      Logout user
// @Description  Revokes the refresh token and clears session cookies
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("userID")
	refreshToken, _ := c.Cookie("refresh_token")

	if err := h.userService.Logout(c.Request.Context(), userID, refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	h.guard.InvalidateUser(userID)
	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// Refresh handles POST /refresh to issue a new access token
// @Summary      Refresh token
// @Description  Issues a new access token using a valid refresh token cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is missing"))
		return
	}

	tokens, err := h.userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// ForgotPassword handles POST /forgot-password to issue a reset token
// @Summary      Request password reset
// @Description  Issues a single-use reset token for the account registered under the given email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ForgotPasswordRequest  true  "Account Email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	token, err := h.userService.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	// No mail integration; the token is handed back for out-of-band delivery.
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"reset_token": token}))
}

// RedeemPasswordReset handles POST /reset-password to consume a reset token
// @Summary      Reset password with token
// @Description  Sets a new password for the account behind a valid, unused reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RedeemPasswordResetRequest  true  "Token and New Password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /reset-password [post]
func (h *UserHandler) RedeemPasswordReset(c *gin.Context) {
	var req service.RedeemPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.userService.RedeemPasswordReset(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "password updated"}))
}

// GetMe handles GET /me to return the caller's profile
// @Summary      Get current user
// @Description  Returns the authenticated user with their effective permissions and visible sections
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// CreateUser handles POST /users
// @Summary      Create a new user
// @Description  Creates a user and seeds their permissions from the role defaults
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionCreateUser, "user", user.ID.String(), user.Username, c.ClientIP())
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// ListUsers handles GET /users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]service.UserResponse}
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, users, total, p.Page, p.Limit))
}

// GetUser handles GET /users/:id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser handles PUT /users/:id
// @Summary      Update user
// @Description  Updates profile fields; a role change reseeds the permission overrides
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Update User Payload"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	// Role changes reseed the permission bag, so the cached set is stale
	h.guard.InvalidateUser(id)
	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdateUser, "user", id, user.Username, c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser handles DELETE /users/:id
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	h.guard.InvalidateUser(id)
	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionDeleteUser, "user", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "user deleted"}))
}

// GetPermissions handles GET /users/:id/permissions
// @Summary      Get user permissions
// @Description  Returns the user's effective permission set
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=authz.PermissionSet}
// @Failure      404  {object}  response.Response
// @Router       /users/{id}/permissions [get]
func (h *UserHandler) GetPermissions(c *gin.Context) {
	perms, err := h.userService.GetPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, perms))
}

// UpdatePermissions handles PUT /users/:id/permissions
// @Summary      Update user permissions
// @Description  Replaces the user's permission overrides. Unknown codes are rejected.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "User ID"
// @Param        payload  body      authz.PermissionSet  true  "Permission map"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/permissions [put]
func (h *UserHandler) UpdatePermissions(c *gin.Context) {
	var perms authz.PermissionSet
	if err := c.ShouldBindJSON(&perms); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	if err := h.userService.UpdatePermissions(c.Request.Context(), id, perms); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	// The edited user must see the new permissions immediately
	h.guard.InvalidateUser(id)
	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionUpdatePermissions, "user", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "permissions updated"}))
}

// ResetPassword handles PUT /users/:id/reset-password
// @Summary      Reset user password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "User ID"
// @Param        payload  body      service.ResetPasswordRequest  true  "New Password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/reset-password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	id := c.Param("id")
	if err := h.userService.ResetPassword(c.Request.Context(), id, req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	h.activityService.Record(c.Request.Context(), c.GetString("userID"),
		model.ActionResetPassword, "user", id, "", c.ClientIP())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "password reset"}))
}
