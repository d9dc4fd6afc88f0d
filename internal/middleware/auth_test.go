package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"procurement/internal/authz"
	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUserRepo serves a fixed set of users keyed by id
type stubUserRepo struct {
	repository.UserRepository // unimplemented methods panic if reached
	users                     map[string]*model.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetJWTSecret())
	require.NoError(t, err)
	return token
}

func newTestRouter(guard *Guard, resource authz.Resource, action authz.Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", guard.Require(resource, action), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func probe(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRejectsMissingToken(t *testing.T) {
	guard := NewGuard(authz.Default(), &stubUserRepo{}, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionRead)

	w := probe(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRejectsGarbageToken(t *testing.T) {
	guard := NewGuard(authz.Default(), &stubUserRepo{}, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionRead)

	w := probe(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAllowsGrantedRole(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {Role: string(authz.RoleDataEntry)},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionCreate)

	w := probe(r, signToken(t, id, string(authz.RoleDataEntry)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireDeniesUngrantedAction(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {Role: string(authz.RoleDataEntry)},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())

	// data entry may create items but never delete them
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionDelete)

	w := probe(r, signToken(t, id, string(authz.RoleDataEntry)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireUnknownRoleIsServerError(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {Role: "auditor"},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionRead)

	// An unconfigured role is a deployment problem, not a plain deny
	w := probe(r, signToken(t, id, "auditor"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireOverrideGrantsBeyondRole(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {
			Role:        string(authz.RoleDataEntry),
			Permissions: `{"items.delete": true}`,
		},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionDelete)

	w := probe(r, signToken(t, id, string(authz.RoleDataEntry)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireOverrideRevokesRoleGrant(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {
			Role:        string(authz.RoleManager),
			Permissions: `{"items.read": false}`,
		},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionRead)

	w := probe(r, signToken(t, id, string(authz.RoleManager)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireMalformedOverrideFallsBackToRole(t *testing.T) {
	id := uuid.NewString()
	repo := &stubUserRepo{users: map[string]*model.User{
		id: {
			Role:        string(authz.RoleDataEntry),
			Permissions: `{"items.read": tru`,
		},
	}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())

	// Role default still grants the read despite the broken bag
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionRead)
	w := probe(r, signToken(t, id, string(authz.RoleDataEntry)))
	assert.Equal(t, http.StatusOK, w.Code)

	// And the broken bag cannot smuggle in extra grants
	r2 := newTestRouter(guard, authz.ResourceItems, authz.ActionDelete)
	w2 := probe(r2, signToken(t, id, string(authz.RoleDataEntry)))
	assert.Equal(t, http.StatusForbidden, w2.Code)
}

func TestInvalidateUserDropsCachedPermissions(t *testing.T) {
	id := uuid.NewString()
	user := &model.User{Role: string(authz.RoleDataEntry)}
	repo := &stubUserRepo{users: map[string]*model.User{id: user}}
	guard := NewGuard(authz.Default(), repo, zap.NewNop())
	r := newTestRouter(guard, authz.ResourceItems, authz.ActionDelete)

	token := signToken(t, id, string(authz.RoleDataEntry))
	assert.Equal(t, http.StatusForbidden, probe(r, token).Code)

	// Grant via override; the cached deny must not survive invalidation
	user.Permissions = `{"items.delete": true}`
	guard.InvalidateUser(id)
	assert.Equal(t, http.StatusOK, probe(r, token).Code)
}

func TestRequireAuthExposesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := NewGuard(authz.Default(), &stubUserRepo{}, zap.NewNop())

	id := uuid.NewString()
	r := gin.New()
	r.GET("/whoami", guard.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("userID"),
			"role":    c.GetString("userRole"),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, id, string(authz.RolePurchasing)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)
	assert.Contains(t, w.Body.String(), string(authz.RolePurchasing))
}
