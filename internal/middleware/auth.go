package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"procurement/internal/authz"
	"procurement/internal/repository"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only, DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, refresh_token: 7 days
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// permCacheEntry stores a user's resolved permission set with TTL
type permCacheEntry struct {
	perms     authz.PermissionSet
	role      authz.Role
	expiresAt time.Time
}

// Guard authorizes requests against the permission table. The identity is an
// explicit input on every check: role and permission bag come from the token
// and the user record, never from ambient package state.
type Guard struct {
	table authz.Table
	users repository.UserRepository
	log   *zap.Logger

	cache sync.Map // userID -> permCacheEntry
	ttl   time.Duration
}

// NewGuard builds the route guard over the given permission table
func NewGuard(table authz.Table, users repository.UserRepository, log *zap.Logger) *Guard {
	return &Guard{
		table: table,
		users: users,
		log:   log,
		ttl:   5 * time.Minute,
	}
}

// parseToken validates the JWT from cookie or Authorization header and
// returns its claims
func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return nil, false
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return nil, false
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return nil, false
	}
	return claims, true
}

// RequireAuth validates the JWT and stores the caller's identity in the
// request context without any permission check
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("userRole", role)
		c.Next()
	}
}

// Require validates the JWT and checks that the caller may perform the given
// action on the given resource. A deny is a 403; an unconfigured role is a
// 500 logged as a configuration error, so operators can tell the two apart.
func (g *Guard) Require(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}
		userID, _ := claims["sub"].(string)

		c.Set("userID", userID)
		c.Set("userRole", role)

		perms, err := g.effectivePermissions(c, userID, authz.Role(role))
		if err != nil {
			g.fail(c, err)
			return
		}

		allowed, err := g.table.Decide(authz.Identity{Role: authz.Role(role), Permissions: perms}, resource, action)
		if err != nil {
			g.fail(c, err)
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Next()
	}
}

// effectivePermissions resolves and caches the caller's permission set. The
// stored bag wins when present; a malformed bag is logged and the role
// defaults apply.
func (g *Guard) effectivePermissions(c *gin.Context, userID string, role authz.Role) (authz.PermissionSet, error) {
	if entry, ok := g.cache.Load(userID); ok {
		cached := entry.(permCacheEntry)
		if cached.role == role && time.Now().Before(cached.expiresAt) {
			return cached.perms, nil
		}
	}

	stored := ""
	if userID != "" {
		user, err := g.users.GetByID(c.Request.Context(), userID)
		if err == nil {
			stored = user.Permissions
		} else {
			g.log.Warn("failed to load user for permission check, using role defaults",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	perms, err := g.table.EffectivePermissions(role, stored)
	if err != nil {
		if errors.Is(err, authz.ErrMalformedOverride) {
			g.log.Error("malformed permission override, falling back to role defaults",
				zap.String("user_id", userID), zap.String("role", string(role)), zap.Error(err))
		} else {
			return nil, err
		}
	}

	g.cache.Store(userID, permCacheEntry{perms: perms, role: role, expiresAt: time.Now().Add(g.ttl)})
	return perms, nil
}

// fail translates evaluator errors into responses. Unknown role is a
// configuration error; unknown resource/action is a programming error in the
// route wiring. Both deny the request and neither is silent.
func (g *Guard) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrUnknownRole):
		g.log.Error("role missing from permission table", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Role is not configured"))
	case errors.Is(err, authz.ErrUnknownResource), errors.Is(err, authz.ErrUnknownAction):
		g.log.Error("route references unknown resource or action", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
	default:
		g.log.Error("permission check failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
	}
}

// InvalidateUser drops a user's cached permission set, e.g. after an
// administrator edits their override bag. An empty id clears the whole cache.
func (g *Guard) InvalidateUser(userID string) {
	if userID == "" {
		g.cache.Range(func(key, _ interface{}) bool {
			g.cache.Delete(key)
			return true
		})
		return
	}
	g.cache.Delete(userID)
}
