package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"adpilot/internal/domain/user"
	"adpilot/internal/infrastructure/auth"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

// UserLoader resolves the account behind a verified token.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLoader
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, users UserLoader, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger,
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth verifies the bearer token and attaches the identity. The home
// tenant comes from the user record, not the token, so a reassigned user
// does not keep acting in the old tenant until the token expires.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired, "missing or malformed bearer token"))
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
			abortWithError(c, errors.NewTokenInvalidError("access token"))
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.logger.Errorw("failed to load authenticated user", "user_id", claims.UserID, "error", err)
			abortWithError(c, errors.NewInternalError(constants.ErrMsgInternalServerError))
			return
		}
		if u == nil {
			abortWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired, "user no longer exists"))
			return
		}
		if !u.IsActive() {
			abortWithError(c, errors.NewAccountInactiveError())
			return
		}

		setIdentity(c, u.ID(), u.TenantID(), claims.Roles)
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID uint, homeTenant *uint, roles []string) {
	c.Set(constants.ContextKeyUserID, userID)
	if homeTenant != nil {
		c.Set(constants.ContextKeyTenantID, *homeTenant)
	}
	if roles == nil {
		roles = []string{}
	}
	c.Set(constants.ContextKeyUserRoles, roles)
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// GetHomeTenant returns the authenticated user's home tenant, nil when the
// account has none.
func GetHomeTenant(c *gin.Context) *uint {
	v, ok := c.Get(constants.ContextKeyTenantID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// GetClaimedRoles returns the role names carried by the token. They are for
// display; policies consult the ledger.
func GetClaimedRoles(c *gin.Context) []string {
	v, ok := c.Get(constants.ContextKeyUserRoles)
	if !ok {
		return []string{}
	}
	roles, _ := v.([]string)
	return roles
}

func abortWithError(c *gin.Context, err error) {
	utils.ErrorResponseWithError(c, err)
	c.Abort()
}
