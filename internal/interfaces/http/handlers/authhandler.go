package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adpilot/internal/application/permission"
	"adpilot/internal/application/user/usecases"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

type AuthHandler struct {
	loginUseCase       *usecases.LoginWithPasswordUseCase
	currentUserUseCase *usecases.GetCurrentUserUseCase
	evaluator          *permission.Evaluator
	logger             logger.Interface
}

func NewAuthHandler(
	loginUC *usecases.LoginWithPasswordUseCase,
	currentUserUC *usecases.GetCurrentUserUseCase,
	evaluator *permission.Evaluator,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:       loginUC,
		currentUserUseCase: currentUserUC,
		evaluator:          evaluator,
		logger:             logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CheckPermissionQuery struct {
	Resource string `form:"resource" binding:"required,perm_part"`
	Action   string `form:"action" binding:"required,perm_part"`
}

// Login exchanges email and password for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginWithPasswordCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Warnw("login failed", "error", err, "email", utils.MaskEmail(req.Email), "client_ip", c.ClientIP())
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        toUserResponse(result.User),
		Roles:       result.Roles,
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	u, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toUserResponse(u))
}

// Roles lists the role names the user currently holds in any scope.
func (h *AuthHandler) Roles(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	roles, err := h.evaluator.GetRoles(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to get user roles", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"roles": roles})
}

// Permissions lists the permission codes effective in ?tenantId=, or in the
// user's home tenant when the query names none.
func (h *AuthHandler) Permissions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	tenantID, err := h.queryTenant(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	codes, err := h.evaluator.GetPermissions(c.Request.Context(), userID, vo.ScopeFromPtr(tenantID))
	if err != nil {
		h.logger.Errorw("failed to get user permissions", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"tenant_id":   tenantID,
		"permissions": codes,
	})
}

// CheckPermission answers whether the caller holds resource:action.
func (h *AuthHandler) CheckPermission(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	var query CheckPermissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	tenantID, err := h.queryTenant(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	allowed, err := h.evaluator.HasPermission(c.Request.Context(), userID, query.Resource, query.Action, vo.ScopeFromPtr(tenantID))
	if err != nil {
		h.logger.Errorw("failed to check permission", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", CheckPermissionResponse{
		Resource: query.Resource,
		Action:   query.Action,
		TenantID: tenantID,
		Allowed:  allowed,
	})
}

func (h *AuthHandler) queryTenant(c *gin.Context) (*uint, error) {
	tenantID, err := utils.ParseOptionalUintQuery(c, constants.ParamTenantID)
	if err != nil {
		return nil, err
	}
	if tenantID == nil {
		tenantID = middleware.GetHomeTenant(c)
	}
	return tenantID, nil
}
