package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adpilot/internal/application/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/interfaces/http/middleware"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

// PermissionHandler serves role, permission, grant and assignment
// administration. Route-level policies decide who may call it; the service
// additionally keeps super_admin grants to super_admins.
type PermissionHandler struct {
	permissionService *permission.Service
	logger            logger.Interface
	now               func() time.Time
}

func NewPermissionHandler(permissionService *permission.Service, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		logger:            logger,
		now:               time.Now,
	}
}

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=255"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type CreatePermissionRequest struct {
	Resource    string `json:"resource" binding:"required,perm_part"`
	Action      string `json:"action" binding:"required,perm_part"`
	Description string `json:"description" binding:"max=255"`
}

type GrantPermissionRequest struct {
	Permission string `json:"permission" binding:"required"`
}

type AssignRoleRequest struct {
	Role      string     `json:"role" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *PermissionHandler) ListRoles(c *gin.Context) {
	roles, err := h.permissionService.ListRoles(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list roles", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	utils.SuccessResponse(c, http.StatusOK, "", out)
}

func (h *PermissionHandler) GetRole(c *gin.Context) {
	details, err := h.permissionService.GetRole(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := toRoleResponse(details.Role)
	resp.Permissions = details.Permissions
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *PermissionHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	role, err := h.permissionService.CreateRole(c.Request.Context(), permission.CreateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toRoleResponse(role), "role created successfully")
}

func (h *PermissionHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	role, err := h.permissionService.UpdateRole(c.Request.Context(), c.Param("name"), permission.UpdateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role updated successfully", toRoleResponse(role))
}

func (h *PermissionHandler) DeleteRole(c *gin.Context) {
	if err := h.permissionService.DeleteRole(c.Request.Context(), c.Param("name")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	perms, err := h.permissionService.ListPermissions(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list permissions", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionResponse(p))
	}
	utils.SuccessResponse(c, http.StatusOK, "", out)
}

func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	p, err := h.permissionService.CreatePermission(c.Request.Context(), permission.CreatePermissionCommand{
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toPermissionResponse(p), "permission created successfully")
}

func (h *PermissionHandler) GrantPermission(c *gin.Context) {
	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	roleName := c.Param("name")
	if err := h.permissionService.GrantPermission(c.Request.Context(), roleName, req.Permission); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"role": roleName, "permission": req.Permission}, "permission granted successfully")
}

func (h *PermissionHandler) RevokePermission(c *gin.Context) {
	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.permissionService.RevokePermission(c.Request.Context(), c.Param("name"), req.Permission); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// assignmentTarget reads the subject user and scope of an assignment route.
// Routes under /tenants/:tenantId are tenant-scoped, /users/:id routes are
// system-wide.
func assignmentTarget(c *gin.Context) (uint, vo.TenantScope, error) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		return 0, vo.TenantScope{}, err
	}
	if c.Param(constants.ParamTenantID) == "" {
		return userID, vo.SystemWide(), nil
	}
	tenantID, err := utils.ParseUintParam(c, constants.ParamTenantID, "tenant")
	if err != nil {
		return 0, vo.TenantScope{}, err
	}
	return userID, vo.ForTenant(tenantID), nil
}

func (h *PermissionHandler) AssignRole(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	userID, scope, err := assignmentTarget(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	assignment, err := h.permissionService.AssignRole(c.Request.Context(), permission.AssignRoleCommand{
		ActorID:   actorID,
		UserID:    userID,
		RoleName:  req.Role,
		Scope:     scope,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.logger.Warnw("failed to assign role",
			"actor_id", actorID, "user_id", userID, "role", req.Role, "tenant", scope.String(), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toAssignmentResponse(assignment, req.Role, h.now()), "role assigned successfully")
}

func (h *PermissionHandler) RevokeRole(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired))
		return
	}

	userID, scope, err := assignmentTarget(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.permissionService.RevokeRole(c.Request.Context(), permission.RevokeRoleCommand{
		ActorID:  actorID,
		UserID:   userID,
		RoleName: c.Param("role"),
		Scope:    scope,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// ListAssignments lists a user's ledger rows. Tenant routes restrict the
// rows to that tenant; the system route returns every scope.
func (h *PermissionHandler) ListAssignments(c *gin.Context) {
	userID, scope, err := assignmentTarget(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var filter *vo.TenantScope
	if !scope.IsSystemWide() {
		filter = &scope
	}

	rows, err := h.permissionService.ListAssignments(c.Request.Context(), userID, filter)
	if err != nil {
		h.logger.Errorw("failed to list role assignments", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toAssignmentResponses(rows, h.now()))
}
