package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adpilot/internal/application/tenant"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

type TenantHandler struct {
	tenantService *tenant.Service
	logger        logger.Interface
}

func NewTenantHandler(tenantService *tenant.Service, logger logger.Interface) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logger:        logger,
	}
}

type CreateTenantRequest struct {
	Name string         `json:"name" binding:"required,max=100"`
	Slug string         `json:"slug" binding:"required,max=100"`
	Meta map[string]any `json:"meta"`
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	t, err := h.tenantService.Create(c.Request.Context(), tenant.CreateTenantCommand{
		Name: req.Name,
		Slug: req.Slug,
		Meta: req.Meta,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toTenantResponse(t), "tenant created successfully")
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, err := utils.ParseUintParam(c, constants.ParamTenantID, "tenant")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	t, err := h.tenantService.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toTenantResponse(t))
}

func (h *TenantHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.tenantService.List(c.Request.Context(), tenant.ListTenantsQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		h.logger.Errorw("failed to list tenants", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]TenantResponse, 0, len(result.Tenants))
	for _, t := range result.Tenants {
		items = append(items, toTenantResponse(t))
	}
	utils.ListSuccessResponse(c, items, result.Total, result.Page, result.PageSize)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUintParam(c, constants.ParamTenantID, "tenant")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
