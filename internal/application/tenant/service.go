// Package tenant manages advertiser accounts.
package tenant

import (
	"context"
	"fmt"

	"adpilot/internal/domain/tenant"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
	"adpilot/internal/shared/utils"
)

type CreateTenantCommand struct {
	Name string
	Slug string
	Meta map[string]any
}

type ListTenantsQuery struct {
	Page     int
	PageSize int
}

type ListTenantsResult struct {
	Tenants  []*tenant.Tenant
	Total    int64
	Page     int
	PageSize int
}

type Service struct {
	repo   tenant.Repository
	logger logger.Interface
}

func NewService(repo tenant.Repository, logger logger.Interface) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateTenantCommand) (*tenant.Tenant, error) {
	t, err := tenant.NewTenant(cmd.Name, cmd.Slug, cmd.Meta)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.IsConflictError(err) {
			return nil, err
		}
		s.logger.Errorw("failed to create tenant", "slug", cmd.Slug, "error", err)
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.logger.Infow("tenant created", "tenant_id", t.ID(), "slug", t.Slug())
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, query ListTenantsQuery) (*ListTenantsResult, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)

	tenants, total, err := s.repo.List(ctx, tenant.ListFilter{Page: p.Page, PageSize: p.PageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return &ListTenantsResult{Tenants: tenants, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// Delete removes the tenant and every role assignment scoped to it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.logger.Infow("tenant deleted", "tenant_id", id)
	return nil
}
