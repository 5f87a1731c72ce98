package permission

import (
	"fmt"
	"strings"
	"time"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/shared/biztime"
)

// Permission is a (resource, action) pair. The catalog is additive: once
// created a permission is never renamed or removed by the application.
type Permission struct {
	id          uint
	resource    vo.Resource
	action      vo.Action
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPermission(resource, action, description string) (*Permission, error) {
	res, err := vo.NewResource(resource)
	if err != nil {
		return nil, err
	}
	act, err := vo.NewAction(action)
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Permission{
		resource:    res,
		action:      act,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPermission(id uint, resource vo.Resource, action vo.Action, description string, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:          id,
		resource:    resource,
		action:      action,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Resource() vo.Resource {
	return p.resource
}

func (p *Permission) Action() vo.Action {
	return p.action
}

func (p *Permission) Description() string {
	return p.description
}

func (p *Permission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Permission) UpdatedAt() time.Time {
	return p.updatedAt
}

// Code renders the permission as "resource:action".
func (p *Permission) Code() string {
	return FormatCode(p.resource.String(), p.action.String())
}

// FormatCode renders a resource and action as "resource:action".
func FormatCode(resource, action string) string {
	return fmt.Sprintf("%s:%s", resource, action)
}

// ParseCode splits "resource:action".
func ParseCode(code string) (resource, action string, err error) {
	resource, action, ok := strings.Cut(code, ":")
	if !ok || resource == "" || action == "" {
		return "", "", fmt.Errorf("invalid permission code %q, expected resource:action", code)
	}
	return resource, action, nil
}
