package permission

import (
	"context"
	"fmt"
	"time"

	"github.com/casbin/casbin/v2"

	"adpilot/internal/domain/permission"
	vo "adpilot/internal/domain/permission/valueobjects"
)

// Snapshot is the effective policy at one instant: role grants as "p" rules
// and valid assignments as "g" rules.
type Snapshot struct {
	TakenAt   time.Time
	Policies  [][]string
	Groupings [][]string
}

type SnapshotBuilder struct {
	roles       permission.RoleRepository
	permissions permission.PermissionRepository
	assignments permission.AssignmentRepository
}

func NewSnapshotBuilder(
	roles permission.RoleRepository,
	permissions permission.PermissionRepository,
	assignments permission.AssignmentRepository,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		roles:       roles,
		permissions: permissions,
		assignments: assignments,
	}
}

// Build reads the catalog and ledger. Revoked and expired assignments are
// left out.
func (b *SnapshotBuilder) Build(ctx context.Context, at time.Time) (*Snapshot, error) {
	perms, err := b.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	byID := make(map[uint]*permission.Permission, len(perms))
	for _, p := range perms {
		byID[p.ID()] = p
	}

	roles, err := b.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	roleNames := make(map[uint]string, len(roles))

	snap := &Snapshot{TakenAt: at}
	for _, role := range roles {
		roleNames[role.ID()] = role.Name()

		ids, err := b.roles.GetPermissionIDs(ctx, []uint{role.ID()})
		if err != nil {
			return nil, fmt.Errorf("failed to load grants of role %s: %w", role.Name(), err)
		}
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				continue
			}
			snap.Policies = append(snap.Policies, []string{role.Name(), p.Resource().String(), p.Action().String()})
		}
	}

	valid, err := b.assignments.Find(ctx, permission.AssignmentQuery{ValidAt: &at})
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	for _, a := range valid {
		name, ok := roleNames[a.RoleID()]
		if !ok {
			continue
		}
		snap.Groupings = append(snap.Groupings, []string{Subject(a.UserID()), name, Domain(a.Scope())})
	}

	return snap, nil
}

// Enforcer loads the snapshot into an in-memory casbin enforcer.
func (s *Snapshot) Enforcer() (*casbin.Enforcer, error) {
	m, err := NewModel()
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := s.load(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Snapshot) load(e *casbin.Enforcer) error {
	if len(s.Policies) > 0 {
		if _, err := e.AddPolicies(s.Policies); err != nil {
			return fmt.Errorf("failed to add policies: %w", err)
		}
	}
	if len(s.Groupings) > 0 {
		if _, err := e.AddGroupingPolicies(s.Groupings); err != nil {
			return fmt.Errorf("failed to add grouping policies: %w", err)
		}
	}
	return nil
}

// Allows answers a check against the snapshot.
func Allows(e *casbin.Enforcer, userID uint, scope vo.TenantScope, resource, action string) (bool, error) {
	return e.Enforce(Subject(userID), Domain(scope), resource, action)
}
