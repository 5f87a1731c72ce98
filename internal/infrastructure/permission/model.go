// Package permission exports the assignment ledger as a casbin policy.
// The export is an offline audit artifact; request-time checks never read it.
package permission

import (
	"strconv"

	"github.com/casbin/casbin/v2/model"

	vo "adpilot/internal/domain/permission/valueobjects"
)

// SystemDomain is the casbin domain of system-wide assignments.
const SystemDomain = "*"

// rbacWithDomains mirrors the evaluator: a role held in the requested tenant
// or system-wide grants every permission bound to it.
const rbacWithDomains = `
[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub, r.dom) || g(r.sub, p.sub, "*")) && r.obj == p.obj && r.act == p.act
`

// NewModel returns the RBAC-with-domains model used by exports.
func NewModel() (model.Model, error) {
	return model.NewModelFromString(rbacWithDomains)
}

// Subject is the casbin subject of a user.
func Subject(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

// Domain is the casbin domain of a tenant scope.
func Domain(scope vo.TenantScope) string {
	if scope.IsSystemWide() {
		return SystemDomain
	}
	return strconv.FormatUint(uint64(scope.Value()), 10)
}
