package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, catalog.Permissions, 16)
	require.Len(t, catalog.Roles, 3)

	grants := map[string][]string{}
	for _, r := range catalog.Roles {
		assert.True(t, r.IsSystem, r.Name)
		grants[r.Name] = catalog.ExpandGrants(r)
	}

	assert.Len(t, grants["super_admin"], 16)
	assert.Contains(t, grants["super_admin"], "system:admin")

	assert.Len(t, grants["tenant_admin"], 12)
	assert.Contains(t, grants["tenant_admin"], "role:assign")
	assert.NotContains(t, grants["tenant_admin"], "tenant:create")
	assert.NotContains(t, grants["tenant_admin"], "role:manage")

	assert.Equal(t, []string{"metric:read", "tenant:read", "user:read"}, grants["tenant_user"])
}

func TestParseCatalog_RejectsUnknownPermissionReference(t *testing.T) {
	_, err := ParseCatalog([]byte(`
permissions:
  - { resource: campaign, action: read }
roles:
  - name: viewer
    permissions: [campaign:read, campaign:delete]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campaign:delete")
}

func TestParseCatalog_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseCatalog([]byte(`
permissions:
  - { resource: campaign, action: read, scope: tenant }
`))
	assert.Error(t, err)
}

func TestLoadCatalog_EmptyPathUsesEmbedded(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Roles)
}
