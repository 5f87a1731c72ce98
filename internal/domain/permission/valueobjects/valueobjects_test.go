package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"tenant", false},
		{"ad_campaign", false},
		{"", true},
		{"Tenant", true},
		{"tenant:read", true},
		{"9lives", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := NewResource(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, r.String())
		})
	}
}

func TestNewAction_OpenSet(t *testing.T) {
	a, err := NewAction("assign")
	require.NoError(t, err)
	assert.True(t, a.Equals(ActionAssign))

	a, err = NewAction("export")
	require.NoError(t, err)
	assert.Equal(t, "export", a.String())

	_, err = NewAction("")
	assert.Error(t, err)
	_, err = NewAction("read all")
	assert.Error(t, err)
}

func TestTenantScope(t *testing.T) {
	system := SystemWide()
	acme := ForTenant(7)
	other := ForTenant(8)

	assert.True(t, system.IsSystemWide())
	assert.Nil(t, system.TenantID())
	assert.Equal(t, uint(0), system.Value())
	assert.Equal(t, system, ForTenant(0))

	require.NotNil(t, acme.TenantID())
	assert.Equal(t, uint(7), *acme.TenantID())

	assert.True(t, system.Covers(acme))
	assert.True(t, system.Covers(system))
	assert.True(t, acme.Covers(acme))
	assert.False(t, acme.Covers(other))
	assert.False(t, acme.Covers(system))

	id := uint(7)
	assert.Equal(t, acme, ScopeFromPtr(&id))
	assert.Equal(t, system, ScopeFromPtr(nil))

	assert.Equal(t, []uint{7, 0}, CandidateScopes(acme))
	assert.Equal(t, []uint{0}, CandidateScopes(system))

	assert.Equal(t, "system", system.String())
	assert.Equal(t, "7", acme.String())
}
