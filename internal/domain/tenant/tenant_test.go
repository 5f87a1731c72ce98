package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tn, err := NewTenant(" Acme Ads ", "acme-ads", map[string]any{"industry": "retail"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ads", tn.Name())
	assert.Equal(t, "acme-ads", tn.Slug())
	assert.True(t, tn.IsActive())
	assert.Equal(t, "retail", tn.Meta()["industry"])

	_, err = NewTenant("", "acme", nil)
	assert.Error(t, err)
	_, err = NewTenant("Acme", "Acme Ads", nil)
	assert.Error(t, err)
	_, err = NewTenant("Acme", "-acme", nil)
	assert.Error(t, err)
}

func TestTenant_SetID(t *testing.T) {
	tn, err := NewTenant("Acme", "acme", nil)
	require.NoError(t, err)
	require.NoError(t, tn.SetID(5))
	assert.Error(t, tn.SetID(6))
	assert.Equal(t, uint(5), tn.ID())
}
