package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "adpilot/internal/domain/permission/valueobjects"
)

func TestNewAssignment(t *testing.T) {
	a, err := NewAssignment(1, 2, vo.ForTenant(9), 5, nil)
	require.NoError(t, err)
	assert.True(t, a.IsActive())
	assert.Nil(t, a.ExpiresAt())
	assert.Equal(t, uint(5), a.AssignedBy())
	assert.False(t, a.AssignedAt().IsZero())

	_, err = NewAssignment(0, 2, vo.SystemWide(), 5, nil)
	assert.Error(t, err)
	_, err = NewAssignment(1, 0, vo.SystemWide(), 5, nil)
	assert.Error(t, err)
	_, err = NewAssignment(1, 2, vo.SystemWide(), 0, nil)
	assert.Error(t, err)

	past := time.Now().Add(-time.Minute)
	_, err = NewAssignment(1, 2, vo.SystemWide(), 5, &past)
	assert.Error(t, err)
}

func TestAssignment_Validity(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	a, err := ReconstructAssignment(1, 1, 2, vo.SystemWide(), 1, now.Add(-time.Hour), &expiry, true)
	require.NoError(t, err)

	assert.True(t, a.IsValidAt(now))
	assert.True(t, a.IsValidAt(expiry.Add(-time.Nanosecond)))
	assert.False(t, a.IsValidAt(expiry), "expiry instant itself is no longer valid")
	assert.False(t, a.IsValidAt(expiry.Add(time.Second)))

	a.Revoke()
	assert.False(t, a.IsValidAt(now))
	a.Revoke()
	assert.False(t, a.IsActive())
}

func TestAssignment_Renew(t *testing.T) {
	a, err := NewAssignment(1, 2, vo.ForTenant(3), 4, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, a.Renew(6, nil), ErrDuplicateAssignment, "an active assignment cannot be renewed")

	a.Revoke()
	future := time.Now().Add(24 * time.Hour)
	require.NoError(t, a.Renew(6, &future))
	assert.True(t, a.IsActive())
	assert.Equal(t, uint(6), a.AssignedBy())
	require.NotNil(t, a.ExpiresAt())
	assert.True(t, a.ExpiresAt().Equal(future))
}
