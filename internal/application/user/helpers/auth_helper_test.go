package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/domain/user"
	vo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
)

func reconstruct(t *testing.T, passwordHash, status string) *user.User {
	t.Helper()
	email, err := vo.NewEmail("jane@acme.io")
	require.NoError(t, err)
	u, err := user.ReconstructUser(1, email, "Jane", passwordHash, nil, false, status, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

func TestValidateUserCanLogin(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		status   string
		wantType errors.ErrorType
	}{
		{"active with password", "$2a$04$hash", constants.UserStatusActive, ""},
		{"no password", "", constants.UserStatusActive, errors.ErrorTypeInvalidCredentials},
		{"inactive", "$2a$04$hash", constants.UserStatusInactive, errors.ErrorTypeAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserCanLogin(reconstruct(t, tt.hash, tt.status))
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}
}
