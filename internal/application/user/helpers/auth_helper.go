package helpers

import (
	"adpilot/internal/domain/user"
	"adpilot/internal/shared/errors"
)

// ValidateUserCanLogin rejects accounts that cannot authenticate with a
// password. Missing passwords report invalid credentials so the response
// does not reveal how the account was provisioned.
func ValidateUserCanLogin(u *user.User) error {
	if u.PasswordHash() == "" {
		return errors.NewInvalidCredentialsError()
	}
	if !u.IsActive() {
		return errors.NewAccountInactiveError()
	}
	return nil
}
