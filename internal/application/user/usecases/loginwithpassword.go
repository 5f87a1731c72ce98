package usecases

import (
	"context"
	"fmt"

	"adpilot/internal/application/user/helpers"
	"adpilot/internal/domain/user"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

type TokenPair struct {
	AccessToken string
	ExpiresIn   int64
}

type JWTService interface {
	Generate(userID uint, tenantID *uint, roles []string) (*TokenPair, error)
}

// RoleReader lists the role names a user currently holds. They are copied
// into the token for display; authorization always re-reads the ledger.
type RoleReader interface {
	GetRoles(ctx context.Context, userID uint) ([]string, error)
}

type LoginWithPasswordCommand struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginWithPasswordResult struct {
	User        *user.User
	Roles       []string
	AccessToken string
	ExpiresIn   int64
}

type LoginWithPasswordUseCase struct {
	userRepo       user.Repository
	passwordHasher user.PasswordHasher
	jwtService     JWTService
	roles          RoleReader
	logger         logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	jwtService JWTService,
	roles RoleReader,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
		jwtService:     jwtService,
		roles:          roles,
		logger:         logger,
	}
}

func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*LoginWithPasswordResult, error) {
	existingUser, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Same error for unknown email and wrong password.
	if existingUser == nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if validationErr := helpers.ValidateUserCanLogin(existingUser); validationErr != nil {
		return nil, validationErr
	}

	if err := existingUser.VerifyPassword(cmd.Password, uc.passwordHasher); err != nil {
		uc.logger.Warnw("failed login attempt", "user_id", existingUser.ID(), "ip", cmd.IPAddress)
		return nil, errors.NewInvalidCredentialsError()
	}

	roles, err := uc.roles.GetRoles(ctx, existingUser.ID())
	if err != nil {
		uc.logger.Errorw("failed to load roles for token", "user_id", existingUser.ID(), "error", err)
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	tokens, err := uc.jwtService.Generate(existingUser.ID(), existingUser.TenantID(), roles)
	if err != nil {
		uc.logger.Errorw("failed to generate token", "user_id", existingUser.ID(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Infow("user logged in successfully", "user_id", existingUser.ID(), "ip", cmd.IPAddress)

	return &LoginWithPasswordResult{
		User:        existingUser,
		Roles:       roles,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, nil
}
