package usecases

import (
	"context"
	"fmt"

	"adpilot/internal/domain/user"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

// GetCurrentUserUseCase loads the authenticated user's record.
type GetCurrentUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetCurrentUserUseCase(userRepo user.Repository, logger logger.Interface) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uint) (*user.User, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user ID cannot be zero")
	}

	userEntity, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if userEntity == nil {
		uc.logger.Warnw("user not found", "id", userID)
		return nil, errors.NewNotFoundError("user not found")
	}

	return userEntity, nil
}
