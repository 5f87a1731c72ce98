package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adpilot/internal/domain/user"
	vo "adpilot/internal/domain/user/valueobjects"
	"adpilot/internal/shared/constants"
	"adpilot/internal/shared/errors"
	"adpilot/internal/shared/logger"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ListTenantMembers(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) ListSystemAdministrators(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

// plainHasher treats "hash:<pw>" as the hash of pw.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hash:"+password {
		return stderrors.New("mismatch")
	}
	return nil
}

type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) Generate(userID uint, tenantID *uint, roles []string) (*TokenPair, error) {
	args := m.Called(userID, tenantID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

type roleReaderFunc func(ctx context.Context, userID uint) ([]string, error)

func (f roleReaderFunc) GetRoles(ctx context.Context, userID uint) ([]string, error) {
	return f(ctx, userID)
}

func staticRoles(roles ...string) RoleReader {
	return roleReaderFunc(func(context.Context, uint) ([]string, error) { return roles, nil })
}

func testUser(t *testing.T, status string) *user.User {
	t.Helper()
	email, err := vo.NewEmail("jane@acme.io")
	require.NoError(t, err)
	tenantID := uint(3)
	u, err := user.ReconstructUser(7, email, "Jane", "hash:correct-horse", &tenantID, false, status, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

func TestLoginWithPassword_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	jwt := new(mockJWT)
	u := testUser(t, constants.UserStatusActive)

	repo.On("GetByEmail", ctx, "jane@acme.io").Return(u, nil)
	jwt.On("Generate", uint(7), mock.MatchedBy(func(id *uint) bool { return id != nil && *id == 3 }), []string{"tenant_user"}).
		Return(&TokenPair{AccessToken: "signed", ExpiresIn: 3600}, nil)

	uc := NewLoginWithPasswordUseCase(repo, plainHasher{}, jwt, staticRoles("tenant_user"), logger.NewNopLogger())
	result, err := uc.Execute(ctx, LoginWithPasswordCommand{Email: "jane@acme.io", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "signed", result.AccessToken)
	assert.Equal(t, []string{"tenant_user"}, result.Roles)
	repo.AssertExpectations(t)
	jwt.AssertExpectations(t)
}

func TestLoginWithPassword_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		found    *user.User
		password string
		wantType errors.ErrorType
	}{
		{"unknown email", nil, "whatever", errors.ErrorTypeInvalidCredentials},
		{"wrong password", testUser(t, constants.UserStatusActive), "wrong", errors.ErrorTypeInvalidCredentials},
		{"inactive account", testUser(t, constants.UserStatusInactive), "correct-horse", errors.ErrorTypeAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			if tt.found == nil {
				repo.On("GetByEmail", ctx, "jane@acme.io").Return(nil, nil)
			} else {
				repo.On("GetByEmail", ctx, "jane@acme.io").Return(tt.found, nil)
			}
			jwt := new(mockJWT)

			uc := NewLoginWithPasswordUseCase(repo, plainHasher{}, jwt, staticRoles(), logger.NewNopLogger())
			_, err := uc.Execute(ctx, LoginWithPasswordCommand{Email: "jane@acme.io", Password: tt.password})

			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr, "got %v", err)
			assert.Equal(t, tt.wantType, appErr.Type)
			jwt.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLoginWithPassword_RoleLookupFailurePropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("GetByEmail", ctx, "jane@acme.io").Return(testUser(t, constants.UserStatusActive), nil)
	storeDown := stderrors.New("ledger unavailable")

	uc := NewLoginWithPasswordUseCase(repo, plainHasher{}, new(mockJWT),
		roleReaderFunc(func(context.Context, uint) ([]string, error) { return nil, storeDown }),
		logger.NewNopLogger())

	_, err := uc.Execute(ctx, LoginWithPasswordCommand{Email: "jane@acme.io", Password: "correct-horse"})
	assert.ErrorIs(t, err, storeDown)
	assert.Nil(t, errors.GetAppError(err), "a storage fault is not a credential error")
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	u := testUser(t, constants.UserStatusActive)
	repo.On("GetByID", ctx, uint(7)).Return(u, nil)
	repo.On("GetByID", ctx, uint(8)).Return(nil, nil)

	uc := NewGetCurrentUserUseCase(repo, logger.NewNopLogger())

	got, err := uc.Execute(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name())

	_, err = uc.Execute(ctx, 8)
	assert.True(t, errors.IsNotFoundError(err))

	_, err = uc.Execute(ctx, 0)
	assert.True(t, errors.IsValidationError(err))
}
