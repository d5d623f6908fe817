package users_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/taskflow/internal/models"
	"github.com/magabrotheeeer/taskflow/internal/services/users"
	"github.com/magabrotheeeer/taskflow/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func TestService_Me(t *testing.T) {
	code := "123456"
	tests := []struct {
		name    string
		user    *models.User
		err     error
		wantErr error
	}{
		{
			name: "found",
			user: &models.User{UUID: "u1", Username: "alice", Email: "alice@example.com",
				PasswordHash: "hash", Role: models.RoleUser, VerificationCode: &code},
		},
		{
			name:    "deleted after token was issued",
			err:     fmt.Errorf("storage.GetUserByUID: %w", storage.ErrUserNotFound),
			wantErr: users.ErrUserNotFound,
		},
		{
			name:    "database error",
			err:     errors.New("boom"),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("GetUserByUID", mock.Anything, "u1").Return(tt.user, tt.err).Once()
			svc := users.New(repo)

			got, err := svc.Me(context.Background(), "u1")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.err != nil:
				require.Error(t, err)
				assert.NotErrorIs(t, err, users.ErrUserNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, models.UserResponse{
					UUID: "u1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser,
				}, *got)
			}
		})
	}
}

func TestService_ListAll(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListUsers", mock.Anything).Return([]models.User{
		{UUID: "u1", Username: "alice", Role: models.RoleAdmin, Enabled: true, PasswordHash: "h1"},
		{UUID: "u2", Username: "bob", Role: models.RoleUser, PasswordHash: "h2"},
	}, nil).Once()
	svc := users.New(repo)

	got, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].UUID)
	assert.True(t, got[0].Enabled)
	assert.Equal(t, models.RoleUser, got[1].Role)
}

func TestService_ListAllEmpty(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListUsers", mock.Anything).Return([]models.User{}, nil).Once()

	got, err := users.New(repo).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
