package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/service"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("HashesTheCredential", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := service.NewUserService(repo)

		var created *domain.User
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
			created.ID = "u1"
		}).Return(nil)

		user, err := svc.CreateUser(ctx, "Alice", "s3cret", 5000)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.NotEqual(t, "s3cret", user.CredentialHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte("s3cret")))
		assert.Equal(t, int64(5000), user.BalanceCents)
		assert.Equal(t, domain.UserRoleMember, user.Role)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("RejectsMissingFields", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepo))

		_, err := svc.CreateUser(ctx, "", "s3cret", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)

		_, err = svc.CreateUser(ctx, "Alice", "", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Delete", ctx, "u1").Return(nil)
	require.NoError(t, svc.DeleteUser(ctx, "u1"))
	repo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("List", ctx).Return([]domain.User{{ID: "u1", Name: "Alice"}}, nil)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
}
