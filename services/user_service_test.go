package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, repo *memory.UserRepository, roles ...models.UserRole) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(roles))
	for i, role := range roles {
		u := &models.User{Email: string(rune('a'+i)) + "@example.com", PasswordHash: "x", Role: role}
		require.NoError(t, repo.Create(context.Background(), u))
		users = append(users, u)
	}
	return users
}

func TestPromoteToDirector(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	users := seedUsers(t, repo, models.RoleAdmin, models.RoleDirector, models.RoleUser)
	svc := NewUserService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	promoted, err := svc.PromoteToDirector(ctx, users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, promoted.Role)

	stored, err := svc.GetUser(ctx, users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, stored.Role)

	testCases := []struct {
		name    string
		userID  int
		wantErr error
	}{
		{name: "admin", userID: users[0].ID, wantErr: ErrAlreadyPrivileged},
		{name: "director", userID: users[1].ID, wantErr: ErrAlreadyPrivileged},
		{name: "promoted twice", userID: users[2].ID, wantErr: ErrAlreadyPrivileged},
		{name: "missing", userID: 404, wantErr: ErrUserNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PromoteToDirector(ctx, tc.userID)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestListAndDeleteUsers(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	users := seedUsers(t, repo, models.RoleAdmin, models.RoleUser, models.RoleUser)
	svc := NewUserService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	list, err := svc.ListUsers(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, users[0].ID, list[0].ID)

	admin := users[0].ID
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, admin), ErrForbiddenOperation)

	require.NoError(t, svc.DeleteUser(ctx, admin, users[1].ID))
	_, err = svc.GetUser(ctx, users[1].ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, admin, users[1].ID), ErrUserNotFound)

	list, err = svc.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
