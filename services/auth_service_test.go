package services

import (
	"context"
	"testing"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memory.NewUserRepository(), []string{"Root@Example.com"})

	user, err := svc.Register(ctx, RegisterInput{Email: "player@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)

	admin, err := svc.Register(ctx, RegisterInput{Email: "root@example.com", Password: "battery staple"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Register(ctx, RegisterInput{Email: "PLAYER@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	logged, err := svc.Login(ctx, LoginInput{Email: "player@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "player@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
