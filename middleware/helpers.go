package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/match-score/models"
)

var errNoClaims = errors.New("user claims not found in context or invalid type")

func claimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, errNoClaims
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// WithClaims кладет claims в контекст. Нужен тестам handlers, чтобы не подписывать токены.
func WithClaims(ctx context.Context, userID int, role models.UserRole) context.Context {
	return context.WithValue(ctx, userContextKey, &Claims{UserID: userID, Role: role})
}
