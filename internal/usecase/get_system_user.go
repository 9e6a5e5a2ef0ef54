package usecase

import (
	"context"
	"log/slog"

	"docgate/internal/domain"
)

// GetSystemUser retrieves the system user ID from the identity provider.
type GetSystemUser struct {
	admin  domain.IdentityAdmin
	logger *slog.Logger
}

// NewGetSystemUser creates a new GetSystemUser usecase.
func NewGetSystemUser(a domain.IdentityAdmin, l *slog.Logger) *GetSystemUser {
	return &GetSystemUser{admin: a, logger: l}
}

// Execute fetches the first identity ID for internal service operations.
func (uc *GetSystemUser) Execute(ctx context.Context) (string, error) {
	userID, err := uc.admin.GetFirstIdentityID(ctx)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to fetch system user", "error", err)
		return "", err
	}
	return userID, nil
}
