package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docgate/internal/domain"

	"github.com/google/uuid"
)

// notifyTimeout bounds the background notification delivery.
const notifyTimeout = 10 * time.Second

// RequestAccess stores an access request from a user who is not on the
// allowlist and notifies an admin. Notification is fire-and-forget: a
// delivery failure is logged, never surfaced to the requester, and never
// blocks the response.
type RequestAccess struct {
	store    domain.AccessRequestStore
	notifier domain.AccessNotifier
	logger   *slog.Logger
}

// NewRequestAccess creates a new RequestAccess usecase.
func NewRequestAccess(store domain.AccessRequestStore, notifier domain.AccessNotifier, logger *slog.Logger) *RequestAccess {
	return &RequestAccess{store: store, notifier: notifier, logger: logger}
}

// Execute validates and persists the request, then dispatches the admin
// notification in the background.
func (uc *RequestAccess) Execute(ctx context.Context, fullName, email, company, reason string) (domain.AccessRequest, error) {
	if !domain.IsValidEmail(email) {
		return domain.AccessRequest{}, fmt.Errorf("invalid email address: %q", domain.MaskEmail(email))
	}
	if fullName == "" {
		return domain.AccessRequest{}, fmt.Errorf("full name is required")
	}

	req := domain.AccessRequest{
		ID:        uuid.NewString(),
		FullName:  fullName,
		Email:     email,
		Company:   company,
		Reason:    reason,
		Status:    domain.AccessRequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.Save(ctx, req); err != nil {
		return domain.AccessRequest{}, fmt.Errorf("store access request: %w", err)
	}

	uc.logger.InfoContext(ctx, "access request stored",
		"request_id", req.ID,
		"email", domain.MaskEmail(req.Email))

	go uc.notify(req)

	return req, nil
}

// notify runs detached from the request context so a slow admin channel
// cannot hold the response.
func (uc *RequestAccess) notify(req domain.AccessRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := uc.notifier.NotifyAccessRequest(ctx, req); err != nil {
		uc.logger.ErrorContext(ctx, "access request notification failed",
			"request_id", req.ID, "error", err)
		return
	}
	uc.logger.InfoContext(ctx, "access request notification sent", "request_id", req.ID)
}
