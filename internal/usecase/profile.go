package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docgate/internal/domain"
)

// Profile reads and updates the user's profile record. Reads for a user
// without a record lazily create one from the identity, matching what the
// SPA expects on first login.
type Profile struct {
	store  domain.ProfileStore
	logger *slog.Logger
}

// NewProfile creates a new Profile usecase.
func NewProfile(store domain.ProfileStore, logger *slog.Logger) *Profile {
	return &Profile{store: store, logger: logger}
}

// Get returns the profile for identity, creating it on first access.
func (uc *Profile) Get(ctx context.Context, identity *domain.Identity) (domain.Profile, error) {
	if identity == nil {
		return domain.Profile{}, domain.ErrNotAuthenticated
	}

	profile, err := uc.store.Get(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return domain.Profile{}, err
	}

	now := time.Now().UTC()
	profile = domain.Profile{
		ID:        identity.UserID,
		Email:     identity.Email,
		FullName:  identity.DisplayName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.store.Save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	uc.logger.InfoContext(ctx, "profile created", "user_id", identity.UserID)
	return profile, nil
}

// Update applies the caller-editable fields. ID, email, and creation time
// stay owned by the identity provider and the store.
func (uc *Profile) Update(ctx context.Context, identity *domain.Identity, fullName string) (domain.Profile, error) {
	profile, err := uc.Get(ctx, identity)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.FullName = fullName
	profile.UpdatedAt = time.Now().UTC()
	if err := uc.store.Save(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	return profile, nil
}
