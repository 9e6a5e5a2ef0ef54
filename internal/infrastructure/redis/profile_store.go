package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docgate/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ProfileStore keeps user profile records in Redis as JSON values.
// Implements domain.ProfileStore.
type ProfileStore struct {
	client redis.UniversalClient
	prefix string
}

// NewProfileStore creates a Redis-backed profile store.
func NewProfileStore(client redis.UniversalClient) *ProfileStore {
	return &ProfileStore{client: client, prefix: "profile:"}
}

// Get returns the profile for userID, or domain.ErrProfileNotFound.
func (s *ProfileStore) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if userID == "" {
		return domain.Profile{}, domain.ErrProfileNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("redis get: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return profile, nil
}

// Save stores the profile. Profiles have no TTL; they live until the
// account is removed.
func (s *ProfileStore) Save(ctx context.Context, profile domain.Profile) error {
	if profile.ID == "" {
		return errors.New("profile ID cannot be empty")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.client.Set(ctx, s.prefix+profile.ID, data, 0).Err()
}
