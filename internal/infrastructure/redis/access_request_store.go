package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docgate/internal/domain"

	"github.com/redis/go-redis/v9"
)

// accessRequestIndex is the list admins page through, newest first.
const accessRequestIndex = "access_requests:index"

// AccessRequestStore persists access requests in Redis.
// Implements domain.AccessRequestStore.
type AccessRequestStore struct {
	client redis.UniversalClient
	prefix string
}

// NewAccessRequestStore creates a Redis-backed access request store.
func NewAccessRequestStore(client redis.UniversalClient) *AccessRequestStore {
	return &AccessRequestStore{client: client, prefix: "access_request:"}
}

// Save stores req and pushes its ID onto the review index.
func (s *AccessRequestStore) Save(ctx context.Context, req domain.AccessRequest) error {
	if req.ID == "" {
		return errors.New("access request ID cannot be empty")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal access request: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+req.ID, data, 0)
	pipe.LPush(ctx, accessRequestIndex, req.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

// Get returns a stored request by ID.
func (s *AccessRequestStore) Get(ctx context.Context, id string) (domain.AccessRequest, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AccessRequest{}, fmt.Errorf("access request %q not found", id)
		}
		return domain.AccessRequest{}, fmt.Errorf("redis get: %w", err)
	}

	var req domain.AccessRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return domain.AccessRequest{}, fmt.Errorf("unmarshal access request: %w", err)
	}
	return req, nil
}
