package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/marketplace/internal/domain/cart"
)

// CartStore keeps each buyer's cart as one JSON value under
// cart:<userID>. Carts expire after 30 days of inactivity; an expired
// cart reads back as empty.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client, ttl: 30 * 24 * time.Hour}
}

func key(userID string) string {
	return "cart:" + userID
}

func (s *CartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(c.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return cart.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, key(userID)).Err()
}

// Connect builds a client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
