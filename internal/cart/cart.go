// Package cart is the session-scoped cart store, backed by Redis hashes so a
// cart survives page loads but expires with the shopping session.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"printcraft-service/internal/models"
	"printcraft-service/internal/redisclient"
	"printcraft-service/internal/util"

	"github.com/go-redis/redis/v8"
)

// Item is one cart line: a resolved product configuration plus how many of
// that configured garment the customer wants
type Item struct {
	Config   models.ProductConfiguration `json:"config"`
	Quantity int                         `json:"quantity"`
	AddedAt  time.Time                   `json:"added_at"`
}

// Store keeps one cart per session key
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a cart store with a per-cart TTL
func NewStore(client *redisclient.Client, ttl time.Duration) *Store {
	return &Store{rdb: client.GetClient(), ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// AddItem puts a fully resolved configuration into the cart
func (s *Store) AddItem(ctx context.Context, sessionID string, cfg *models.ProductConfiguration) error {
	item := Item{
		Config:   *cfg,
		Quantity: cfg.GarmentQuantity,
		AddedAt:  time.Now(),
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal cart item: %w", err)
	}

	key := cartKey(sessionID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, cfg.ID, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store cart item: %w", err)
	}

	util.CartItemsTotal.WithLabelValues("add").Inc()
	return nil
}

// UpdateQuantity changes the garment quantity of a cart line
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	item, err := s.getItem(ctx, sessionID, itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal cart item: %w", err)
	}
	if err := s.rdb.HSet(ctx, cartKey(sessionID), itemID, data).Err(); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	util.CartItemsTotal.WithLabelValues("update").Inc()
	return nil
}

// RemoveItem deletes a cart line
func (s *Store) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	n, err := s.rdb.HDel(ctx, cartKey(sessionID), itemID).Result()
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cart item not found: %s", itemID)
	}
	util.CartItemsTotal.WithLabelValues("remove").Inc()
	return nil
}

// Items returns all cart lines for a session
func (s *Store) Items(ctx context.Context, sessionID string) ([]Item, error) {
	entries, err := s.rdb.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, raw := range entries {
		var item Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("corrupt cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Total sums transfer totals plus garment subtotals across the cart, in cents
func (s *Store) Total(ctx context.Context, sessionID string) (int64, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, item := range items {
		total += item.Config.TransferTotal + item.Config.GarmentBasePrice*int64(item.Quantity)
	}
	return total, nil
}

// Count returns the number of cart lines
func (s *Store) Count(ctx context.Context, sessionID string) (int64, error) {
	return s.rdb.HLen(ctx, cartKey(sessionID)).Result()
}

// Clear empties a session's cart, e.g. after checkout
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}

func (s *Store) getItem(ctx context.Context, sessionID, itemID string) (*Item, error) {
	raw, err := s.rdb.HGet(ctx, cartKey(sessionID), itemID).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("cart item not found: %s", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart item: %w", err)
	}
	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("corrupt cart item: %w", err)
	}
	return &item, nil
}
