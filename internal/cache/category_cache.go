// Package cache provides an optional lookup cache for categories keyed by
// their normalized name. Storage stays the source of truth: cache failures
// are logged and treated as misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/task-category-api/internal/models"
)

// CategoryCache maps normalized category names to stored categories
type CategoryCache interface {
	Get(ctx context.Context, name string) (*models.Category, bool)
	Set(ctx context.Context, category models.Category)
	Delete(ctx context.Context, name string)
}

// Noop is used when no cache backend is configured
type Noop struct{}

// Get always misses
func (Noop) Get(context.Context, string) (*models.Category, bool) { return nil, false }

// Set discards the category
func (Noop) Set(context.Context, models.Category) {}

// Delete does nothing
func (Noop) Delete(context.Context, string) {}

type cachedCategory struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RedisCategoryCache stores categories as JSON under a key prefix
type RedisCategoryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCategoryCache connects to Redis and verifies the connection
func NewRedisCategoryCache(redisURL string, ttl time.Duration) (*RedisCategoryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisCategoryCacheWithClient(client, ttl), nil
}

// NewRedisCategoryCacheWithClient creates a cache from an existing Redis client
func NewRedisCategoryCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{
		client: client,
		prefix: "category:",
		ttl:    ttl,
	}
}

func (c *RedisCategoryCache) key(name string) string {
	return c.prefix + name
}

// Get returns the cached category for a normalized name
func (c *RedisCategoryCache) Get(ctx context.Context, name string) (*models.Category, bool) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("category cache: get %q: %v", name, err)
		return nil, false
	}

	var data cachedCategory
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("category cache: decode %q: %v", name, err)
		return nil, false
	}

	return &models.Category{ID: data.ID, Name: data.Name}, true
}

// Set stores a category under its name
func (c *RedisCategoryCache) Set(ctx context.Context, category models.Category) {
	raw, err := json.Marshal(cachedCategory{ID: category.ID, Name: category.Name})
	if err != nil {
		log.Printf("category cache: encode %q: %v", category.Name, err)
		return
	}
	if err := c.client.Set(ctx, c.key(category.Name), raw, c.ttl).Err(); err != nil {
		log.Printf("category cache: set %q: %v", category.Name, err)
	}
}

// Delete evicts a name
func (c *RedisCategoryCache) Delete(ctx context.Context, name string) {
	if err := c.client.Del(ctx, c.key(name)).Err(); err != nil {
		log.Printf("category cache: delete %q: %v", name, err)
	}
}

// Ping checks if Redis is reachable
func (c *RedisCategoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCategoryCache) Close() error {
	return c.client.Close()
}
