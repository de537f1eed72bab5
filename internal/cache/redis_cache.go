package cache

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
)

// RedisProductCache implementa ProductCache sobre Redis
type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache cria o cache apontando para o endereço informado
func NewRedisProductCache(addr, password string, db int) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisProductCache{client: client}
}

// NewProductCacheFromEnv cria o cache a partir de REDIS_ADDR; quando a
// variável está vazia o cache é desativado
func NewProductCacheFromEnv() ProductCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return NoopProductCache{}
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return NewRedisProductCache(addr, os.Getenv("REDIS_PASSWORD"), db)
}

// Ping verifica a conexão com o Redis
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close fecha a conexão com o Redis
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func productKey(productID string) string {
	return "pdv:product:" + productID
}

// Get busca um produto no cache
func (c *RedisProductCache) Get(ctx context.Context, productID string) (*product.Product, bool, error) {
	val, err := c.client.Get(ctx, productKey(productID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p product.Product
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// Set grava um produto no cache
func (c *RedisProductCache) Set(ctx context.Context, p *product.Product, ttl time.Duration) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(p.ID), payload, ttl).Err()
}

// Invalidate remove um produto do cache
func (c *RedisProductCache) Invalidate(ctx context.Context, productID string) error {
	return c.client.Del(ctx, productKey(productID)).Err()
}
