package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

const defaultRedisExpiry = 30 * time.Minute

type RedisStoreProvider struct {
	client   *redis.Client
	ctx      context.Context
	keys     keyPrefix
	addr     string
	password string
	expiry   time.Duration
}

func (p *RedisStoreProvider) InitStores() error {
	if p.addr == "" {
		return fmt.Errorf("redis address is not set")
	}
	p.ctx = context.Background()
	p.client = redis.NewClient(&redis.Options{
		Addr:     p.addr,
		Password: p.password,
		DB:       0,
	})
	if p.expiry <= 0 {
		p.expiry = defaultRedisExpiry
	}
	return nil
}

func (p *RedisStoreProvider) GetValue(storeName, key string) (interface{}, bool) {
	val, err := p.client.HGet(p.ctx, storeName, p.keys.apply(key)).Result()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		logger.Errorf("failed to get item: %v", err)
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		logger.Errorf("failed to unmarshal value: %v", err)
		return nil, false
	}
	return value, true
}

func (p *RedisStoreProvider) StoreValue(storeName, key string, value interface{}) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to marshal value: %v", err)
		return
	}
	err = p.client.HSet(p.ctx, storeName, p.keys.apply(key), valueBytes).Err()
	if err != nil {
		logger.Errorf("failed to set item: %v", err)
		return
	}
	// expiry applies to the whole hash, refreshed on every write
	err = p.client.Expire(p.ctx, storeName, p.expiry).Err()
	if err != nil {
		logger.Errorf("failed to set expiration: %v", err)
	}
}

func (p *RedisStoreProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	prefix := p.keys.apply(keyPrefix)
	items := make(map[string]interface{})
	vals, err := p.client.HGetAll(p.ctx, storeName).Result()
	if err != nil {
		logger.Errorf("failed to get items: %v", err)
		return nil
	}
	for key, val := range vals {
		if strings.HasPrefix(key, prefix) {
			var value interface{}
			if err := json.Unmarshal([]byte(val), &value); err != nil {
				logger.Errorf("failed to unmarshal value: %v", err)
				continue
			}
			items[p.keys.remove(key)] = value
		}
	}
	return items
}

func (p *RedisStoreProvider) DeleteValue(storeName, key string) {
	err := p.client.HDel(p.ctx, storeName, p.keys.apply(key)).Err()
	if err != nil {
		logger.Errorf("failed to delete item: %v", err)
	}
}

func (p *RedisStoreProvider) DeleteStore(storeName string) {
	err := p.client.Del(p.ctx, storeName).Err()
	if err != nil {
		logger.Errorf("failed to delete store: %v", err)
	}
}

func parseExpiration(raw string) time.Duration {
	if raw == "" {
		return defaultRedisExpiry
	}
	expiration, err := time.ParseDuration(raw)
	if err != nil {
		logger.Errorf("invalid expiration duration: %v", err)
		return defaultRedisExpiry
	}
	return expiration
}
