package store

import (
	"fmt"
	"strings"

	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// StoreProvider interface defines the contract for store implementations.
// Implementations must be safe for concurrent use.
type StoreProvider interface {
	InitStores() error
	GetValue(storeName, key string) (interface{}, bool)
	StoreValue(storeName, key string, value interface{})
	GetAllValues(storeName, keyPrefix string) map[string]interface{}
	DeleteValue(storeName, key string)
	DeleteStore(storeName string)
}

// Store represents a handle to a specific named store
type Store struct {
	name     string
	provider StoreProvider
}

// Open returns a handle to a specific store
func Open(storeName string, provider StoreProvider) *Store {
	return &Store{
		name:     storeName,
		provider: provider,
	}
}

// Name returns the store name
func (s *Store) Name() string {
	return s.name
}

// GetValue retrieves a value from the store
func (s *Store) GetValue(key string) (interface{}, bool) {
	return s.provider.GetValue(s.name, key)
}

// StoreValue stores a value in the store
func (s *Store) StoreValue(key string, value interface{}) {
	s.provider.StoreValue(s.name, key, value)
}

// GetAllValues retrieves all values from the store with an optional prefix
func (s *Store) GetAllValues(keyPrefix string) map[string]interface{} {
	return s.provider.GetAllValues(s.name, keyPrefix)
}

// DeleteValue removes a value from the store
func (s *Store) DeleteValue(key string) {
	s.provider.DeleteValue(s.name, key)
}

// NewStoreProvider creates and initialises the provider selected by cfg.Driver
func NewStoreProvider(cfg config.StoreConfig) (StoreProvider, error) {
	var provider StoreProvider
	switch cfg.Driver {
	case "store-dynamodb":
		provider = &DynamoDBStoreProvider{
			keys:      keyPrefix(cfg.KeyPrefix),
			tableName: cfg.DynamoDBTable,
			region:    cfg.AWSRegion,
		}
	case "store-redis":
		provider = &RedisStoreProvider{
			keys:     keyPrefix(cfg.KeyPrefix),
			addr:     cfg.RedisAddr,
			password: cfg.RedisPassword,
			expiry:   parseExpiration(cfg.RedisExpiry),
		}
	case "", "store-inmemory":
		provider = NewInMemoryStoreProvider(keyPrefix(cfg.KeyPrefix), inMemoryTTL())
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
	if err := provider.InitStores(); err != nil {
		return nil, fmt.Errorf("failed to initialise %s: %w", cfg.Driver, err)
	}
	logger.Debugf("initialised store provider %T", provider)
	return provider, nil
}

// keyPrefix namespaces keys so several gateways can share one backing store
type keyPrefix string

func (p keyPrefix) apply(key string) string {
	if p != "" {
		return string(p) + "." + key
	}
	return key
}

func (p keyPrefix) remove(key string) string {
	if p != "" {
		return strings.TrimPrefix(key, string(p)+".")
	}
	return key
}
