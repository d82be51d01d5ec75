package store

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

type InMemoryStoreProvider struct {
	mu     sync.RWMutex
	stores map[string]*storeData
	keys   keyPrefix
	ttl    time.Duration
	now    func() time.Time
}

type storeData struct {
	data map[string]*entry
}

type entry struct {
	value   interface{}
	expires time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// NewInMemoryStoreProvider creates an in-memory provider. A ttl of zero keeps
// values until they are deleted.
func NewInMemoryStoreProvider(prefix keyPrefix, ttl time.Duration) *InMemoryStoreProvider {
	return &InMemoryStoreProvider{keys: prefix, ttl: ttl, now: time.Now}
}

func (p *InMemoryStoreProvider) InitStores() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores = make(map[string]*storeData)
	if p.now == nil {
		p.now = time.Now
	}
	return nil
}

func (p *InMemoryStoreProvider) GetValue(storeName, key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	store, ok := p.stores[storeName]
	if !ok {
		return nil, false
	}
	e, found := store.data[p.keys.apply(key)]
	if !found || e.expired(p.now()) {
		return nil, false
	}
	return e.value, true
}

func (p *InMemoryStoreProvider) StoreValue(storeName, key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.stores[storeName]; !ok {
		p.stores[storeName] = &storeData{data: make(map[string]*entry)}
	}
	e := &entry{value: value}
	if p.ttl > 0 {
		e.expires = p.now().Add(p.ttl)
	}
	p.stores[storeName].data[p.keys.apply(key)] = e
}

func (p *InMemoryStoreProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	store, ok := p.stores[storeName]
	if !ok {
		return nil
	}
	now := p.now()
	result := make(map[string]interface{})
	prefix := p.keys.apply(keyPrefix)
	for k, e := range store.data {
		if strings.HasPrefix(k, prefix) && !e.expired(now) {
			result[p.keys.remove(k)] = e.value
		}
	}
	return result
}

func (p *InMemoryStoreProvider) DeleteValue(storeName, key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if store, ok := p.stores[storeName]; ok {
		delete(store.data, p.keys.apply(key))
	}
}

func (p *InMemoryStoreProvider) DeleteStore(storeName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stores, storeName)
}

// inMemoryTTL reads GATEWAY_STORE_INMEMORY_TTL, in seconds
func inMemoryTTL() time.Duration {
	raw := os.Getenv("GATEWAY_STORE_INMEMORY_TTL")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		logger.Warnf("invalid GATEWAY_STORE_INMEMORY_TTL %q - values will not expire", raw)
		return 0
	}
	return time.Duration(secs) * time.Second
}
