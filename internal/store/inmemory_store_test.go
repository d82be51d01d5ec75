package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInMemoryTest(t *testing.T, prefix keyPrefix, ttl time.Duration) *InMemoryStoreProvider {
	provider := NewInMemoryStoreProvider(prefix, ttl)
	require.NoError(t, provider.InitStores())
	return provider
}

func TestInMemoryStoreProvider(t *testing.T) {
	provider := setupInMemoryTest(t, "", 0)

	t.Run("StoreAndGetValue", func(t *testing.T) {
		provider.StoreValue("test", "key1", "value1")
		val, found := provider.GetValue("test", "key1")
		assert.True(t, found)
		assert.Equal(t, "value1", val)
	})

	t.Run("GetNonExistentValue", func(t *testing.T) {
		_, found := provider.GetValue("test", "nonexistent")
		assert.False(t, found)

		_, found = provider.GetValue("missing-store", "key1")
		assert.False(t, found)
	})

	t.Run("GetAllValues", func(t *testing.T) {
		provider.DeleteStore("test")
		provider.StoreValue("test", "prefix.key1", "value1")
		provider.StoreValue("test", "prefix.key2", "value2")
		provider.StoreValue("test", "other.key3", "value3")

		values := provider.GetAllValues("test", "prefix")
		assert.Equal(t, map[string]interface{}{
			"prefix.key1": "value1",
			"prefix.key2": "value2",
		}, values)
	})

	t.Run("DeleteValue", func(t *testing.T) {
		provider.StoreValue("test", "key2", "value2")
		provider.DeleteValue("test", "key2")
		_, found := provider.GetValue("test", "key2")
		assert.False(t, found)
	})

	t.Run("DeleteStore", func(t *testing.T) {
		provider.StoreValue("test", "key3", "value3")
		provider.DeleteStore("test")
		assert.Nil(t, provider.GetAllValues("test", ""))
	})
}

func TestInMemoryStoreProvider_KeyPrefix(t *testing.T) {
	provider := setupInMemoryTest(t, "gw1", 0)

	provider.StoreValue("test", "key1", "value1")
	assert.Contains(t, provider.stores["test"].data, "gw1.key1")

	val, found := provider.GetValue("test", "key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	assert.Equal(t, map[string]interface{}{"key1": "value1"}, provider.GetAllValues("test", ""))
}

func TestInMemoryStoreProvider_Expiry(t *testing.T) {
	provider := setupInMemoryTest(t, "", time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }

	provider.StoreValue("test", "key1", "value1")

	now = now.Add(30 * time.Second)
	_, found := provider.GetValue("test", "key1")
	assert.True(t, found)

	now = now.Add(time.Minute)
	_, found = provider.GetValue("test", "key1")
	assert.False(t, found)
	assert.Empty(t, provider.GetAllValues("test", ""))
}

func TestInMemoryTTL(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{name: "unset", env: "", want: 0},
		{name: "seconds", env: "90", want: 90 * time.Second},
		{name: "invalid", env: "soon", want: 0},
		{name: "negative", env: "-5", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GATEWAY_STORE_INMEMORY_TTL", tt.env)
			assert.Equal(t, tt.want, inMemoryTTL())
		})
	}
}
