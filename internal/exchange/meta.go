package exchange

import (
	"fmt"
	"net/http"
)

// Meta is the mutable metadata attached to a request or a response: a headers
// bucket plus arbitrary key/value entries.
type Meta struct {
	Headers http.Header
	Values  map[string]interface{}
}

// NewMeta returns empty metadata
func NewMeta() *Meta {
	return &Meta{
		Headers: make(http.Header),
		Values:  make(map[string]interface{}),
	}
}

// Put stores a value under key
func (m *Meta) Put(key string, value interface{}) {
	if m.Values == nil {
		m.Values = make(map[string]interface{})
	}
	m.Values[key] = value
}

// Get returns the value stored under key
func (m *Meta) Get(key string) (interface{}, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// String returns the value stored under key as a string, or "" if absent
func (m *Meta) String(key string) string {
	v, ok := m.Values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Header returns the headers bucket, creating it if needed
func (m *Meta) Header() http.Header {
	if m.Headers == nil {
		m.Headers = make(http.Header)
	}
	return m.Headers
}
