package config

const (
	DefaultCorsOrigin    = "*"
	DefaultCorsMethods   = "GET,OPTIONS,POST,PUT,DELETE"
	DefaultCookieName    = "JSESSIONID"
	DefaultCookiePostfix = "; Path=/"
	DefaultCacheCapacity = 2048
	DefaultIndexFile     = "index.html"
	DefaultStaticRoot    = "www"
)

// CorsConfig holds the static CORS headers added to successful responses.
// A nil string field means the corresponding header is not sent.
type CorsConfig struct {
	Origin         *string `yaml:"origin"`
	Methods        *string `yaml:"methods"`
	AllowedHeaders *string `yaml:"allowedHeaders"`
	ExposedHeaders *string `yaml:"exposedHeaders"`
	Credentials    bool    `yaml:"credentials"`
	MaxAge         int     `yaml:"maxAge"`
}

// NewCorsConfig returns a CorsConfig populated with the defaults
func NewCorsConfig() *CorsConfig {
	return &CorsConfig{
		Origin:  StringPtr(DefaultCorsOrigin),
		Methods: StringPtr(DefaultCorsMethods),
	}
}

// SessionConfig controls session cookie issuance
type SessionConfig struct {
	CookieName string `yaml:"cookieName"`
	// Postfix is appended to newly issued cookie values; nil means the default
	Postfix *string `yaml:"postfix"`
	// LenientParsing treats a malformed Cookie header as carrying no cookies
	// instead of failing the request
	LenientParsing bool `yaml:"lenientParsing"`
	// Tracking records every session seen in the session store
	Tracking bool `yaml:"tracking"`
}

// GetCookieName returns the configured cookie name or the default
func (s *SessionConfig) GetCookieName() string {
	if s == nil || s.CookieName == "" {
		return DefaultCookieName
	}
	return s.CookieName
}

// GetPostfix returns the configured cookie postfix or the default
func (s *SessionConfig) GetPostfix() string {
	if s == nil || s.Postfix == nil {
		return DefaultCookiePostfix
	}
	return *s.Postfix
}

// StaticConfig controls static content resolution
type StaticConfig struct {
	// Root is prefixed to request paths before resolution
	Root          string   `yaml:"root"`
	IndexFile     string   `yaml:"indexFile"`
	SearchPath    []string `yaml:"searchPath"`
	CacheCapacity int      `yaml:"cacheCapacity"`
}

// TLSConfig locates the server keystore
type TLSConfig struct {
	Keystore     string `yaml:"keystore"`
	Password     string `yaml:"password"`
	StoreType    string `yaml:"storeType"`
	ClientCAFile string `yaml:"clientCaFile"`
}

// StoreConfig selects the session store driver
type StoreConfig struct {
	Driver        string `yaml:"driver"`
	KeyPrefix     string `yaml:"keyPrefix"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisExpiry   string `yaml:"redisExpiry"`
	DynamoDBTable string `yaml:"dynamoDbTable"`
	AWSRegion     string `yaml:"awsRegion"`
}

// GatewayConfig holds application-wide configuration
type GatewayConfig struct {
	ServerPort string         `yaml:"port"`
	ConfigDir  string         `yaml:"-"`
	Cors       *CorsConfig    `yaml:"cors"`
	Session    *SessionConfig `yaml:"session"`
	Static     StaticConfig   `yaml:"static"`
	TLS        *TLSConfig     `yaml:"tls"`
	Store      StoreConfig    `yaml:"store"`
	Metrics    bool           `yaml:"metrics"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
