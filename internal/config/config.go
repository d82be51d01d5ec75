package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFileName = "gateway-config.yaml"

var envVarPattern = regexp.MustCompile(`\$\{env\.([A-Z0-9_]+)(:-([^}]*))?\}`)

// UnmarshalYAML starts from the defaults, so that omitted keys keep their
// default value while an explicit null disables the header.
func (c *CorsConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain CorsConfig
	p := plain(*NewCorsConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = CorsConfig(p)
	return nil
}

// LoadGatewayConfig loads configuration from an optional .env file, an
// optional YAML file and GATEWAY_* environment variables, in increasing order
// of precedence.
func LoadGatewayConfig() (*GatewayConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &GatewayConfig{
		ServerPort: "8080",
		ConfigDir:  os.Getenv("GATEWAY_CONFIG_DIR"),
	}

	if path := configFilePath(cfg.ConfigDir); path != "" {
		if err := parseConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func configFilePath(configDir string) string {
	if path := os.Getenv("GATEWAY_CONFIG_FILE"); path != "" {
		return path
	}
	if configDir == "" {
		return ""
	}
	path := filepath.Join(configDir, defaultConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// parseConfigFile loads and parses a YAML configuration file into cfg
func parseConfigFile(path string, cfg *GatewayConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return parseConfig(data, cfg)
}

func parseConfig(data []byte, cfg *GatewayConfig) error {
	data = []byte(substituteEnvVars(string(data)))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return nil
}

// substituteEnvVars replaces ${env.VAR} and ${env.VAR:-default} with environment variable values
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		envVar := groups[1]
		defaultValue := groups[3]
		if value, exists := os.LookupEnv(envVar); exists {
			return value
		}
		return defaultValue
	})
}

func applyEnvOverrides(cfg *GatewayConfig) error {
	if port := os.Getenv("GATEWAY_PORT"); port != "" {
		cfg.ServerPort = port
	}

	if isTrue("GATEWAY_CORS_ENABLED") && cfg.Cors == nil {
		cfg.Cors = NewCorsConfig()
	}
	if cfg.Cors != nil {
		overrideStringPtr(&cfg.Cors.Origin, "GATEWAY_CORS_ORIGIN")
		overrideStringPtr(&cfg.Cors.Methods, "GATEWAY_CORS_METHODS")
		overrideStringPtr(&cfg.Cors.AllowedHeaders, "GATEWAY_CORS_ALLOWED_HEADERS")
		overrideStringPtr(&cfg.Cors.ExposedHeaders, "GATEWAY_CORS_EXPOSED_HEADERS")
		if v, ok := os.LookupEnv("GATEWAY_CORS_CREDENTIALS"); ok {
			cfg.Cors.Credentials = v == "true"
		}
		if v := os.Getenv("GATEWAY_CORS_MAX_AGE"); v != "" {
			maxAge, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid GATEWAY_CORS_MAX_AGE %q: %w", v, err)
			}
			cfg.Cors.MaxAge = maxAge
		}
	}

	if isTrue("GATEWAY_SESSION_ENABLED") && cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	if cfg.Session != nil {
		if v := os.Getenv("GATEWAY_SESSION_COOKIE_NAME"); v != "" {
			cfg.Session.CookieName = v
		}
		if v, ok := os.LookupEnv("GATEWAY_SESSION_COOKIE_POSTFIX"); ok {
			cfg.Session.Postfix = StringPtr(v)
		}
		if isTrue("GATEWAY_SESSION_LENIENT") {
			cfg.Session.LenientParsing = true
		}
		if isTrue("GATEWAY_SESSION_TRACKING") {
			cfg.Session.Tracking = true
		}
	}

	if v := os.Getenv("GATEWAY_STATIC_ROOT"); v != "" {
		cfg.Static.Root = v
	}
	if v := os.Getenv("GATEWAY_STATIC_SEARCH_PATH"); v != "" {
		cfg.Static.SearchPath = strings.Split(v, ",")
	}
	if v := os.Getenv("GATEWAY_STATIC_CACHE_CAPACITY"); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GATEWAY_STATIC_CACHE_CAPACITY %q: %w", v, err)
		}
		cfg.Static.CacheCapacity = capacity
	}

	if v := os.Getenv("GATEWAY_TLS_KEYSTORE"); v != "" {
		if cfg.TLS == nil {
			cfg.TLS = &TLSConfig{}
		}
		cfg.TLS.Keystore = v
		cfg.TLS.Password = os.Getenv("GATEWAY_TLS_PASSWORD")
		if t := os.Getenv("GATEWAY_TLS_STORE_TYPE"); t != "" {
			cfg.TLS.StoreType = t
		}
		if ca := os.Getenv("GATEWAY_TLS_CLIENT_CA"); ca != "" {
			cfg.TLS.ClientCAFile = ca
		}
	}

	overrideString(&cfg.Store.Driver, "GATEWAY_STORE_DRIVER")
	overrideString(&cfg.Store.KeyPrefix, "GATEWAY_STORE_KEY_PREFIX")
	overrideString(&cfg.Store.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.Store.RedisPassword, "REDIS_PASSWORD")
	overrideString(&cfg.Store.RedisExpiry, "GATEWAY_STORE_REDIS_EXPIRY")
	overrideString(&cfg.Store.DynamoDBTable, "GATEWAY_DYNAMODB_TABLE")
	overrideString(&cfg.Store.AWSRegion, "AWS_REGION")

	if v, ok := os.LookupEnv("GATEWAY_METRICS_ENABLED"); ok {
		cfg.Metrics = v == "true"
	}
	return nil
}

func applyDefaults(cfg *GatewayConfig) {
	if cfg.Static.Root == "" {
		cfg.Static.Root = DefaultStaticRoot
	}
	if cfg.Static.IndexFile == "" {
		cfg.Static.IndexFile = DefaultIndexFile
	}
	if cfg.Static.CacheCapacity <= 0 {
		cfg.Static.CacheCapacity = DefaultCacheCapacity
	}
	if cfg.TLS != nil && cfg.TLS.StoreType == "" {
		cfg.TLS.StoreType = "PKCS12"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "store-inmemory"
	}
}

func isTrue(envVar string) bool {
	return os.Getenv(envVar) == "true"
}

func overrideString(target *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*target = v
	}
}

func overrideStringPtr(target **string, envVar string) {
	if v, ok := os.LookupEnv(envVar); ok {
		if v == "" {
			*target = nil
		} else {
			*target = StringPtr(v)
		}
	}
}
