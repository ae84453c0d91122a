// Package config loads the ambient settings for an llmorch deployment —
// default provider/model, per-provider concurrency caps, cache backend,
// and logging level — from a YAML file with environment-variable
// overrides, in the same two-step load-then-override pattern as the
// teacher's agent/config_loader.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flowcraft/llmorch/agent"
	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/responseformat"
)

// CacheBackend selects where derived response-format schemas are cached.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// CacheConfig configures the responseformat schema cache.
type CacheConfig struct {
	Backend   CacheBackend  `yaml:"backend"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl"`
	MaxSize   int           `yaml:"max_size"`
}

// Config is the root of an llmorch deployment's settings.
type Config struct {
	DefaultProvider     prompt.Provider `yaml:"default_provider"`
	DefaultModel        string          `yaml:"default_model"`
	ProviderConcurrency map[string]int  `yaml:"provider_concurrency"`
	RequestTimeout      time.Duration   `yaml:"request_timeout"`
	Cache               CacheConfig     `yaml:"cache"`
	LogLevel            string          `yaml:"log_level"`
}

// Default returns a Config with conservative, production-safe defaults:
// OpenAI as the default provider, the spec's default per-provider
// concurrency cap, an in-process schema cache, and info-level logging.
func Default() *Config {
	return &Config{
		DefaultProvider: prompt.ProviderOpenAI,
		DefaultModel:    "gpt-4o",
		ProviderConcurrency: map[string]int{
			string(prompt.ProviderOpenAI):    agent.DefaultProviderConcurrency,
			string(prompt.ProviderGemini):    agent.DefaultProviderConcurrency,
			string(prompt.ProviderVertex):    agent.DefaultProviderConcurrency,
			string(prompt.ProviderAnthropic): agent.DefaultProviderConcurrency,
		},
		RequestTimeout: 60 * time.Second,
		Cache:          CacheConfig{Backend: CacheBackendMemory, TTL: time.Hour, MaxSize: 1000},
		LogLevel:       "info",
	}
}

// Validate rejects a Config that would fail at runtime in a way the
// loader can catch early: unknown default provider, non-positive
// concurrency caps, or a redis backend without an address.
func (c *Config) Validate() error {
	if _, err := prompt.ParseProvider(string(c.DefaultProvider)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("config: default_model must not be empty")
	}
	for provider, n := range c.ProviderConcurrency {
		if n <= 0 {
			return fmt.Errorf("config: provider_concurrency[%s] must be positive, got %d", provider, n)
		}
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("config: cache.redis_addr is required when cache.backend is %q", CacheBackendRedis)
		}
	default:
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}

// Load reads a YAML config file, starting from Default() so any field the
// file omits keeps its default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variable names applied by LoadWithEnvOverrides.
const (
	EnvDefaultProvider = "LLMORCH_DEFAULT_PROVIDER"
	EnvDefaultModel    = "LLMORCH_DEFAULT_MODEL"
	EnvRequestTimeout  = "LLMORCH_REQUEST_TIMEOUT"
	EnvCacheBackend    = "LLMORCH_CACHE_BACKEND"
	EnvCacheRedisAddr  = "LLMORCH_CACHE_REDIS_ADDR"
	EnvLogLevel        = "LLMORCH_LOG_LEVEL"
)

// providerConcurrencyEnv returns the override variable name for a given
// provider, e.g. LLMORCH_PROVIDER_CONCURRENCY_OPENAI.
func providerConcurrencyEnv(provider string) string {
	upper := make([]byte, len(provider))
	for i := 0; i < len(provider); i++ {
		c := provider[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	return "LLMORCH_PROVIDER_CONCURRENCY_" + string(upper)
}

// LoadWithEnvOverrides loads path via Load, then applies any of the
// LLMORCH_* environment variables present, re-validating afterward.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(EnvDefaultProvider); v != "" {
		cfg.DefaultProvider = prompt.Provider(v)
	}
	if v := os.Getenv(EnvDefaultModel); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		cfg.Cache.Backend = CacheBackend(v)
	}
	if v := os.Getenv(EnvCacheRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	for _, provider := range []prompt.Provider{prompt.ProviderOpenAI, prompt.ProviderGemini, prompt.ProviderVertex, prompt.ProviderAnthropic} {
		if v := os.Getenv(providerConcurrencyEnv(string(provider))); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if cfg.ProviderConcurrency == nil {
					cfg.ProviderConcurrency = map[string]int{}
				}
				cfg.ProviderConcurrency[string(provider)] = n
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration after env overrides: %w", err)
	}
	return cfg, nil
}

// Resolver builds the responseformat.Resolver described by cfg.Cache:
// an in-process MemoryCache, or a RedisCache pointed at cfg.Cache.RedisAddr
// for sharing derived schemas across process instances.
func (c *Config) Resolver() *responseformat.Resolver {
	switch c.Cache.Backend {
	case CacheBackendRedis:
		return responseformat.NewResolver(responseformat.NewRedisCache(responseformat.RedisCacheOptions{
			Addr:       c.Cache.RedisAddr,
			DefaultTTL: c.Cache.TTL,
		}))
	default:
		return responseformat.NewResolver(responseformat.NewMemoryCache(c.Cache.MaxSize, c.Cache.TTL))
	}
}

// Limiters builds a LimiterRegistry pre-seeded with this config's
// per-provider concurrency caps.
func (c *Config) Limiters() *agent.LimiterRegistry {
	registry := agent.NewLimiterRegistry(agent.DefaultProviderConcurrency, 0)
	for providerName, n := range c.ProviderConcurrency {
		p, err := prompt.ParseProvider(providerName)
		if err != nil {
			continue
		}
		registry.SetConcurrency(p, n)
	}
	return registry
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: refusing to save invalid configuration: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
