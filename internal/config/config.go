// Package config holds the explicit, validated configuration surface of the
// authentication service. Every recognized option is a named struct field;
// validation runs once at startup and refuses to start on a defective
// deployment rather than degrading per request.
package config

import (
	"fmt"
	"time"

	"github.com/linegroup/authcore/pkg/constants"
)

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Token       TokenConfig       `mapstructure:"token"`
	Fingerprint FingerprintConfig `mapstructure:"fingerprint"`
	Audit       AuditConfig       `mapstructure:"audit"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`

	// Users seeds the static user directory. The surrounding system is
	// expected to replace this with its own directory implementation.
	Users []UserConfig `mapstructure:"users"`
}

// UserConfig is one seeded account of the static user directory.
type UserConfig struct {
	Subject      string   `mapstructure:"subject"`
	Username     string   `mapstructure:"username"`
	PasswordHash string   `mapstructure:"password_hash"`
	Roles        []string `mapstructure:"roles"`
	Disabled     bool     `mapstructure:"disabled"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig configures the shared revocation/refresh store connection.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	OpTimeout    time.Duration `mapstructure:"op_timeout"`
}

// TokenConfig configures the token profile.
type TokenConfig struct {
	// SecretKey is the sealing secret. Required, no default; its absence is
	// a fatal startup condition.
	SecretKey string `mapstructure:"secret_key"`

	// Algorithm selects the AEAD construction.
	Algorithm constants.CipherAlgorithm `mapstructure:"algorithm"`

	// TTL is the access token lifetime.
	TTL time.Duration `mapstructure:"ttl"`

	// RefreshTTL is the refresh credential lifetime. Zero derives it as
	// ten times the access TTL, matching the upstream deployment.
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`

	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`

	// RevocationKeyPrefix namespaces revocation entries in the shared store.
	RevocationKeyPrefix string `mapstructure:"revocation_key_prefix"`

	// RefreshKeyPrefix namespaces refresh credential records.
	RefreshKeyPrefix string `mapstructure:"refresh_key_prefix"`
}

// FingerprintConfig configures device binding.
type FingerprintConfig struct {
	// RequiredAttributes is the ordered list of request attributes the
	// fingerprint is computed from.
	RequiredAttributes []string `mapstructure:"required_attributes"`
}

// AuditConfig configures the Kafka audit stream. Leaving Brokers empty
// disables publishing.
type AuditConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// RateLimitConfig throttles the login and refresh endpoints per client
// address. A zero limit disables throttling.
type RateLimitConfig struct {
	LoginLimit  int64         `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the startup invariants. A missing secret key is a
// deployment defect; refusing to start here is what keeps CryptoUnavailable
// out of the per-request error space.
func (c *Config) Validate() error {
	if c.Token.SecretKey == "" {
		return fmt.Errorf("token.secret_key is required")
	}
	switch c.Token.Algorithm {
	case "", constants.CipherAESGCM, constants.CipherChaCha20Poly1305:
	default:
		return fmt.Errorf("token.algorithm %q is not supported", c.Token.Algorithm)
	}
	if c.Token.TTL <= 0 {
		return fmt.Errorf("token.ttl must be positive")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if len(c.Audit.Brokers) > 0 && c.Audit.Topic == "" {
		return fmt.Errorf("audit.topic is required when audit.brokers is set")
	}
	return nil
}

// EffectiveRefreshTTL resolves the refresh credential lifetime.
func (c *TokenConfig) EffectiveRefreshTTL() time.Duration {
	if c.RefreshTTL > 0 {
		return c.RefreshTTL
	}
	return c.TTL * constants.DefaultRefreshTTLFactor
}
