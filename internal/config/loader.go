package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/linegroup/authcore/pkg/constants"
)

// Load reads configuration from file, environment variables and defaults.
// Search order: AUTHCORE_* environment variables override the config file,
// which overrides the defaults below.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/authcore/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	v.SetEnvPrefix("AUTHCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch re-reads the config file on change and invokes onChange with the new
// log level. Only the log level is hot-reloadable; key material and the token
// profile are load-once by design.
func Watch(onChange func(level string)) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/authcore/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		return
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		onChange(v.GetString("log.level"))
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.op_timeout", constants.DefaultStoreTimeout)

	v.SetDefault("token.algorithm", string(constants.CipherAESGCM))
	v.SetDefault("token.ttl", constants.DefaultTokenTTL)
	v.SetDefault("token.issuer", "authcore")
	v.SetDefault("token.audience", "linegroup-api")
	v.SetDefault("token.revocation_key_prefix", constants.DefaultRevocationKeyPrefix)
	v.SetDefault("token.refresh_key_prefix", constants.DefaultRefreshKeyPrefix)

	v.SetDefault("fingerprint.required_attributes", []string{
		constants.AttributeClientIP,
		constants.AttributeUserAgent,
	})

	v.SetDefault("ratelimit.login_limit", 10)
	v.SetDefault("ratelimit.login_window", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
