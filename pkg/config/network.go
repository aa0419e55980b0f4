package config

import (
	"time"

	"github.com/milan604/netservice/pkg/apperr"
	"github.com/milan604/netservice/pkg/validator"
)

// Keys read by LoadNetworkConfig.
const (
	KeyBaseURL         = "api.base_url"
	KeyTimeout         = "api.timeout"
	KeyRefreshPath     = "api.refresh_path"
	KeyForceLogoutCode = "api.force_logout_code"
	KeyLocale          = "api.locale"
	KeyRateLimitRPS    = "api.rate_limit.rps"
	KeyRateLimitBurst  = "api.rate_limit.burst"
	KeyBreakerEnabled  = "api.breaker.enabled"
	KeyBreakerFailures = "api.breaker.failures"
	KeyBreakerTimeout  = "api.breaker.timeout"
	KeyRedisAddr       = "store.redis.addr"
	KeyRedisPassword   = "store.redis.password"
	KeyRedisDB         = "store.redis.db"
	KeyRedisPrefix     = "store.redis.prefix"
	KeyLogLevel        = "log.level"
	KeyTracingEnabled  = "tracing.enabled"
	KeyTracingEndpoint = "tracing.endpoint"
	KeyTracingRatio    = "tracing.sample_ratio"
	KeyServiceName     = "service_name"
)

// Defaults mirrored from the mobile app constants.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultRefreshPath     = "/refresh-token"
	DefaultForceLogoutCode = 401
)

// NetworkConfig is the typed view of the request service settings.
type NetworkConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RefreshPath     string        `mapstructure:"refresh_path" validate:"required"`
	ForceLogoutCode int           `mapstructure:"force_logout_code"`
	Locale          string        `mapstructure:"locale"`
	RateLimit       RateLimitConfig
	Breaker         BreakerConfig
	Redis           RedisConfig
	Tracing         TracingConfig
	LogLevel        string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// TracingConfig controls span export for requests and refreshes.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" validate:"omitempty,url"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// RateLimitConfig throttles outgoing requests. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=0"`
}

// BreakerConfig configures the circuit breaker in front of the transport.
type BreakerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Failures uint32        `mapstructure:"failures"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RedisConfig locates the shared app state. An empty Addr keeps state in memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

// NetworkDefaults is meant for WithDefaults.
func NetworkDefaults() map[string]any {
	return map[string]any{
		KeyTimeout:         DefaultTimeout,
		KeyRefreshPath:     DefaultRefreshPath,
		KeyForceLogoutCode: DefaultForceLogoutCode,
		KeyLocale:          "en",
		KeyBreakerFailures: 5,
		KeyBreakerTimeout:  30 * time.Second,
		KeyRedisPrefix:     "netservice:app",
		KeyLogLevel:        "info",
		KeyTracingEndpoint: "http://localhost:4318",
		KeyTracingRatio:    1.0,
		KeyServiceName:     "netservice",
	}
}

// LoadNetworkConfig reads and validates the request service settings from c.
func LoadNetworkConfig(c *Config) (NetworkConfig, error) {
	nc := NetworkConfig{
		BaseURL:         c.GetString(KeyBaseURL),
		Timeout:         c.GetDurationD(KeyTimeout, DefaultTimeout),
		RefreshPath:     c.GetStringD(KeyRefreshPath, DefaultRefreshPath),
		ForceLogoutCode: c.GetIntD(KeyForceLogoutCode, DefaultForceLogoutCode),
		Locale:          c.GetStringD(KeyLocale, "en"),
		RateLimit: RateLimitConfig{
			RPS:   c.GetFloat64(KeyRateLimitRPS),
			Burst: c.GetInt(KeyRateLimitBurst),
		},
		Breaker: BreakerConfig{
			Enabled:  c.GetBool(KeyBreakerEnabled),
			Failures: c.GetUint32(KeyBreakerFailures),
			Timeout:  c.GetDuration(KeyBreakerTimeout),
		},
		Redis: RedisConfig{
			Addr:     c.GetString(KeyRedisAddr),
			Password: c.GetString(KeyRedisPassword),
			DB:       c.GetInt(KeyRedisDB),
			Prefix:   c.GetString(KeyRedisPrefix),
		},
		Tracing: TracingConfig{
			Enabled:     c.GetBool(KeyTracingEnabled),
			Endpoint:    c.GetString(KeyTracingEndpoint),
			ServiceName: c.GetStringD(KeyServiceName, "netservice"),
			SampleRatio: c.GetFloat64(KeyTracingRatio),
		},
		LogLevel: c.GetStringD(KeyLogLevel, "info"),
	}
	if nc.RateLimit.RPS > 0 && nc.RateLimit.Burst == 0 {
		nc.RateLimit.Burst = 1
	}

	if appErr := validator.New().Struct(nc); appErr != nil {
		return NetworkConfig{}, appErr
	}
	return nc, nil
}

// IsInvalid reports whether err came from LoadNetworkConfig validation.
func IsInvalid(err error) bool {
	ae, ok := err.(*apperr.AppError)
	return ok && ae.ErrorCode() == apperr.ErrorCodeInvalidConfig
}
