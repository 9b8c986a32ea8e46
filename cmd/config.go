package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"time"

	"tracking/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting of the service.
// Tags used:
//   - mapstructure: environment variable name, used by viper to unmarshal
//   - default: value used when the variable is missing
//   - required: "true" makes a missing value a startup error
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `mapstructure:"HTTP_PORT" default:"8080"`

	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
	Tracking TrackingConfig `mapstructure:",squash"`
	Worker   WorkerConfig   `mapstructure:",squash"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"DB_PORT" default:"5432"`
	User     string `mapstructure:"DB_USER" default:"postgres"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME" default:"tracking"`
	SSLMode  string `mapstructure:"DB_SSLMODE" default:"disable"`
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return postgres.DSN(c.Host, strconv.Itoa(c.Port), c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// SecurityConfig covers API key authentication and per-route rate limits.
type SecurityConfig struct {
	APIKey            string        `mapstructure:"API_KEY" required:"true"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW" default:"1h"`
	RateLimitRegister int           `mapstructure:"RATE_LIMIT_REGISTER" default:"1000"`
	RateLimitTracking int           `mapstructure:"RATE_LIMIT_TRACKING" default:"2000"`
	RateLimitList     int           `mapstructure:"RATE_LIMIT_LIST" default:"1000"`
}

type TrackingConfig struct {
	// AutoCreateUnits bootstraps unknown units on their first checkpoint.
	AutoCreateUnits       bool   `mapstructure:"AUTO_CREATE_UNITS" default:"true"`
	NotificationRecipient string `mapstructure:"NOTIFICATION_RECIPIENT" default:"customer@example.com"`
}

type WorkerConfig struct {
	JobTimeout          time.Duration `mapstructure:"JOB_TIMEOUT" default:"30m"`
	Concurrency         int           `mapstructure:"WORKER_CONCURRENCY" default:"4"`
	DeadLetterRetention int64         `mapstructure:"DEAD_LETTER_RETENTION" default:"1000"`
}

// FlagBindings maps command-line flags to configuration keys.
var FlagBindings = map[string]string{
	"env":                "APP_ENV",
	"log-level":          "LOG_LEVEL",
	"http-port":          "HTTP_PORT",
	"worker-concurrency": "WORKER_CONCURRENCY",
}

// RegisterFlags declares the flags listed in FlagBindings on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("env", "development", "runtime environment (development, production)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("http-port", 8080, "HTTP listen port")
	flags.Int("worker-concurrency", 4, "number of concurrent job consumers")
}

// LoadConfig resolves the configuration from, lowest to highest precedence:
// tag defaults, envFile (optional), the process environment and the flags
// that were set explicitly. flags may be nil.
func LoadConfig(envFile string, flags *pflag.FlagSet) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	var config Config

	processTags(v, &config)

	if flags != nil {
		for name, key := range FlagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}

// processTags binds every tagged field to its environment variable and
// registers its default.
func processTags(v *viper.Viper, config any) {
	val := reflect.ValueOf(config).Elem()
	t := val.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			processTags(v, val.Field(i).Addr().Interface())
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		_ = v.BindEnv(key)
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}

// validateRequired reports the first field tagged required that is still zero.
func validateRequired(config any) error {
	val := reflect.ValueOf(config).Elem()
	t := val.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
