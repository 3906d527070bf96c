package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"

	EventsNone  = "none"
	EventsRedis = "redis"
	EventsKafka = "kafka"
	EventsAMQP  = "amqp"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Store     StoreConfig     `mapstructure:"store"`
	Events    EventsConfig    `mapstructure:"events"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	APIPrefix       string        `mapstructure:"api_prefix"`
	StaticDir       string        `mapstructure:"static_dir"`
	ForceHTTPS      bool          `mapstructure:"force_https"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GRPCConfig controls the gRPC health endpoint. An empty port disables it.
type GRPCConfig struct {
	Port string `mapstructure:"port"`
}

type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	DatabaseURL   string `mapstructure:"database_url"`
	RedisURL      string `mapstructure:"redis_url"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoUser     string `mapstructure:"mongo_user"`
	MongoPassword string `mapstructure:"mongo_password"`
	MongoHost     string `mapstructure:"mongo_host"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type EventsConfig struct {
	Driver       string   `mapstructure:"driver"`
	RedisURL     string   `mapstructure:"redis_url"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
	AMQPURL      string   `mapstructure:"amqp_url"`
	AMQPExchange string   `mapstructure:"amqp_exchange"`
}

type AuthConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	SigningSecret string `mapstructure:"signing_secret"`
	AdminSecret   string `mapstructure:"admin_secret"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TelemetryConfig enables OTLP trace export when OTLPEndpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

var envBindings = map[string]string{
	"http.port":               "PORT",
	"http.api_prefix":         "API_PREFIX",
	"http.static_dir":         "STATIC_DIR",
	"http.force_https":        "FORCE_HTTPS",
	"grpc.port":               "GRPC_PORT",
	"store.driver":            "STORE_DRIVER",
	"store.database_url":      "DATABASE_URL",
	"store.redis_url":         "REDIS_URL",
	"store.redis_prefix":      "REDIS_PREFIX",
	"store.mongo_uri":         "MONGO_URI",
	"store.mongo_user":        "MONGO_USER",
	"store.mongo_password":    "MONGO_PASSWORD",
	"store.mongo_host":        "MONGO_HOST",
	"store.mongo_database":    "MONGO_DBNAME",
	"events.driver":           "EVENTS_DRIVER",
	"events.redis_url":        "EVENTS_REDIS_URL",
	"events.kafka_brokers":    "KAFKA_BROKERS",
	"events.kafka_topic":      "KAFKA_TOPIC",
	"events.amqp_url":         "AMQP_URL",
	"events.amqp_exchange":    "AMQP_EXCHANGE",
	"auth.enabled":            "AUTH_ENABLED",
	"auth.signing_secret":     "AUTH_SIGNING_SECRET",
	"auth.admin_secret":       "AUTH_ADMIN_SECRET",
	"log.level":               "LOG_LEVEL",
	"telemetry.otlp_endpoint": "OTEL_EXPORTER_OTLP_ENDPOINT",
	"telemetry.service_name":  "OTEL_SERVICE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.api_prefix", "/api/v1")
	v.SetDefault("http.static_dir", "")
	v.SetDefault("http.force_https", false)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("grpc.port", "")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.redis_prefix", "orda")
	v.SetDefault("events.driver", EventsNone)
	v.SetDefault("events.kafka_topic", "orda.events")
	v.SetDefault("events.amqp_exchange", "orda.events")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.service_name", "orda-api")
}

// Load reads defaults, then the optional YAML file at path, then the
// environment. Later sources win.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.HTTP.APIPrefix = "/" + strings.Trim(c.HTTP.APIPrefix, "/")

	if c.Store.MongoURI == "" && c.Store.MongoHost != "" {
		c.Store.MongoURI = buildMongoURI(c.Store)
	}
	if c.Events.RedisURL == "" {
		c.Events.RedisURL = c.Store.RedisURL
	}

	brokers := c.Events.KafkaBrokers[:0]
	for _, b := range c.Events.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Events.KafkaBrokers = brokers
}

// buildMongoURI assembles an Atlas style SRV connection string from its parts.
func buildMongoURI(s StoreConfig) string {
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     s.MongoHost,
		Path:     "/" + s.MongoDatabase,
		RawQuery: "retryWrites=true&w=majority",
	}
	if s.MongoUser != "" {
		u.User = url.UserPassword(s.MongoUser, s.MongoPassword)
	}
	return u.String()
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("store.database_url (DATABASE_URL) is required for the postgres driver"))
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url (REDIS_URL) is required for the redis driver"))
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri (MONGO_URI or MONGO_HOST) is required for the mongo driver"))
		}
		if c.Store.MongoDatabase == "" {
			errs = append(errs, errors.New("store.mongo_database (MONGO_DBNAME) is required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	switch c.Events.Driver {
	case EventsNone:
	case EventsRedis:
		if c.Events.RedisURL == "" {
			errs = append(errs, errors.New("events.redis_url (EVENTS_REDIS_URL or REDIS_URL) is required for redis events"))
		}
	case EventsKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("events.kafka_brokers (KAFKA_BROKERS) is required for kafka events"))
		}
	case EventsAMQP:
		if c.Events.AMQPURL == "" {
			errs = append(errs, errors.New("events.amqp_url (AMQP_URL) is required for amqp events"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown events driver %q", c.Events.Driver))
	}

	if c.Auth.Enabled {
		if c.Auth.SigningSecret == "" {
			errs = append(errs, errors.New("auth.signing_secret (AUTH_SIGNING_SECRET) is required when auth is enabled"))
		}
		if c.Auth.AdminSecret == "" {
			errs = append(errs, errors.New("auth.admin_secret (AUTH_ADMIN_SECRET) is required when auth is enabled"))
		}
	}

	return errors.Join(errs...)
}
