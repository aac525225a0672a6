package config

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	// DSN is a postgres connection string or a sqlite file path.
	DSN string `yaml:"dsn" env:"STORAGE_DSN" env-default:"./storage/guestlist.db"`
}

type GRPCConfig struct {
	Port    int           `yaml:"port" env:"GRPC_PORT" env-default:"44044"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type HTTPConfig struct {
	BindIP    string        `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port      string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
	PublicURL string        `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:8080"`
}

type MetricsConfig struct {
	Port int `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
}

// RedisConfig enables the guest card cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	TTL      time.Duration `yaml:"ttl" env-default:"10m"`
}

// KafkaConfig enables the outbox sender when Brokers is set.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string        `yaml:"topic" env-default:"guest_admitted"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	BatchLimit   int           `yaml:"batch_limit" env-default:"100"`
	Interval     time.Duration `yaml:"interval" env-default:"1s"`
}

// MongoConfig enables the scan audit log when URI is set.
type MongoConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env-default:"guestlist"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"12h"`
}

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	Storage StorageConfig `yaml:"storage"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	HTTP    HTTPConfig    `yaml:"http"`
	Metrics MetricsConfig `yaml:"metrics"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Auth    AuthConfig    `yaml:"auth"`
}

var instance *Config
var once sync.Once

// MustLoad reads the config file at path, or at CONFIG_PATH when path is
// empty. Environment variables override file values.
func MustLoad(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		log.Fatal("config: path is not set")
	}

	once.Do(func() {
		instance = &Config{}
		if err := cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			instance = nil
			log.Fatal(fmt.Errorf("config: %s; %s", err, desc))
		}
	})

	return instance
}

// Load is MustLoad without the process exit.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
