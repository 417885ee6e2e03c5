package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config is only read when Uploads.Backend is "s3".
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type UploadsConfig struct {
	Backend      string // "local" or "s3"
	Dir          string
	BaseURL      string
	MaxSizeBytes int64
	S3           S3Config
}

type RentalsConfig struct {
	// StrictTransitions enforces the arriendo/equipo transition tables.
	// Off reproduces the legacy any-state-to-any-state behavior.
	StrictTransitions bool
}

type BootstrapConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	AdminNombre   string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Uploads          UploadsConfig
	Rentals          RentalsConfig
	Bootstrap        BootstrapConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) Production() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("RENTAMAQ")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("uploads.backend", "local")
	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.baseurl", "/uploads")
	v.SetDefault("uploads.maxsizebytes", 5*1024*1024)
	v.SetDefault("uploads.s3.bucket", "rentamaq-media")
	v.SetDefault("uploads.s3.usessl", false)
	v.SetDefault("uploads.s3.region", "us-east-1")

	v.SetDefault("rentals.stricttransitions", true)

	v.SetDefault("bootstrap.adminusername", "admin")
	v.SetDefault("bootstrap.adminemail", "admin@rentamaq.cl")
	v.SetDefault("bootstrap.adminnombre", "Administrador")
}
