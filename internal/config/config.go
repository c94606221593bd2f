package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Streak   StreakConfig   `mapstructure:"streak"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Training TrainingConfig `mapstructure:"training"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// CORSOrigins is a comma separated allow list; empty disables CORS headers.
	CORSOrigins string `mapstructure:"cors_origins"`
}

// AllowedOrigins splits CORSOrigins, dropping blanks.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	Port         string `mapstructure:"port"`
	SSLMode      string `mapstructure:"sslmode"`
	TimeZone     string `mapstructure:"timezone"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s application_name=nostressia TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	AdminKey  string `mapstructure:"admin_key"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type StreakConfig struct {
	RequiredStreak int `mapstructure:"required_streak"`
	RestoreLimit   int `mapstructure:"restore_limit"`
}

type ForecastConfig struct {
	DefaultArtifact    string        `mapstructure:"default_artifact"`
	ArtifactTimeout    time.Duration `mapstructure:"artifact_timeout"`
	GCSCredentialsFile string        `mapstructure:"gcs_credentials_file"`
	RedisCacheTTL      time.Duration `mapstructure:"redis_cache_ttl"`
}

type TrainingConfig struct {
	MilestoneInterval    int           `mapstructure:"milestone_interval"`
	GlobalIntervalDays   int           `mapstructure:"global_interval_days"`
	TickInterval         time.Duration `mapstructure:"tick_interval"`
	FinishedJobRetention time.Duration `mapstructure:"finished_job_retention"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load reads .env, defaults, an optional config file and the environment, in
// increasing order of precedence. An empty configPath searches ./config and .
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "nostressia")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.sqlite_path", "./data/nostressia.db")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("redis.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_key", "")

	v.SetDefault("log.mode", "dev")

	v.SetDefault("streak.required_streak", 7)
	v.SetDefault("streak.restore_limit", 3)

	v.SetDefault("forecast.default_artifact", "./models_ml/global_forecast.json")
	v.SetDefault("forecast.artifact_timeout", 60*time.Second)
	v.SetDefault("forecast.gcs_credentials_file", "")
	v.SetDefault("forecast.redis_cache_ttl", 24*time.Hour)

	v.SetDefault("training.milestone_interval", 60)
	v.SetDefault("training.global_interval_days", 60)
	v.SetDefault("training.tick_interval", time.Hour)
	v.SetDefault("training.finished_job_retention", 30*24*time.Hour)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "nostressia")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 0.1)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Streak.RequiredStreak <= 0 {
		return errors.New("streak.required_streak must be positive")
	}
	if c.Streak.RestoreLimit < 0 {
		return errors.New("streak.restore_limit must not be negative")
	}
	if c.Training.MilestoneInterval <= 0 {
		return errors.New("training.milestone_interval must be positive")
	}
	if c.Training.GlobalIntervalDays <= 0 {
		return errors.New("training.global_interval_days must be positive")
	}
	if c.Training.TickInterval <= 0 {
		return errors.New("training.tick_interval must be positive")
	}
	if c.Forecast.ArtifactTimeout <= 0 {
		return errors.New("forecast.artifact_timeout must be positive")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("tracing.sample_ratio must be within [0, 1]")
	}
	return nil
}
