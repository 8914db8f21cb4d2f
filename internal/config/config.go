// Package config 从 .env、config.yaml 和环境变量加载配置
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
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CacheConfig 推荐缓存。Driver 为 postgres 或 redis
type CacheConfig struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GitHubConfig struct {
	APIURL     string `mapstructure:"api_url"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// GeminiConfig APIKey 为空时分析总结只用规则生成
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RecommendConfig struct {
	DefaultLimit      int `mapstructure:"default_limit"`
	CacheBatch        int `mapstructure:"cache_batch"`
	ActivityDays      int `mapstructure:"activity_days"`
	MinStars          int `mapstructure:"min_stars"`
	RepoFetchCap      int `mapstructure:"repo_fetch_cap"`
	IssueRepoFetchCap int `mapstructure:"issue_repo_fetch_cap"`
	IssueRepoFanout   int `mapstructure:"issue_repo_fanout"`
}

const (
	CacheDriverPostgres = "postgres"
	CacheDriverRedis    = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.dsn", "")
	v.SetDefault("cache.driver", CacheDriverPostgres)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.max_retries", 3)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("recommend.default_limit", 30)
	v.SetDefault("recommend.cache_batch", 50)
	v.SetDefault("recommend.activity_days", 90)
	v.SetDefault("recommend.min_stars", 100)
	v.SetDefault("recommend.repo_fetch_cap", 100)
	v.SetDefault("recommend.issue_repo_fetch_cap", 50)
	v.SetDefault("recommend.issue_repo_fanout", 20)
}

// Load 依次读取 .env (可选)、config.yaml (可选) 和环境变量，后者优先。
// 环境变量名是 key 的大写加下划线，例如 SERVER_PORT、CACHE_DRIVER
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate 检查取值范围，不检查 DSN (调试命令不需要数据库)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Cache.Driver {
	case CacheDriverPostgres, CacheDriverRedis:
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.GitHub.MaxRetries < 0 {
		return errors.New("github.max_retries must not be negative")
	}

	limits := map[string]int{
		"recommend.default_limit":        c.Recommend.DefaultLimit,
		"recommend.cache_batch":          c.Recommend.CacheBatch,
		"recommend.activity_days":        c.Recommend.ActivityDays,
		"recommend.min_stars":            c.Recommend.MinStars,
		"recommend.repo_fetch_cap":       c.Recommend.RepoFetchCap,
		"recommend.issue_repo_fetch_cap": c.Recommend.IssueRepoFetchCap,
		"recommend.issue_repo_fanout":    c.Recommend.IssueRepoFanout,
	}
	for key, val := range limits {
		if val <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, val)
		}
	}
	return nil
}
