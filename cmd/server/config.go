package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/common/cache"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/submission"
	"github.com/mashrafi141/my-judge-webapp2/internal/web"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultWorkerPoolSize  = 2
	defaultProblemsDir     = "problems"
)

// JudgeConfig holds judging settings.
type JudgeConfig struct {
	TimeLimit time.Duration `yaml:"timeLimit"`
	WorkRoot  string        `yaml:"workRoot"`
	Languages []lang.Spec   `yaml:"languages"`
}

// WorkerConfig holds worker pool settings.
type WorkerConfig struct {
	PoolSize int `yaml:"poolSize"`
}

// ProblemsConfig holds the problem store settings.
type ProblemsConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds the submission archive database settings. An empty DSN
// disables the archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// KafkaConfig holds verdict event settings. Empty brokers disable publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AppConfig holds the whole server configuration.
type AppConfig struct {
	Server   web.ServerConfig         `yaml:"server"`
	Logger   logger.Config            `yaml:"logger"`
	Redis    cache.RedisConfig        `yaml:"redis"`
	Database DatabaseConfig           `yaml:"database"`
	Archive  submission.ArchiveConfig `yaml:"archive"`
	Kafka    KafkaConfig              `yaml:"kafka"`
	Judge    JudgeConfig              `yaml:"judge"`
	Worker   WorkerConfig             `yaml:"worker"`
	Problems ProblemsConfig           `yaml:"problems"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

// loadAppConfig reads the config file and applies defaults. A missing file is
// not fatal: everything has a default and external stores stay disabled.
func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = defaultWorkerPoolSize
	}
	if cfg.Problems.Dir == "" {
		cfg.Problems.Dir = defaultProblemsDir
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" && cfg.Redis.Addr == "" {
		cfg.Redis.Addr = addr
	}
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" && cfg.Database.DSN == "" {
		cfg.Database.DSN = dsn
	}
	cfg.Redis.ApplyDefaults()
	return &cfg, nil
}
