package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string `yaml:"port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	LLM struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
		Timeout  string `yaml:"timeout"`
		Language string `yaml:"language"`
	} `yaml:"llm"`
	Quiz struct {
		DefaultCount      int    `yaml:"default_count"`
		MaxCount          int    `yaml:"max_count"`
		GenerationTimeout string `yaml:"generation_timeout"`
		CacheTTL          string `yaml:"cache_ttl"`
		AnswerKeyTTL      string `yaml:"answer_key_ttl"`
		PointsMode        string `yaml:"points_mode"`
		PointsPerCorrect  int    `yaml:"points_per_correct"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	var cfg Config
	cfg.Server.Port = "3001"
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.Log.Level = "info"
	cfg.Auth.JWTSecret = "smarttest-dev-secret"
	cfg.Auth.TokenTTL = "24h"
	cfg.LLM.Provider = "gemini"
	cfg.LLM.Timeout = "30s"
	cfg.Quiz.DefaultCount = 5
	cfg.Quiz.MaxCount = 10
	cfg.Quiz.GenerationTimeout = "15s"
	cfg.Quiz.CacheTTL = "1h"
	cfg.Quiz.AnswerKeyTTL = "1h"
	cfg.Quiz.PointsMode = "flat"
	cfg.Quiz.PointsPerCorrect = 20
	cfg.RabbitMQ.Exchange = "quiz.events"
	return cfg
}

// Load reads YAML config from path on top of Defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	if raw := os.Getenv("POINTS_PER_CORRECT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Quiz.PointsPerCorrect = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
