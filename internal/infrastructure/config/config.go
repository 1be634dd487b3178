package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	OpenAI  OpenAIConfig
	Image   ImageConfig
	Twitter TwitterConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=content_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// OpenAIConfig configures the generative-text provider.
type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	Model   string        `env:"OPENAI_MODEL,   default=gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT, default=20s"`
}

// ImageConfig configures the URL-templated image provider.
type ImageConfig struct {
	BaseURL string        `env:"IMAGE_BASE_URL, default=https://image.pollinations.ai/prompt"`
	APIKey  string        `env:"IMAGE_API_KEY"`
	Width   int           `env:"IMAGE_WIDTH,    default=1080"`
	Height  int           `env:"IMAGE_HEIGHT,   default=1080"`
	Timeout time.Duration `env:"IMAGE_TIMEOUT,  default=20s"`
}

// TwitterConfig holds the four OAuth 1.0a credentials for the real
// publishing integration. All four must be set for the adapter to post.
type TwitterConfig struct {
	APIKey       string `env:"TWITTER_API_KEY"`
	APISecret    string `env:"TWITTER_API_SECRET"`
	AccessToken  string `env:"TWITTER_ACCESS_TOKEN"`
	AccessSecret string `env:"TWITTER_ACCESS_SECRET"`
}

// Configured reports whether every credential is present.
func (c TwitterConfig) Configured() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
