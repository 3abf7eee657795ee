package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

// Config is the API server configuration, read from the environment.
type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/trackboard.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// RedisURL is optional; without it the tracks overview is not cached.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret verifies access tokens issued by the identity provider.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	// CreatorID may edit and delete any record.
	CreatorID string `env:"CREATOR_ID"`

	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	WriteRateLimit int           `env:"WRITE_RATE_LIMIT" envDefault:"30"`
	WriteRateEvery time.Duration `env:"WRITE_RATE_WINDOW" envDefault:"1m"`
	SeedCatalog    bool          `env:"SEED_CATALOG" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// ClientConfig configures the trackboard command line client.
type ClientConfig struct {
	Server string `env:"TRACKBOARD_SERVER" envDefault:"http://localhost:8080"`
	Token  string `env:"TRACKBOARD_TOKEN"`
}

// LoadClient reads the client configuration. When TRACKBOARD_TOKEN is unset
// the token saved by SaveToken is used.
func LoadClient() (*ClientConfig, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Token == "" {
		tok, err := ReadToken()
		if err != nil {
			return nil, err
		}
		cfg.Token = tok
	}
	return &cfg, nil
}

// TokenPath returns the location of the saved access token.
func TokenPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join("trackboard", "token"))
	if err != nil {
		return "", fmt.Errorf("resolving token path: %w", err)
	}
	return p, nil
}

// ReadToken returns the saved access token, or "" when none is saved.
func ReadToken() (string, error) {
	p, err := TokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// SaveToken stores token for later runs, readable only by the user.
func SaveToken(token string) (string, error) {
	p, err := TokenPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing token: %w", err)
	}
	return p, nil
}
