package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultBaseURL is the public history endpoint root
const DefaultBaseURL = "https://qa.corider.in/assignment"

var validate = validator.New()

// Config is the client configuration. Values come from the environment
// (optionally seeded by a .env file) and may be overridden by flags.
type Config struct {
	BaseURL     string        `env:"BACKSCROLL_BASE_URL,default=https://qa.corider.in/assignment" validate:"required,url"`
	PageSize    int           `env:"BACKSCROLL_PAGE_SIZE,default=0" validate:"min=0,max=1000"`
	HTTPTimeout time.Duration `env:"BACKSCROLL_HTTP_TIMEOUT,default=15s" validate:"min=0"`
	LogLevel    string        `env:"BACKSCROLL_LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	LogFile     string        `env:"BACKSCROLL_LOG_FILE,default=backscroll.log"`
	TimeLayout  string        `env:"BACKSCROLL_TIME_LAYOUT,default=3:04:05 PM" validate:"required"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		HTTPTimeout: 15 * time.Second,
		LogLevel:    "info",
		LogFile:     "backscroll.log",
		TimeLayout:  "3:04:05 PM",
	}
}

// Load reads optional dotenv files, then the environment, and validates the result
func Load(dotenvFiles ...string) (Config, error) {
	if err := loadDotenv(dotenvFiles...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotenv loads files that exist and never overrides variables already set
func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
