package auth

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every knob the core and its collaborators need. It is built
// once at process start and passed by reference; there is no global lookup.
type Config struct {
	SigningKey      string        `env:"SIGNING_KEY,required"`
	Issuer          string        `env:"TOKEN_ISSUER" envDefault:"vendora"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"2h"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_TTL" envDefault:"24h"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"12"`
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":5000"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`

	Mongo MongoConfig `envPrefix:"MONGO_"`
	SMTP  SMTPConfig  `envPrefix:"SMTP_"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"e-commerce"`
}

// SMTPConfig holds the confirmation mailer settings. BaseURL is the public
// address the confirmation link points at.
type SMTPConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@vendora.dev"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:5000"`
}

// LoadConfig populates a Config from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration from env: %w", err)
	}
	return cfg, nil
}
