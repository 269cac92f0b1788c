package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detector
	DetectorType    string `envconfig:"DETECTOR_TYPE" default:"httpvision"`
	VisionURL       string `envconfig:"VISION_URL" default:"http://localhost:5000"`
	RekognitionGate bool   `envconfig:"REKOGNITION_GATE" default:"false"`
	AWSRegion       string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Sessions
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"facegate"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Account security
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"12"`
	MaxFailedLogins int           `envconfig:"MAX_FAILED_LOGINS" default:"5"`
	LockoutDuration time.Duration `envconfig:"LOCKOUT_DURATION" default:"15m"`
	AuthRatePerMin  int           `envconfig:"AUTH_RATE_PER_MIN" default:"30"`
	AuthRateBurst   int           `envconfig:"AUTH_RATE_BURST" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
