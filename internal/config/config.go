package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Environment selects production behavior (cookie flags, error display,
// duplicate-email visibility). It is loaded once and passed down explicitly.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// LimitPolicy is a fixed-window rate-limit budget for one endpoint.
type LimitPolicy struct {
	MaxAttempts   int `yaml:"max_attempts"`
	WindowMinutes int `yaml:"window_minutes"`
}

func (p LimitPolicy) Window() time.Duration {
	return time.Duration(p.WindowMinutes) * time.Minute
}

type Config struct {
	Server struct {
		Host          string      `yaml:"host"`
		Port          int         `yaml:"port"`
		Env           Environment `yaml:"env"`
		PublicBaseURL string      `yaml:"public_base_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	JWT struct {
		Secret      string `yaml:"secret"`
		UserTTLMin  int    `yaml:"user_ttl_minutes"`
		AdminTTLMin int    `yaml:"admin_ttl_minutes"`
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	RateLimit struct {
		Signup         LimitPolicy `yaml:"signup"`
		Login          LimitPolicy `yaml:"login"`
		AdminLogin     LimitPolicy `yaml:"admin_login"`
		ForgotPassword LimitPolicy `yaml:"forgot_password"`
	} `yaml:"rate_limit"`

	Admin struct {
		SeedEmail    string `yaml:"seed_email"`
		SeedPassword string `yaml:"seed_password"`
	} `yaml:"admin"`
}

func (c *Config) UserSessionTTL() time.Duration {
	return time.Duration(c.JWT.UserTTLMin) * time.Minute
}

func (c *Config) AdminSessionTTL() time.Duration {
	return time.Duration(c.JWT.AdminTTLMin) * time.Minute
}

// Load reads the YAML config file, then lets a few environment variables
// override it (the path used by tests and container deployments).
func Load() (*Config, error) {
	cfg := defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file %s: %w", configPath, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = EnvDevelopment
	cfg.Server.PublicBaseURL = "http://localhost:3000"
	cfg.JWT.UserTTLMin = 60
	cfg.JWT.AdminTTLMin = 8 * 60
	cfg.Email.SMTPPort = 587
	cfg.RateLimit.Signup = LimitPolicy{MaxAttempts: 5, WindowMinutes: 60}
	cfg.RateLimit.Login = LimitPolicy{MaxAttempts: 5, WindowMinutes: 10}
	cfg.RateLimit.AdminLogin = LimitPolicy{MaxAttempts: 3, WindowMinutes: 5}
	cfg.RateLimit.ForgotPassword = LimitPolicy{MaxAttempts: 3, WindowMinutes: 60}
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = Environment(v)
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.Admin.SeedEmail = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.Admin.SeedPassword = v
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required (config file or DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (config file or JWT_SECRET)")
	}
	if c.Server.Env != EnvDevelopment && c.Server.Env != EnvProduction {
		return fmt.Errorf("unknown server env %q", c.Server.Env)
	}
	return nil
}
