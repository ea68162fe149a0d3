package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port            int `yaml:"port"`
	DefaultPageSize int `yaml:"default_page_size"`
}

type GatewayConfig struct {
	Port           int      `yaml:"port"`
	ServerURL      string   `yaml:"server_url"`
	ClientTimeout  Duration `yaml:"client_timeout"`
	BreakerMax     int      `yaml:"breaker_max_failures"`
	BreakerTimeout Duration `yaml:"breaker_timeout"`
}

// Duration wraps time.Duration so YAML values like "10s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	DBName         string `yaml:"dbname"`
	SSLMode        string `yaml:"sslmode"`
	MaxConnections int    `yaml:"max_connections"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
}

// Load reads the YAML config at configPath, expanding ${ENV_VAR} references
// after merging a local .env file if one exists. A missing config file is not
// an error: the defaults describe a local single-host setup.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	var config Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, err
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.DefaultPageSize <= 0 {
		return fmt.Errorf("server.default_page_size must be positive, got %d", c.Server.DefaultPageSize)
	}
	if c.Gateway.BreakerMax <= 0 {
		return fmt.Errorf("gateway.breaker_max_failures must be positive, got %d", c.Gateway.BreakerMax)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "shareit"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9090
	}
	if c.Server.DefaultPageSize == 0 {
		c.Server.DefaultPageSize = 10
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8080
	}
	if c.Gateway.ServerURL == "" {
		c.Gateway.ServerURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Gateway.ClientTimeout == 0 {
		c.Gateway.ClientTimeout = Duration(10 * time.Second)
	}
	if c.Gateway.BreakerMax == 0 {
		c.Gateway.BreakerMax = 5
	}
	if c.Gateway.BreakerTimeout == 0 {
		c.Gateway.BreakerTimeout = Duration(30 * time.Second)
	}
	if c.Database.Host == "" {
		c.Database.Host = "postgres"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "program"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "shareit"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 25
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
