package config

import (
	"fmt"
	"os"

	"vkolc-backend/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Seed      SeedConfig      `yaml:"seed"`
	Contracts ContractsConfig `yaml:"contracts"`
	Inventory InventoryConfig `yaml:"inventory"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// JWTConfig contains role token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// AuthConfig lists the back-office accounts. A user may carry a plain
// password, which is hashed at start-up, or a bcrypt password_hash.
type AuthConfig struct {
	Users []UserConfig `yaml:"users"`
}

type UserConfig struct {
	Username     string      `yaml:"username"`
	Password     string      `yaml:"password"`
	PasswordHash string      `yaml:"password_hash"`
	DisplayName  string      `yaml:"display_name"`
	Role         domain.Role `yaml:"role"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SeedConfig selects the start-up dataset. An empty path loads the built-in
// demo data.
type SeedConfig struct {
	Path string `yaml:"path"`
}

type ContractsConfig struct {
	DefaultDurationDays int `yaml:"default_duration_days"`
}

type InventoryConfig struct {
	WarehouseLocation string `yaml:"warehouse_location"`
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ReportOverdueContracts string `yaml:"report_overdue_contracts"`
	SnapshotUtilization    string `yaml:"snapshot_utilization"`
}

// RateLimitConfig holds limiter rates in "<limit>-<period>" form, e.g. "10-M".
type RateLimitConfig struct {
	Login string `yaml:"login"`
}

// Load reads configuration from a YAML file. Variables from a .env file in the
// working directory are loaded first; variables already set win.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Seed
	if val := os.Getenv("SEED_PATH"); val != "" {
		c.Seed.Path = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Rate limit
	if val := os.Getenv("LOGIN_RATE_LIMIT"); val != "" {
		c.RateLimit.Login = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = c.Server.Port + 1
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 12 * 60
	}

	// Auth defaults
	if len(c.Auth.Users) == 0 {
		c.Auth.Users = []UserConfig{
			{Username: "admin", Password: "admin", DisplayName: "Admin", Role: domain.RoleAdmin},
			{Username: "manager", Password: "manager", DisplayName: "Manager", Role: domain.RoleManager},
		}
	}
	seen := make(map[string]bool, len(c.Auth.Users))
	for _, u := range c.Auth.Users {
		if u.Username == "" {
			return fmt.Errorf("auth user without username")
		}
		if seen[u.Username] {
			return fmt.Errorf("duplicate auth user: %s", u.Username)
		}
		seen[u.Username] = true
		if u.Password == "" && u.PasswordHash == "" {
			return fmt.Errorf("auth user %s needs password or password_hash", u.Username)
		}
		if !u.Role.Valid() {
			return fmt.Errorf("auth user %s has invalid role: %q", u.Username, u.Role)
		}
	}

	// Contract and inventory defaults
	if c.Contracts.DefaultDurationDays == 0 {
		c.Contracts.DefaultDurationDays = domain.DefaultDurationDays
	}
	if c.Contracts.DefaultDurationDays < 0 {
		return fmt.Errorf("invalid default duration: %d", c.Contracts.DefaultDurationDays)
	}
	if c.Inventory.WarehouseLocation == "" {
		c.Inventory.WarehouseLocation = "Main Warehouse"
	}

	// Scheduler defaults
	if c.Scheduler.ReportOverdueContracts == "" {
		c.Scheduler.ReportOverdueContracts = "0 0 2 * * *" // 2 AM daily
	}
	if c.Scheduler.SnapshotUtilization == "" {
		c.Scheduler.SnapshotUtilization = "0 0 * * * *" // hourly
	}

	// Rate limit defaults
	if c.RateLimit.Login == "" {
		c.RateLimit.Login = "10-M"
	}

	return nil
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the gRPC health listener address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
