package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	BackendMySQL  = "mysql"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Environment keys.
const (
	KeyDiscordToken      = "DISCORD_TOKEN"
	KeyStorageBackend    = "STORAGE_BACKEND"
	KeyDataFile          = "DATA_FILE"
	KeyDBUser            = "DB_USER"
	KeyDBPass            = "DB_PASS"
	KeyDBHost            = "DB_HOST"
	KeyDBPort            = "DB_PORT"
	KeyDBName            = "DB_NAME"
	KeyFullDSN           = "FULL_DSN"
	KeyAppEnv            = "APP_ENV"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogDir            = "LOG_DIR"
	KeyHTTPAddr          = "HTTP_ADDR"
	KeyRemovalTimeout    = "REMOVAL_TIMEOUT"
	KeyRemovalDeleteMode = "REMOVAL_DELETE_MODE"
)

const minRemovalTimeout = time.Second

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	FullDSN  string
}

type Config struct {
	DiscordToken string

	// Storage
	StorageBackend string
	DataFile       string
	DB             DBConfig

	// Logging
	AppEnv   string
	LogLevel string
	LogDir   string

	// Ops HTTP server, disabled when empty
	HTTPAddr string

	// Removal flow
	RemovalTimeout time.Duration
	DeleteMode     expense.DeleteMode
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageBackend, BackendJSON)
	v.SetDefault(KeyDataFile, "data.json")
	v.SetDefault(KeyDBName, "thriftier")
	v.SetDefault(KeyAppEnv, "development")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRemovalTimeout, "2m")
	v.SetDefault(KeyRemovalDeleteMode, string(expense.DeleteByID))
}

// Load reads .env (if present) into the environment and resolves every key
// through v, so flags bound to v win over the environment. A nil v uses a
// fresh viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		DiscordToken:   strings.TrimSpace(v.GetString(KeyDiscordToken)),
		StorageBackend: strings.ToLower(v.GetString(KeyStorageBackend)),
		DataFile:       v.GetString(KeyDataFile),
		DB: DBConfig{
			User:     v.GetString(KeyDBUser),
			Password: v.GetString(KeyDBPass),
			Host:     v.GetString(KeyDBHost),
			Port:     v.GetString(KeyDBPort),
			Name:     v.GetString(KeyDBName),
			FullDSN:  v.GetString(KeyFullDSN),
		},
		AppEnv:         strings.ToLower(v.GetString(KeyAppEnv)),
		LogLevel:       v.GetString(KeyLogLevel),
		LogDir:         v.GetString(KeyLogDir),
		HTTPAddr:       v.GetString(KeyHTTPAddr),
		RemovalTimeout: v.GetDuration(KeyRemovalTimeout),
		DeleteMode:     expense.DeleteMode(strings.ToLower(v.GetString(KeyRemovalDeleteMode))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMySQL:
		if c.DB.FullDSN == "" && (c.DB.User == "" || c.DB.Password == "" || c.DB.Host == "" || c.DB.Port == "") {
			return fmt.Errorf("missing required DB environment variables")
		}
	case BackendJSON:
		if c.DataFile == "" {
			return fmt.Errorf("%s is required for the json backend", KeyDataFile)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend: %q", c.StorageBackend)
	}

	if !c.DeleteMode.IsValid() {
		return fmt.Errorf("invalid removal delete mode: %q", c.DeleteMode)
	}
	// a bare number such as "120" parses as nanoseconds
	if c.RemovalTimeout < minRemovalTimeout {
		return fmt.Errorf("%s must be at least %s, got %s (use a unit, e.g. 2m)", KeyRemovalTimeout, minRemovalTimeout, c.RemovalTimeout)
	}
	return nil
}

// RequireToken is checked only by commands that connect to the chat platform.
func (c *Config) RequireToken() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("%s is not set", KeyDiscordToken)
	}
	return nil
}
