package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

var (
	ErrInvalid      = errors.New("invalid configuration")
	ErrNoConfigFile = errors.New("no config file in use")
)

// Config holds the application configuration
type Config struct {
	Database  Database  `mapstructure:"database"`
	Mongo     Mongo     `mapstructure:"mongo"`
	Sessions  Sessions  `mapstructure:"sessions"`
	HTTP      HTTP      `mapstructure:"http"`
	Log       Log       `mapstructure:"log"`
	Dashboard Dashboard `mapstructure:"dashboard"`
}

type Database struct {
	// Driver is one of sqlite, pgx, postgres or mysql.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// SourceDialect is the dialect the dashboard queries are written in.
	SourceDialect string `mapstructure:"source_dialect"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type Sessions struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Dashboard struct {
	ItemsPerPage int `mapstructure:"items_per_page"`
}

// Loader reads configuration from a config file, .env files and the
// environment.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// New returns a loader reading files from fs.
func New(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)
	return &Loader{v: v, fs: fs}
}

// Viper exposes the underlying instance so callers can bind flags.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load loads configuration from various sources. An explicit file must
// exist; otherwise .ledgerdash.yaml is searched for and may be absent.
func Load(file string) (*Config, error) {
	return New(AppFs).Load(file)
}

func (l *Loader) Load(file string) (*Config, error) {
	v := l.v
	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".ledgerdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "ledgerdash"))
	}

	v.SetEnvPrefix("LEDGERDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := l.loadDotEnv(".env", false); err != nil {
		return nil, err
	}
	// .env.local has higher priority
	if err := l.loadDotEnv(".env.local", true); err != nil {
		return nil, err
	}

	return l.decode()
}

// Watch calls onChange with the reloaded configuration whenever the config
// file in use changes. Invalid edits are skipped.
func (l *Loader) Watch(onChange func(*Config)) error {
	if l.v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.source_dialect", "postgres")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "ledgerdash")
	v.SetDefault("sessions.backend", "sql")
	v.SetDefault("sessions.ttl", "24h")
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("dashboard.items_per_page", 6)
}

func (l *Loader) loadDotEnv(name string, overload bool) error {
	data, err := afero.ReadFile(l.fs, name)
	if err != nil {
		// Don't fail if the file is missing or unreadable
		return nil
	}
	vals, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range vals {
		if _, set := os.LookupEnv(k); set && !overload {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = ProcessDSN()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProcessDSN returns the store location from the DB or DATABASE_URL process
// variables, in that order.
func ProcessDSN() string {
	if dsn := os.Getenv("DB"); dsn != "" {
		return dsn
	}
	return os.Getenv("DATABASE_URL")
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "pgx", "postgres", "mysql":
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalid, c.Database.Driver)
	}
	switch c.Database.SourceDialect {
	case "", "postgres", "sqlite", "mysql":
	default:
		return fmt.Errorf("%w: unknown source dialect %q", ErrInvalid, c.Database.SourceDialect)
	}
	switch c.Sessions.Backend {
	case "sql":
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: sessions.backend mongo needs mongo.uri", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown sessions backend %q", ErrInvalid, c.Sessions.Backend)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("%w: sessions.ttl must be positive", ErrInvalid)
	}
	if c.Dashboard.ItemsPerPage <= 0 {
		return fmt.Errorf("%w: dashboard.items_per_page must be positive", ErrInvalid)
	}
	return nil
}
