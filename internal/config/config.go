// Package config binds flags, environment variables and an optional .env file
// into the settings the client, view server and development store run with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. AUCTION_STORE_URL
const EnvPrefix = "AUCTION"

// Store backends of the development store
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const defaultListenAddr = ":8080"

// Flag describes a configuration flag.
type Flag struct {
	Name        string
	DefValue    interface{}
	Description string
}

// Flags is every setting the binary understands
var Flags = []Flag{
	{Name: "store-url", DefValue: "http://localhost:8000", Description: "Base URL of the auction store"},
	{Name: "request-timeout", DefValue: 10 * time.Second, Description: "Timeout for a single store request"},
	{Name: "rate-limit", DefValue: 5.0, Description: "Outbound store requests per second (0 disables limiting)"},
	{Name: "rate-burst", DefValue: 10, Description: "Outbound request burst size"},
	{Name: "listen-addr", DefValue: defaultListenAddr, Description: "View server listen address"},
	{Name: "store-addr", DefValue: ":8000", Description: "Development store listen address"},
	{Name: "store-backend", DefValue: BackendMemory, Description: "Development store backend: memory or redis"},
	{Name: "redis-addr", DefValue: "localhost:6379", Description: "Redis address for the redis backend"},
	{Name: "redis-password", DefValue: "", Description: "Redis password"},
	{Name: "redis-db", DefValue: 0, Description: "Redis database number"},
	{Name: "log-level", DefValue: "info", Description: "Log level: debug, info, warn or error"},
	{Name: "seed", DefValue: true, Description: "Seed the development store with sample auctions"},
}

// Config holds the resolved settings
type Config struct {
	StoreURL       string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	ListenAddr string

	StoreAddr     string
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Seed          bool

	LogLevel string
}

// ConfigureCLI configures a Viper environment with persistent flags on cmd and envs.
func ConfigureCLI(v *viper.Viper, envPrefix string, flags []Flag, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	pflags := cmd.PersistentFlags()
	for _, flag := range flags {
		switch defval := flag.DefValue.(type) {
		case string:
			pflags.String(flag.Name, defval, flag.Description)
		case bool:
			pflags.Bool(flag.Name, defval, flag.Description)
		case int:
			pflags.Int(flag.Name, defval, flag.Description)
		case float64:
			pflags.Float64(flag.Name, defval, flag.Description)
		case time.Duration:
			pflags.Duration(flag.Name, defval, flag.Description)
		default:
			return fmt.Errorf("unknown flag type: %T", flag.DefValue)
		}
		v.SetDefault(flag.Name, flag.DefValue)
		if err := v.BindPFlag(flag.Name, pflags.Lookup(flag.Name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from the given files (".env" if none) without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves and validates the settings bound on v.
// PORT, when set, replaces the default listen address.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		StoreURL:       strings.TrimRight(v.GetString("store-url"), "/"),
		RequestTimeout: v.GetDuration("request-timeout"),
		RateLimit:      v.GetFloat64("rate-limit"),
		RateBurst:      v.GetInt("rate-burst"),
		ListenAddr:     v.GetString("listen-addr"),
		StoreAddr:      v.GetString("store-addr"),
		StoreBackend:   strings.ToLower(v.GetString("store-backend")),
		RedisAddr:      v.GetString("redis-addr"),
		RedisPassword:  v.GetString("redis-password"),
		RedisDB:        v.GetInt("redis-db"),
		Seed:           v.GetBool("seed"),
		LogLevel:       v.GetString("log-level"),
	}

	if port := os.Getenv("PORT"); port != "" && cfg.ListenAddr == defaultListenAddr {
		cfg.ListenAddr = ":" + port
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.StoreURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: invalid store-url %q", c.StoreURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request-timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate-limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("config: rate-burst must be positive when rate-limit is set, got %d", c.RateBurst)
	}
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: unknown store-backend %q", c.StoreBackend)
	}
	return nil
}
