package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOTFLOW_LEDGER.
const EnvPrefix = "DOTFLOW"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string `mapstructure:"home"`        // config directory, e.g. $HOME/.dotflow
	LedgerPath string `mapstructure:"ledger"`      // SQLite ledger file
	Account    string `mapstructure:"account"`     // acting account for mutating commands
	Passphrase string `mapstructure:"passphrase"`  // keyring passphrase
	Admin      string `mapstructure:"admin"`       // chain registry admin account
	LogLevel   string `mapstructure:"log_level"`   // zap level
	VaultURL   string `mapstructure:"vault_url"`   // remote gateway for resolving, optional
	ChainsFile string `mapstructure:"chains_file"` // chains.yaml seeded into an empty registry

	Listen         string  `mapstructure:"listen"` // vaultd listen address
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	HTTP *http.Client `mapstructure:"-"` // optional; used by the remote vault client
}

// configKeys lists every key Config decodes. Unmarshal only sees keys viper
// already knows about, so each one is bound to its environment variable.
var configKeys = []string{
	"home", "ledger", "account", "passphrase", "admin", "log_level",
	"vault_url", "chains_file", "listen", "rate_limit_rps", "rate_limit_burst",
}

// DefaultHome returns $HOME/.dotflow.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dotflow"
	}
	return filepath.Join(home, ".dotflow")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("home", DefaultHome())
	v.SetDefault("log_level", "info")
	v.SetDefault("listen", "127.0.0.1:8645")
	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)
}

// LoadConfig resolves the configuration from v. configFile may be empty, in
// which case <home>/config.yaml is read if it exists.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("home"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Home == "" {
		cfg.Home = DefaultHome()
	}
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = filepath.Join(cfg.Home, "ledger.db")
	}
	return cfg, nil
}
