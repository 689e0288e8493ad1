package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"jup-ag/pkg/client"
	"jup-ag/pkg/wallet"
)

const (
	configName = ".jup-ag"
	envPrefix  = "JUP"
)

// Config holds the application configuration
type Config struct {
	QuoteAPIURL   string
	PriceAPIURL   string
	APIKey        string
	Timeout       time.Duration
	RPCURL        string
	Keypair       string
	Commitment    string
	SkipPreflight bool
	LogLevel      string

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("quote_api_url", client.DefaultQuoteAPIURL)
	v.SetDefault("price_api_url", client.DefaultPriceAPIURL)
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", client.DefaultTimeout)
	v.SetDefault("rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("keypair", "~/.config/solana/id.json")
	v.SetDefault("commitment", "confirmed")
	v.SetDefault("skip_preflight", false)
	v.SetDefault("log_level", "info")
}

// Load reads configuration from environment variables and the optional
// .jup-ag.yaml in $HOME or the working directory.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches the
// default locations; a missing default file is not an error.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Unprefixed names used by other Jupiter tooling.
	_ = v.BindEnv("quote_api_url", envPrefix+"_QUOTE_API_URL", "QUOTE_API_URL")
	_ = v.BindEnv("price_api_url", envPrefix+"_PRICE_API_URL", "PRICE_API_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		QuoteAPIURL:   v.GetString("quote_api_url"),
		PriceAPIURL:   v.GetString("price_api_url"),
		APIKey:        v.GetString("api_key"),
		Timeout:       v.GetDuration("timeout"),
		RPCURL:        v.GetString("rpc_url"),
		Keypair:       expandHome(v.GetString("keypair")),
		Commitment:    v.GetString("commitment"),
		SkipPreflight: v.GetBool("skip_preflight"),
		LogLevel:      v.GetString("log_level"),
		ConfigFile:    v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail on first use.
func (c *Config) Validate() error {
	urls := []struct{ name, raw string }{
		{"quote_api_url", c.QuoteAPIURL},
		{"price_api_url", c.PriceAPIURL},
		{"rpc_url", c.RPCURL},
	}
	for _, u := range urls {
		if err := validateURL(u.raw); err != nil {
			return fmt.Errorf("invalid %s: %w", u.name, err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: must be positive, got %s", c.Timeout)
	}
	if _, err := wallet.ParseCommitment(c.Commitment); err != nil {
		return fmt.Errorf("invalid commitment: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// ClientConfig returns the settings the API client needs.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		QuoteAPIURL: c.QuoteAPIURL,
		PriceAPIURL: c.PriceAPIURL,
		APIKey:      c.APIKey,
		Timeout:     c.Timeout,
	}
}

// WalletConfig returns the settings the Solana wallet needs.
func (c *Config) WalletConfig() wallet.Config {
	return wallet.Config{
		RPCURL:        c.RPCURL,
		Keypair:       c.Keypair,
		Commitment:    c.Commitment,
		SkipPreflight: c.SkipPreflight,
	}
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
