// Package config loads sendeth settings from a YAML file, SENDETH_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/validation"
)

// Router names accepted by server.router.
const (
	RouterChi = "chi"
	RouterGin = "gin"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Recipient RecipientConfig `mapstructure:"recipient"`
	Widget    WidgetConfig    `mapstructure:"widget"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	Router     string        `mapstructure:"router"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type RecipientConfig struct {
	Address string `mapstructure:"address"`
}

type WidgetConfig struct {
	Title          string `mapstructure:"title"`
	Description    string `mapstructure:"description"`
	DefaultAmount  string `mapstructure:"default_amount"`
	ConfirmMessage string `mapstructure:"confirm_message"`
}

// WalletConfig selects the key the EVM bridge signs with. Exactly one of
// PrivateKey, KeystorePath and Mnemonic should be set.
type WalletConfig struct {
	Network      string `mapstructure:"network"`
	RPCURL       string `mapstructure:"rpc_url"`
	PrivateKey   string `mapstructure:"private_key"`
	KeystorePath string `mapstructure:"keystore_path"`
	Password     string `mapstructure:"password"` // usually SENDETH_WALLET_PASSWORD
	Mnemonic     string `mapstructure:"mnemonic"`
	AccountIndex uint32 `mapstructure:"account_index"`
	MaxAmount    string `mapstructure:"max_amount"` // wei
	GasLimit     uint64 `mapstructure:"gas_limit"`
	InitAttempts int    `mapstructure:"init_attempts"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"env":       "app.env",
	"addr":      "server.addr",
	"router":    "server.router",
	"recipient": "recipient.address",
	"network":   "wallet.network",
	"rpc-url":   "wallet.rpc_url",
	"amount":    "widget.default_amount",
}

// Load reads configuration. When path is empty, sendeth.yaml is looked up
// in the working directory and ./config; a missing file is not an error.
// Flags present in flags override file and environment values.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sendeth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SENDETH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.router", RouterChi)
	v.SetDefault("server.session_ttl", 30*time.Minute)

	v.SetDefault("recipient.address", "")

	v.SetDefault("widget.title", "Send ETH to furlong.eth")
	v.SetDefault("widget.description", "Support df by sending some ETH directly from this frame")
	v.SetDefault("widget.default_amount", "0.01")
	v.SetDefault("widget.confirm_message", "Connect to Send ETH to furlong.eth")

	v.SetDefault("wallet.network", sendeth.BaseMainnet.NetworkID)
	v.SetDefault("wallet.rpc_url", "")
	v.SetDefault("wallet.private_key", "")
	v.SetDefault("wallet.keystore_path", "")
	v.SetDefault("wallet.password", "")
	v.SetDefault("wallet.mnemonic", "")
	v.SetDefault("wallet.account_index", 0)
	v.SetDefault("wallet.max_amount", "")
	v.SetDefault("wallet.gas_limit", 21000)
	v.SetDefault("wallet.init_attempts", 5)
}

// Validate checks the settings every mode needs.
func (c Config) Validate() error {
	if err := validation.ValidateRecipient(c.Recipient.Address); err != nil {
		return fmt.Errorf("recipient.address: %w", err)
	}
	if _, err := sendeth.ValidateNetwork(c.Wallet.Network); err != nil {
		return fmt.Errorf("wallet.network: %w", err)
	}
	switch c.Server.Router {
	case RouterChi, RouterGin:
	default:
		return fmt.Errorf("server.router: unknown router %q (want %s or %s)", c.Server.Router, RouterChi, RouterGin)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl: must be positive, got %s", c.Server.SessionTTL)
	}
	if err := validation.ValidateAmount(c.Widget.DefaultAmount); err != nil {
		return fmt.Errorf("widget.default_amount: %w", err)
	}
	return nil
}

// ValidateWallet checks the settings the EVM bridge needs. Demo mode
// skips it.
func (c Config) ValidateWallet() error {
	sources := 0
	for _, s := range []string{c.Wallet.PrivateKey, c.Wallet.KeystorePath, c.Wallet.Mnemonic} {
		if s != "" {
			sources++
		}
	}
	switch sources {
	case 0:
		return fmt.Errorf("%w: set one of wallet.private_key, wallet.keystore_path or wallet.mnemonic", sendeth.ErrInvalidKey)
	case 1:
	default:
		return fmt.Errorf("%w: wallet.private_key, wallet.keystore_path and wallet.mnemonic are mutually exclusive", sendeth.ErrInvalidKey)
	}

	if c.Wallet.RPCURL == "" {
		return fmt.Errorf("wallet.rpc_url: %w: rpc url is required", sendeth.ErrInvalidNetwork)
	}
	if c.Wallet.MaxAmount != "" {
		if _, err := validation.ValidateWeiAmount(c.Wallet.MaxAmount); err != nil {
			return fmt.Errorf("wallet.max_amount: %w", err)
		}
	}
	return nil
}

// Chain returns the configured network. Call after Validate.
func (c Config) Chain() sendeth.ChainConfig {
	chain, _ := sendeth.ValidateNetwork(c.Wallet.Network)
	return chain
}
