package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/bridgetest"
	"github.com/mark3labs/sendeth-frame/config"
	"github.com/mark3labs/sendeth-frame/evm"
	"github.com/mark3labs/sendeth-frame/retry"
	"github.com/mark3labs/sendeth-frame/widget"
)

type rootOptions struct {
	configPath string
	demo       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sendeth",
		Short:         "Send-ETH payment card for social frames",
		Long:          "sendeth serves a card that lets a viewer connect a wallet and send ETH to a fixed recipient.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ./sendeth.yaml or ./config/sendeth.yaml)")
	pf.BoolVar(&opts.demo, "demo", false, "use a simulated wallet instead of a real key and RPC endpoint")
	pf.String("env", "development", "environment: development or production")
	pf.String("recipient", "", "payment recipient (ignored when set at build time)")
	pf.String("network", "", "network: "+fmt.Sprint(sendeth.Networks()))
	pf.String("rpc-url", "", "JSON-RPC endpoint")
	pf.String("amount", "", "default amount in ETH")

	cmd.AddCommand(newServeCmd(opts), newTUICmd(opts))
	return cmd
}

// loadConfig resolves configuration for cmd and applies the build-time
// recipient.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if recipient != "" {
		cfg.Recipient.Address = recipient
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if !opts.demo {
		if err := cfg.ValidateWallet(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// bridge is a sendeth.Bridge that may hold a connection.
type bridge interface {
	sendeth.Bridge
	Close()
}

type simulated struct {
	*bridgetest.Bridge
}

func (simulated) Close() {}

func newBridge(cfg config.Config, demo bool, logger *zap.Logger) (bridge, error) {
	if demo {
		logger.Warn("demo mode: transfers are simulated")
		return simulated{bridgetest.NewSimulated()}, nil
	}

	w := cfg.Wallet
	opts := []evm.BridgeOption{
		evm.WithNetwork(w.Network),
		evm.WithRPCURL(w.RPCURL),
		evm.WithMaxAmount(w.MaxAmount),
		evm.WithGasLimit(w.GasLimit),
		evm.WithLogger(logger),
	}
	switch {
	case w.PrivateKey != "":
		opts = append(opts, evm.WithPrivateKey(w.PrivateKey))
	case w.KeystorePath != "":
		opts = append(opts, evm.WithKeystore(w.KeystorePath, w.Password))
	case w.Mnemonic != "":
		opts = append(opts, evm.WithMnemonic(w.Mnemonic, w.AccountIndex))
	}

	b, err := evm.NewBridge(opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("wallet loaded",
		zap.String("address", b.Address().Hex()),
		zap.String("network", b.Chain().Name))
	return b, nil
}

// startBridge initializes b in the background and sets latch when it is
// ready. Failures are logged; the card stays in its loading state.
func startBridge(ctx context.Context, b sendeth.Bridge, latch *widget.Latch, cfg config.Config, logger *zap.Logger) {
	retryCfg := retry.DefaultConfig
	if cfg.Wallet.InitAttempts > 0 {
		retryCfg.MaxAttempts = cfg.Wallet.InitAttempts
	}

	go func() {
		err := widget.AwaitBridge(ctx, b, latch, retryCfg, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("wallet bridge failed to start", zap.Error(err))
		}
	}()
}

func card(cfg config.Config, demo bool) widget.Card {
	c := widget.Card{
		Title:       cfg.Widget.Title,
		Description: cfg.Widget.Description,
	}
	if chain := cfg.Chain(); !demo && chain.ExplorerURL != "" {
		c.ExplorerTxURL = chain.ExplorerURL + "/tx/"
	}
	return c
}

const shutdownTimeout = 10 * time.Second
