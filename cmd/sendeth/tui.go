package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame/config"
	"github.com/mark3labs/sendeth-frame/logger"
	"github.com/mark3labs/sendeth-frame/tui"
	"github.com/mark3labs/sendeth-frame/widget"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the card in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg, opts.demo, logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (logs are discarded otherwise)")
	return cmd
}

func runTUI(ctx context.Context, cfg config.Config, demo bool, logFile string) error {
	log := zap.NewNop()
	if logFile != "" {
		l, err := logger.New(cfg.App.Env, logFile)
		if err != nil {
			return err
		}
		log = l
		defer func() { _ = log.Sync() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := newBridge(cfg, demo, log)
	if err != nil {
		return err
	}
	defer b.Close()

	latch := widget.NewLatch()
	model, err := tui.New(b, latch, card(cfg, demo),
		widget.WithRecipient(cfg.Recipient.Address),
		widget.WithDefaultAmount(cfg.Widget.DefaultAmount),
		widget.WithConfirmMessage(cfg.Widget.ConfirmMessage),
		widget.WithLogger(log),
	)
	if err != nil {
		return err
	}

	startBridge(ctx, b, latch, cfg, log)

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
