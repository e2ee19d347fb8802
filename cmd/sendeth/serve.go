package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame/config"
	sendethhttp "github.com/mark3labs/sendeth-frame/http"
	sendethchi "github.com/mark3labs/sendeth-frame/http/chi"
	sendethgin "github.com/mark3labs/sendeth-frame/http/gin"
	"github.com/mark3labs/sendeth-frame/logger"
	"github.com/mark3labs/sendeth-frame/monitor"
	"github.com/mark3labs/sendeth-frame/widget"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card over HTTP for embedding in a frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, opts.demo)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("router", "", "HTTP router: chi or gin")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, demo bool) error {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBridge(cfg, demo, log)
	if err != nil {
		return err
	}
	defer b.Close()

	latch := widget.NewLatch()
	metrics := monitor.New()

	srv, err := sendethhttp.NewServer(sendethhttp.Config{
		Recipient:      cfg.Recipient.Address,
		Card:           card(cfg, demo),
		DefaultAmount:  cfg.Widget.DefaultAmount,
		ConfirmMessage: cfg.Widget.ConfirmMessage,
		SessionTTL:     cfg.Server.SessionTTL,
	}, b, latch, log, metrics)
	if err != nil {
		return err
	}

	var handler http.Handler
	if cfg.Server.Router == config.RouterGin {
		handler = sendethgin.New(srv)
	} else {
		handler = sendethchi.New(srv)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	startBridge(ctx, b, latch, cfg, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving frame",
			zap.String("addr", cfg.Server.Addr),
			zap.String("router", cfg.Server.Router),
			zap.String("recipient", cfg.Recipient.Address))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
