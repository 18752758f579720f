package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/hostapi"
	"go.klb.dev/scrap/internal/ipc"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard daemon on the IPC socket",
		Long: `Starts a daemon that owns one clipboard session and answers host calls
on the IPC socket until interrupted. The ownership cache and the active
buffer live as long as the daemon.

Config file search order:
  /etc/scrap/scrap.toml
  $HOME/.config/scrap/scrap.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → SCRAP_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}
	cmd.Flags().Duration("watch-interval", hostapi.DefaultWatchInterval, "how often to check clipboard ownership (0 disables)")
	addSessionFlags(cmd)
	return cmd
}

func runServe(v *viper.Viper) error {
	if err := setupLogging(v); err != nil {
		return err
	}

	path := socketPath(v)
	if ipc.IsRunning(path) {
		return fmt.Errorf("a daemon is already listening on %s", path)
	}

	key, err := crypto.KeyFromToken(v.GetString("token"))
	if err != nil {
		return fmt.Errorf("key derivation: %w", err)
	}

	s, err := newScrap(v)
	if err != nil {
		return err
	}
	srv := hostapi.NewServer(s, slog.Default())
	defer srv.Close()

	ln, err := ipc.Listen(path)
	if err != nil {
		return fmt.Errorf("listen %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("scrap daemon starting",
		"version", Version,
		"socket", path,
		"backend", s.Backend(),
		"sealed", key != nil,
		"strict", v.GetBool("strict-deprecations"),
	)
	go srv.Watch(ctx, v.GetDuration("watch-interval"))
	err = srv.Serve(ctx, ln, key)
	slog.Info("scrap daemon stopped")
	return err
}
