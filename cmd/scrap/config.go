package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/scrap/internal/clip"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and SCRAP_* env var prefix (dashes become
// underscores, so log-level reads SCRAP_LOG_LEVEL).
//
// Precedence (lowest → highest): defaults → config file → SCRAP_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("scrap")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/scrap/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/scrap", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("SCRAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info, debug when interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addSessionFlags adds the flags that pick a backend and reach a daemon.
func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("backend", clip.Auto, "clipboard backend (see \"scrap backends\")")
	f.String("socket", "", "daemon socket path (default: platform IPC path)")
	f.String("token", "", "shared secret sealing daemon traffic (empty = plain)")
	f.Bool("strict-deprecations", false, "fail legacy operations instead of warning")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)
}

// setupLogging reads logging flags from viper and configures slog. Only
// --no-background raises the default level to debug; a TTY alone does not,
// so one-shot commands stay quiet.
func setupLogging(v *viper.Viper) error {
	return resolveLogging(v.GetBool("no-background"), v.GetString("log-format"), v.GetString("log-level"))
}
