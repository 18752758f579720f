// scrap: clipboard access for scripting hosts.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/scrap/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scrap",
		Short: "Clipboard access for scripting hosts",
		Long: `scrap reads and writes the system clipboard (and the X11 primary
selection where the backend has one) on behalf of a scripting host.

Run "scrap serve" to keep one clipboard session alive across calls; the
typed legacy commands (get, put, types, lost, ...) only remember what they
placed on the clipboard inside a daemon. Every other command talks to the
daemon when one is listening and runs in-process otherwise.

Config file search order (first found wins):
  /etc/scrap/scrap.toml
  $HOME/.config/scrap/scrap.toml
  path supplied via --config

All flags can be set via SCRAP_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCallCmd(),
		newGetTextCmd(),
		newPutTextCmd(),
		newHasTextCmd(),
		newGetCmd(),
		newPutCmd(),
		newTypesCmd(),
		newContainsCmd(),
		newLostCmd(),
		newSetModeCmd(),
		newBackendsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scrap %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) error {
	format, err := logging.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		if levelStr != "" {
			return fmt.Errorf("unknown log level %q", levelStr)
		}
		if interactive {
			level = slog.LevelDebug
		}
	}
	logging.Setup(format, level)
	return nil
}
