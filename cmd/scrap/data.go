package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"go.klb.dev/scrap/internal/clip"
	"go.klb.dev/scrap/internal/message"
)

func newGetCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "get TYPE",
		Short: "Write the clipboard content of TYPE to stdout (deprecated)",
		Long: `Writes the content of TYPE from the active buffer to stdout. Prints
nothing and exits 0 when the buffer has no content of that type:

  scrap get image/png > screenshot.png`,
		Args: cobra.ExactArgs(1),
	}, true, func(cmd *cobra.Command, sess *session, args []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpGet, Type: args[0]})
		if err != nil {
			return err
		}
		if !resp.Found {
			return nil
		}
		_, err = cmd.OutOrStdout().Write(resp.Data)
		return err
	})
}

func newPutCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "put TYPE",
		Short: "Place stdin on the clipboard as TYPE (deprecated)",
		Args:  cobra.ExactArgs(1),
	}, true, func(cmd *cobra.Command, sess *session, args []string) error {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		_, err = sess.Call(&message.Request{Op: message.OpPut, Type: args[0], Data: data})
		return err
	})
}

func newTypesCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "types",
		Short: "List the types available in the active buffer (deprecated)",
		Args:  cobra.NoArgs,
	}, true, func(cmd *cobra.Command, sess *session, _ []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpGetTypes})
		if err != nil {
			return err
		}
		for _, t := range resp.Types {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	})
}

func newContainsCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "contains TYPE",
		Short: "Report whether the active buffer offers TYPE (deprecated)",
		Args:  cobra.ExactArgs(1),
	}, true, func(cmd *cobra.Command, sess *session, args []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpContains, Type: args[0]})
		if err != nil {
			return err
		}
		printBool(cmd, resp.Bool)
		return nil
	})
}

func newLostCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "lost",
		Short: "Report whether another application now owns the clipboard (deprecated)",
		Args:  cobra.NoArgs,
	}, true, func(cmd *cobra.Command, sess *session, _ []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpLost})
		if err != nil {
			return err
		}
		printBool(cmd, resp.Bool)
		return nil
	})
}

func newSetModeCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "set-mode clipboard|selection|N",
		Short: "Select the buffer later legacy calls act on (deprecated)",
		Args:  cobra.ExactArgs(1),
	}, true, func(cmd *cobra.Command, sess *session, args []string) error {
		mode, err := parseMode(args[0])
		if err != nil {
			return err
		}
		resp, err := sess.Call(&message.Request{Op: message.OpSetMode, Mode: &mode})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), clip.Buffer(resp.Mode))
		return nil
	})
}

// parseMode accepts a buffer name or a raw integer. Out-of-range integers
// are passed through so set_mode can reject them.
func parseMode(s string) (int, error) {
	if b, err := clip.ParseBuffer(s); err == nil {
		return int(b), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("mode %q: want clipboard, selection or an integer", s)
	}
	return n, nil
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the clipboard backends this build supports",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range clip.Backends() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
