package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/hostapi"
	"go.klb.dev/scrap/internal/message"
)

func newCallCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "call OP [TYPE]",
		Short: "Send one raw host call to the daemon and print the JSON response",
		Long: `Sends a single request to the running daemon and prints its response
as one JSON line. OP is one of:

  init get_init get_types contains get put lost set_mode get_mode
  get_text put_text has_text

  scrap call put text/plain --data 'hello'
  scrap call set_mode --mode 1`,
		Args:    cobra.RangeArgs(1, 2),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runCall(cmd, v, args) },
	}

	f := cmd.Flags()
	f.String("data", "", "payload for put")
	f.String("text", "", "text for put_text")
	f.Int("mode", 0, "buffer for set_mode (0 clipboard, 1 selection)")
	addSessionFlags(cmd)
	return cmd
}

func runCall(cmd *cobra.Command, v *viper.Viper, args []string) error {
	if err := setupLogging(v); err != nil {
		return err
	}

	op := message.Op(args[0])
	if !slices.Contains(message.Ops, op) {
		return fmt.Errorf("%w: unknown op %q", hostapi.ErrBadRequest, op)
	}
	req := &message.Request{Op: op, Text: v.GetString("text")}
	if len(args) > 1 {
		req.Type = args[1]
	}
	if cmd.Flags().Changed("data") {
		req.Data = []byte(v.GetString("data"))
	}
	if op == message.OpSetMode && cmd.Flags().Changed("mode") {
		m := v.GetInt("mode")
		req.Mode = &m
	}

	path := socketPath(v)
	key, err := crypto.KeyFromToken(v.GetString("token"))
	if err != nil {
		return fmt.Errorf("key derivation: %w", err)
	}
	c, err := hostapi.Dial(path, key)
	if err != nil {
		return fmt.Errorf("%w (start a daemon with \"scrap serve\")", err)
	}
	defer c.Close()

	resp, err := c.Call(req)
	var rerr *hostapi.RemoteError
	if err != nil && !errors.As(err, &rerr) {
		return err
	}
	b, encErr := message.Encode(resp)
	if encErr != nil {
		return encErr
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
