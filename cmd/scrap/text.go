package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/scrap/internal/message"
)

func newGetTextCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "get-text",
		Short: "Print the clipboard text (empty when there is none)",
		Args:  cobra.NoArgs,
	}, false, func(cmd *cobra.Command, sess *session, _ []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpGetText})
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), resp.Text)
		return err
	})
}

func newPutTextCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "put-text [TEXT...]",
		Short: "Replace the clipboard with TEXT, or stdin when no TEXT is given",
	}, false, func(cmd *cobra.Command, sess *session, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}
		_, err := sess.Call(&message.Request{Op: message.OpPutText, Text: text})
		return err
	})
}

func newHasTextCmd() *cobra.Command {
	return sessionCmd(&cobra.Command{
		Use:   "has-text",
		Short: "Report whether the clipboard holds non-empty text",
		Args:  cobra.NoArgs,
	}, false, func(cmd *cobra.Command, sess *session, _ []string) error {
		resp, err := sess.Call(&message.Request{Op: message.OpHasText})
		if err != nil {
			return err
		}
		printBool(cmd, resp.Bool)
		return nil
	})
}
