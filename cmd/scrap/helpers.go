package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/scrap/internal/clip"
	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/hostapi"
	"go.klb.dev/scrap/internal/ipc"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/scrap"
)

// socketPath returns --socket, falling back to the platform IPC path.
func socketPath(v *viper.Viper) string {
	if p := v.GetString("socket"); p != "" {
		return p
	}
	return ipc.SocketPath()
}

// session is where one command's host calls go: a running daemon, or a
// Scrap built for this process only.
type session struct {
	hostapi.Caller
	remote bool
	close  func() error
}

func (s *session) Close() error { return s.close() }

// newScrap builds a Scrap over the configured backend.
func newScrap(v *viper.Viper) (*scrap.Scrap, error) {
	a, err := clip.Open(v.GetString("backend"))
	if err != nil {
		return nil, err
	}
	opts := []scrap.Option{scrap.WithLogger(slog.Default())}
	if v.GetBool("strict-deprecations") {
		opts = append(opts, scrap.WithAdvisory(scrap.StrictAdvisories()))
	}
	return scrap.New(a, opts...), nil
}

// openSession dials the daemon when one is listening and otherwise runs
// the calls in-process.
func openSession(v *viper.Viper) (*session, error) {
	path := socketPath(v)
	if ipc.IsRunning(path) {
		key, err := crypto.KeyFromToken(v.GetString("token"))
		if err != nil {
			return nil, fmt.Errorf("key derivation: %w", err)
		}
		c, err := hostapi.Dial(path, key)
		if err != nil {
			return nil, err
		}
		slog.Debug("using daemon", "socket", path)
		return &session{Caller: c, remote: true, close: c.Close}, nil
	}

	s, err := newScrap(v)
	if err != nil {
		return nil, err
	}
	srv := hostapi.NewServer(s, slog.Default())
	slog.Debug("no daemon, running in-process", "backend", s.Backend())
	return &session{Caller: srv, close: func() error { srv.Close(); return nil }}, nil
}

// ensureInit initializes the session unless it already is. A daemon keeps
// its cache across commands, so init is only sent when get_init says so.
func (s *session) ensureInit() error {
	resp, err := s.Call(&message.Request{Op: message.OpGetInit})
	if err != nil {
		return err
	}
	if resp.Bool {
		return nil
	}
	_, err = s.Call(&message.Request{Op: message.OpInit})
	return err
}

// sessionCmd builds a command that opens a session, runs fn, and closes it.
// Legacy commands have the session initialized first.
func sessionCmd(cmd *cobra.Command, legacy bool, fn func(*cobra.Command, *session, []string) error) *cobra.Command {
	v := viper.New()
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) }
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(v); err != nil {
			return err
		}
		sess, err := openSession(v)
		if err != nil {
			return err
		}
		defer sess.Close()
		if legacy {
			if err := sess.ensureInit(); err != nil {
				return err
			}
		}
		return fn(cmd, sess, args)
	}
	addSessionFlags(cmd)
	return cmd
}

// printBool writes true or false on its own line.
func printBool(cmd *cobra.Command, b bool) {
	fmt.Fprintln(cmd.OutOrStdout(), b)
}
