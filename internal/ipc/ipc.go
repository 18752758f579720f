// Package ipc provides the local socket a scripting host uses to reach a
// running scrap daemon. On Unix it is a Unix domain socket; on Windows a
// named pipe.
package ipc

import (
	"net"
	"os"
	"time"
)

const dialTimeout = 2 * time.Second

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - $SCRAP_SOCKET when set
//   - Linux:   $XDG_RUNTIME_DIR/scrap.sock, else $TMPDIR/scrap.sock
//   - macOS:   $TMPDIR/scrap.sock
//   - Windows: \\.\pipe\scrap
func SocketPath() string {
	if s := os.Getenv("SCRAP_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// Listen creates a listener on path, removing a stale socket from a
// previous (crashed) run first.
func Listen(path string) (net.Listener, error) {
	return listenIPC(path)
}

// Dial connects to the daemon listening on path.
func Dial(path string) (net.Conn, error) {
	return dialIPC(path, dialTimeout)
}

// IsRunning reports whether a daemon appears to be listening on path. It
// does a cheap dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := Dial(path)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
