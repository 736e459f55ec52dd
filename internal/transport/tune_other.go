//go:build !unix

package transport

import (
	"net"

	"github.com/slmpgo/slmp/internal/logging"
)

// tuneSocket on non-unix platforms sticks to the stdlib's portable
// TCP options; the golang.org/x/sys/unix fast path in tune_unix.go only
// builds where SyscallConn exposes a raw fd.
func tuneSocket(conn net.Conn, logger logging.Logger) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tcpConn.SetNoDelay(true); err != nil {
		logger.Debug("disable Nagle's algorithm failed", logging.F("error", err))
	}
	if err := tcpConn.SetKeepAlive(true); err != nil {
		logger.Debug("enable keepalive failed", logging.F("error", err))
	}
}
