//go:build unix

package transport

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/slmpgo/slmp/internal/logging"
)

// tuneSocket applies best-effort latency tuning to a freshly dialed
// connection (SPEC_FULL.md §4.6). PLC link modules are latency sensitive
// and most vendors recommend disabling Nagle's algorithm; keepalives
// detect a silently dropped link faster than the protocol's own
// monitor_timer does. Failure to tune is logged, never fatal: a UDP
// socket or a non-TCP net.Conn simply skips the TCP-only options.
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

	raw, err := tcpConn.SyscallConn()
	if err != nil {
		logger.Debug("syscall conn unavailable for socket tuning", logging.F("error", err))
		return
	}
	ctrlErr := raw.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			logger.Debug("setsockopt TCP_NODELAY failed", logging.F("error", err))
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
			logger.Debug("setsockopt SO_KEEPALIVE failed", logging.F("error", err))
		}
	})
	if ctrlErr != nil {
		logger.Debug("socket control failed", logging.F("error", ctrlErr))
	}
}
