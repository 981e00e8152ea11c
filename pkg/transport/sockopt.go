package transport

import (
	"fmt"
	"net"
	"syscall"
	"time"
)

// tuneConn TCP 连接关闭 Nagle，按需开启保活，非 TCP 连接不处理
func tuneConn(c net.Conn, keepAlive time.Duration) {
	tc, ok := c.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tc.SetNoDelay(true)
	if keepAlive > 0 {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(keepAlive)
	}
}

func listenConfig(reuseAddr bool) net.ListenConfig {
	if !reuseAddr {
		return net.ListenConfig{}
	}
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var serr error
			if err := c.Control(func(fd uintptr) {
				serr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			if serr != nil {
				return fmt.Errorf("transport: set SO_REUSEADDR: %w", serr)
			}
			return nil
		},
	}
}
