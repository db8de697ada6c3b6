// Package link opens the byte channel a transport runs over.
package link

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/bigbag/slipctl/internal/config"
	"github.com/bigbag/slipctl/internal/serial"
)

// IsTCP reports whether device names a TCP address rather than a serial port.
func IsTCP(device string) bool {
	return strings.Contains(device, ":")
}

// Open connects to cfg.Device. Addresses of the form host:port are dialed
// over TCP, anything else is opened as a serial port.
//
// Reads on the returned link give up after cfg.ReadTimeout and then return
// 0 bytes and a nil error.
func Open(cfg config.Link) (io.ReadWriteCloser, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("no device provided (e.g. /dev/ttyUSB0, COM3 or 127.0.0.1:8001)")
	}
	if IsTCP(cfg.Device) {
		return dialTCP(cfg.Device, cfg.DialTimeout, cfg.ReadTimeout)
	}
	return serial.OpenWithTimeout(cfg.Device, cfg.Baud, cfg.ReadTimeout)
}

func dialTCP(address string, dialTimeout, readTimeout time.Duration) (*TCPConn, error) {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return NewTCPConn(conn, readTimeout), nil
}

// TCPConn adapts a net.Conn to polling reads.
type TCPConn struct {
	conn        net.Conn
	readTimeout time.Duration
}

// NewTCPConn wraps conn. A readTimeout of zero or less makes reads block.
func NewTCPConn(conn net.Conn, readTimeout time.Duration) *TCPConn {
	return &TCPConn{conn: conn, readTimeout: readTimeout}
}

func (c *TCPConn) Read(p []byte) (int, error) {
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, err
		}
	}
	n, err := c.conn.Read(p)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return n, nil
	}
	return n, err
}

func (c *TCPConn) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address.
func (c *TCPConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
