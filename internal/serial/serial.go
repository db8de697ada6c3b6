// Package serial wraps go.bug.st/serial for framed links.
package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultReadTimeout bounds a single Read so callers can poll for cancellation.
const DefaultReadTimeout = 100 * time.Millisecond

// Port is an open 8N1 serial port.
//
// Read returns 0 bytes and a nil error when the read timeout expires
// without data.
type Port struct {
	port     serial.Port
	portName string
	baudRate int
}

// Open opens a serial port with the specified baud rate and DefaultReadTimeout.
func Open(portName string, baudRate int) (*Port, error) {
	return OpenWithTimeout(portName, baudRate, DefaultReadTimeout)
}

// OpenWithTimeout opens a serial port with the specified baud rate and read timeout.
func OpenWithTimeout(portName string, baudRate int, timeout time.Duration) (*Port, error) {
	if portName == "" {
		return nil, fmt.Errorf("no serial device provided")
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &Port{
		port:     port,
		portName: portName,
		baudRate: baudRate,
	}, nil
}

// Close closes the serial port.
func (p *Port) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Write writes data to the serial port.
func (p *Port) Write(data []byte) (int, error) {
	return p.port.Write(data)
}

// Read reads data from the serial port.
func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// SetReadTimeout changes how long Read waits for data.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	return p.port.SetReadTimeout(timeout)
}

// Flush discards any buffered input.
func (p *Port) Flush() error {
	return p.port.ResetInputBuffer()
}

// PortName returns the port name.
func (p *Port) PortName() string {
	return p.portName
}

// BaudRate returns the current baud rate.
func (p *Port) BaudRate() int {
	return p.baudRate
}

// ListPorts returns a list of available serial ports.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	return ports, nil
}
