// Package serial adapts go.bug.st/serial to ymodem.ByteTransport, giving the
// receiver a real UART to talk to.
package serial

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Config describes how to open the serial port.
type Config struct {
	Port     string
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

func (c *Config) defaults() {
	if c.BaudRate <= 0 {
		c.BaudRate = 115200
	}
	if c.DataBits <= 0 {
		c.DataBits = 8
	}
	if c.StopBits == 0 {
		c.StopBits = serial.OneStopBit
	}
}

// Transport implements ymodem.ByteTransport over a go.bug.st/serial port.
// ReadByte sets the port's read timeout on every call so it can satisfy
// both the packet timeout and the (shorter) per-character timeout the
// protocol needs within a single packet.
type Transport struct {
	port serial.Port
}

// Open opens cfg.Port in 8N1 (unless overridden) and returns a Transport
// ready for use by ymodem.NewSession.
func Open(cfg Config) (*Transport, error) {
	cfg.defaults()
	if cfg.Port == "" {
		return nil, errors.New("serial: Config.Port is required")
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		Parity:   cfg.Parity,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Port, err)
	}
	return &Transport{port: port}, nil
}

// ReadByte blocks up to timeout for one byte.
func (t *Transport) ReadByte(timeout time.Duration) (byte, error) {
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return 0, fmt.Errorf("serial: SetReadTimeout: %w", err)
	}
	buf := [1]byte{}
	n, err := t.port.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("serial: read: %w", err)
	}
	if n == 0 {
		return 0, errors.New("serial: read timeout")
	}
	return buf[0], nil
}

// WriteByte writes a single byte, best-effort per ymodem.ByteTransport.
func (t *Transport) WriteByte(b byte) error {
	_, err := t.port.Write([]byte{b})
	return err
}

// Close releases the underlying port.
func (t *Transport) Close() error {
	return t.port.Close()
}
