// Package ymodem implements the receiver side of the YMODEM file transfer
// protocol: packet framing, CRC-16/XMODEM validation, the retry/timeout/abort
// policy, and the two-phase (block 0, then data blocks) per-file handshake,
// iterated across a session until an empty block 0 ends the batch.
//
// The byte transport and the filesystem sink are modeled as two small
// capability interfaces (ByteTransport, FileSink) supplied by the caller;
// this package never touches a socket, a serial port, or a file directly.
package ymodem

import (
	"log/slog"
	"time"
)

// ByteTransport is the single-byte, timeout-bounded transport capability
// (spec.md §6: get_byte/put_byte). ReadByte blocks up to timeout for one
// byte; a timeout or any I/O failure is reported as an error, matching the
// original callback's single -1 "no byte" outcome. WriteByte is best-effort:
// the protocol defines no error channel for it, so callers should make
// failures here non-fatal (e.g. log and continue).
type ByteTransport interface {
	ReadByte(timeout time.Duration) (byte, error)
	WriteByte(b byte) error
}

// FileSink is the filesystem lifecycle capability (spec.md §6:
// max_file_size/receive_start/process_data/receive_end). The session never
// retains ownership of whatever resource ReceiveStart opens; ReceiveEnd is
// always called exactly once per file that reached ReceiveStart, regardless
// of whether the file completed, was aborted, or errored.
type FileSink interface {
	MaxFileSize() int64
	ReceiveStart(filename string, size int64) error
	ProcessData(data []byte) error
	ReceiveEnd() error
}

// Config controls session timing and limits. Zero value is valid; missing
// fields are filled in by defaults() the same way the caller never needs to
// know PacketTimeout or MaxRetries if the embedded defaults are fine.
type Config struct {
	// PacketTimeout bounds the wait for the first byte of a packet.
	PacketTimeout time.Duration
	// CharTimeout bounds the wait for every subsequent byte within a packet.
	CharTimeout time.Duration
	// MaxRetries is the retry budget per protocol step before giving up.
	MaxRetries int
	// FilenameBufferSize caps the filename copied out of block 0, mirroring
	// the fixed-size buffer of the original embedded implementation.
	FilenameBufferSize int
	// StrictEOT selects the strict YMODEM NAK-then-ACK termination dance
	// instead of the single-ACK form (spec.md §4.4 "EOT handling
	// (simplified)" / §9 open question 3). Default false (single-ACK).
	StrictEOT bool
}

func (c *Config) defaults() {
	if c.PacketTimeout <= 0 {
		c.PacketTimeout = defaultPacketTimeout
	}
	if c.CharTimeout <= 0 {
		c.CharTimeout = defaultCharTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.FilenameBufferSize <= 0 {
		c.FilenameBufferSize = defaultFilenameBufferSize
	}
}

// Session binds a single receive batch: the scratch buffer, the transport
// and sink capabilities, and the per-file counters. It is not safe for
// concurrent use, and is meant to be discarded after Receive returns (spec.md
// §3 "Lifecycle").
type Session struct {
	transport ByteTransport
	sink      FileSink
	observer  Observer
	logger    *slog.Logger
	cfg       Config

	scratch       [longBlockSize]byte
	filename      string
	declaredSize  int64
	bytesReceived int64
}

// NewSession returns a Session ready to Receive over transport, delivering
// files to sink. Defaults apply until overridden with WithConfig.
func NewSession(transport ByteTransport, sink FileSink) *Session {
	s := &Session{
		transport: transport,
		sink:      sink,
		observer:  noopObserver{},
		logger:    slog.Default(),
	}
	s.cfg.defaults()
	return s
}

// WithConfig overrides timeouts and limits. Unset fields (zero value) fall
// back to their defaults.
func (s *Session) WithConfig(cfg Config) *Session {
	cfg.defaults()
	s.cfg = cfg
	return s
}

// WithObserver attaches a progress Observer. Pass a MultiObserver to
// combine several.
func (s *Session) WithObserver(o Observer) *Session {
	if o != nil {
		s.observer = o
	}
	return s
}

// WithLogger overrides the structured logger (default slog.Default()).
func (s *Session) WithLogger(l *slog.Logger) *Session {
	if l != nil {
		s.logger = l
	}
	return s
}
