// Package audit implements ymodem.Observer by appending a CBOR-encoded
// receipt to a local log file for every transfer that reached Start, whether
// it completed or failed. A file rejected before Start (for example an
// oversize declaration) gets no receipt.
//
// Grounded on librescoot-bluetooth-service/pkg/service/helpers.go, which
// uses github.com/fxamacker/cbor/v2 to encode compact binary payloads.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Receipt is one CBOR-encoded record per transferred file.
type Receipt struct {
	Filename      string    `cbor:"filename"`
	DeclaredSize  int64     `cbor:"declared_size"`
	BytesReceived int64     `cbor:"bytes_received"`
	StartedAt     time.Time `cbor:"started_at"`
	FinishedAt    time.Time `cbor:"finished_at"`
	Error         string    `cbor:"error,omitempty"`
}

// Log appends Receipts to a single file, one CBOR item after another.
type Log struct {
	mu        sync.Mutex
	f         *os.File
	startedAt time.Time
	filename  string
	size      int64
}

// Open opens (creating if needed) the log file at path for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &Log{f: f}, nil
}

func (l *Log) Start(filename string, size int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filename = filename
	l.size = size
	l.startedAt = time.Now()
}

// Progress is not recorded; only the start/finish boundary is of interest
// to an audit trail.
func (l *Log) Progress(int64, int64) {}

func (l *Log) Finish(filename string, bytesReceived int64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := Receipt{
		Filename:      filename,
		DeclaredSize:  l.size,
		BytesReceived: bytesReceived,
		StartedAt:     l.startedAt,
		FinishedAt:    time.Now(),
	}
	if err != nil {
		r.Error = err.Error()
	}

	encoded, encErr := cbor.Marshal(r)
	if encErr != nil {
		return
	}
	l.f.Write(encoded)
}

// Close flushes and closes the underlying log file.
func (l *Log) Close() error {
	return l.f.Close()
}
