package ymodem

import (
	"context"
	"errors"
	"fmt"
)

// Receive drives one complete YMODEM batch: repeated per-file handshakes
// until the sender signals end of batch with an empty block 0, the sender
// cancels with CAN, or a protocol or sink error ends the file (retry budget
// exhausted, malformed or oversize block 0, sink failure) (spec.md §3,
// §4.4, §5).
//
// ctx is checked between files, not mid-packet: a single in-flight
// receivePacket call is bounded by Config.PacketTimeout/CharTimeout rather
// than ctx, matching the original's single-threaded poll loop. Cancel the
// context to stop soliciting further files once the current one finishes.
func (s *Session) Receive(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.cancelBatch()
			return err
		}

		outcome, err := s.receiveFile()
		switch outcome {
		case fileOK:
			s.logger.Info("file received", "filename", s.filename, "bytes", s.bytesReceived)
			continue
		case fileEndOfBatch:
			s.logger.Info("batch complete")
			return nil
		case fileAbort:
			s.logger.Warn("batch aborted by sender")
			return ErrAborted
		case fileError:
			s.logger.Error("batch failed", "err", err)
			return fmt.Errorf("ymodem: %w", err)
		default:
			return errors.New("ymodem: unreachable file outcome")
		}
	}
}
