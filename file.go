package ymodem

import "fmt"

// fileOutcome is what receiveFile decided after driving one per-file
// handshake (spec.md §4.4).
type fileOutcome int

const (
	fileOK fileOutcome = iota
	fileEndOfBatch
	fileAbort
	fileError
)

// awaitResult is the tri-state outcome of awaitPacket.
type awaitResult int

const (
	awaitAccepted awaitResult = iota
	awaitAborted
	awaitExhausted
)

// receiveFile drives the handshake for a single file: solicit and parse
// block 0 (phase A), then receive data blocks until EOT (phase B). It
// always leaves the sink in a state where ReceiveEnd has been called exactly
// once if ReceiveStart ever succeeded for this file (spec.md §3 invariant).
func (s *Session) receiveFile() (fileOutcome, error) {
	outcome, started, err := s.solicitBlock0()
	if !started {
		return outcome, err
	}

	outcome, err = s.receiveDataBlocks()
	endErr := s.sink.ReceiveEnd()
	s.observer.Finish(s.filename, s.bytesReceived, errOrFallback(err, endErr))
	if err != nil {
		return outcome, err
	}
	return outcome, endErr
}

// solicitBlock0 implements spec.md §4.4 phase A. started reports whether
// ReceiveStart succeeded (and therefore phase B, and ReceiveEnd, must run).
func (s *Session) solicitBlock0() (outcome fileOutcome, started bool, err error) {
	s.writeByte(ctlC)

	block0Pkt, result := s.awaitPacket(func(pkt packet) bool {
		switch pkt.kind {
		case pktTimeout:
			s.logger.Debug("timeout soliciting block 0, re-sending C")
			s.writeByte(ctlC)
			return false
		case pktData:
			if pkt.seq != 0 {
				s.writeByte(ctlNAK)
				return false
			}
			return true
		default: // Broken, EOT, ACK, NAK all NAK-and-retry during phase A
			s.writeByte(ctlNAK)
			return false
		}
	})
	switch result {
	case awaitAborted:
		return fileAbort, false, nil
	case awaitExhausted:
		s.cancelBatch()
		return fileError, false, fmt.Errorf("ymodem: soliciting block 0: %w", ErrMaxRetries)
	}

	parsed, filename, size := parseBlock0(block0Pkt.payload, s.cfg.FilenameBufferSize)
	switch parsed {
	case block0Error:
		s.cancelBatch()
		return fileError, false, ErrBlock0
	case block0Empty:
		s.writeByte(ctlACK)
		return fileEndOfBatch, false, nil
	}

	s.filename = filename
	s.declaredSize = size
	s.bytesReceived = 0

	if max := s.sink.MaxFileSize(); size > max {
		s.cancelBatch()
		return fileError, false, fmt.Errorf("%w: %s declares %d bytes, max is %d", ErrOversizeFile, filename, size, max)
	}
	s.writeByte(ctlACK)

	if err := s.sink.ReceiveStart(filename, size); err != nil {
		s.cancelBatch()
		return fileError, false, fmt.Errorf("%w: ReceiveStart: %v", ErrSinkRejected, err)
	}
	s.observer.Start(filename, size)
	return fileOK, true, nil
}

// receiveDataBlocks implements spec.md §4.4 phase B. Called only once
// ReceiveStart has succeeded.
func (s *Session) receiveDataBlocks() (fileOutcome, error) {
	expected := byte(1)
	s.writeByte(ctlC)

	for {
		dataPkt, result := s.awaitPacket(func(pkt packet) bool {
			switch pkt.kind {
			case pktEOT:
				return true
			case pktData:
				if pkt.seq != expected {
					s.logger.Debug("out-of-sequence data block", "expected", expected, "got", pkt.seq)
					s.writeByte(ctlNAK)
					return false
				}
				return true
			default: // Timeout, Broken, ACK, NAK
				s.writeByte(ctlNAK)
				return false
			}
		})
		switch result {
		case awaitAborted:
			return fileAbort, nil
		case awaitExhausted:
			s.cancelBatch()
			return fileError, fmt.Errorf("ymodem: receiving data block %d: %w", expected, ErrMaxRetries)
		}

		if dataPkt.kind == pktEOT {
			s.ackEOT()
			return fileOK, nil
		}

		usable := dataPkt.length
		if s.declaredSize >= 0 {
			if remaining := s.declaredSize - s.bytesReceived; int64(usable) > remaining {
				usable = int(remaining)
			}
		}
		if err := s.sink.ProcessData(dataPkt.payload[:usable]); err != nil {
			s.cancelBatch()
			return fileError, fmt.Errorf("%w: ProcessData: %v", ErrSinkRejected, err)
		}
		s.bytesReceived += int64(usable)
		s.observer.Progress(s.bytesReceived, s.declaredSize)
		s.writeByte(ctlACK)
		expected++
	}
}

// awaitPacket retries receivePacket up to Config.MaxRetries times. judge
// inspects each non-CAN packet and returns true to accept it and stop
// retrying (emitting whatever reply it needs itself); CAN always aborts
// immediately regardless of phase (spec.md §4.4: "On CAN: emit ACK, return
// Abort" appears identically in both phases).
//
// The retry budget is NOT reset within a call when judge re-solicits after a
// timeout (spec.md §9 open question 2: the original does not restart
// MAX_RETRY on a successful timeout-re-solicit either; behavior preserved
// here). Each call starts a fresh budget, so phase B gets one per data block.
func (s *Session) awaitPacket(judge func(pkt packet) bool) (packet, awaitResult) {
	for i := 0; i < s.cfg.MaxRetries; i++ {
		pkt := s.receivePacket()
		if pkt.kind == pktCAN {
			s.writeByte(ctlACK)
			return pkt, awaitAborted
		}
		if judge(pkt) {
			return pkt, awaitAccepted
		}
	}
	return packet{}, awaitExhausted
}

// ackEOT implements the end-of-transmission handshake. The single-ACK form
// is the default (spec.md §4.4); Config.StrictEOT selects the strict
// NAK-then-ACK form instead (spec.md §9 open question 3) — either is
// acceptable, and the choice does not affect any other part of the design.
func (s *Session) ackEOT() {
	if !s.cfg.StrictEOT {
		s.writeByte(ctlACK)
		return
	}
	s.writeByte(ctlNAK)
	// The strict form expects the sender to resend EOT once more; any
	// response here is accepted as confirmation and the file is closed out.
	s.receivePacket()
	s.writeByte(ctlACK)
}

// cancelBatch emits the two-CAN abort sequence with no intervening reads
// (spec.md §5 ordering guarantee).
func (s *Session) cancelBatch() {
	s.writeByte(ctlCAN)
	s.writeByte(ctlCAN)
}

func (s *Session) writeByte(b byte) {
	if err := s.transport.WriteByte(b); err != nil {
		s.logger.Debug("put_byte failed", "byte", fmt.Sprintf("0x%02x", b), "err", err)
	}
}

// errOrFallback returns primary unless it is nil, in which case it returns
// fallback (used so Observer.Finish sees a ReceiveEnd failure even when the
// data phase itself succeeded).
func errOrFallback(primary, fallback error) error {
	if primary != nil {
		return primary
	}
	return fallback
}
