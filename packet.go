package ymodem

// packetKind classifies what receivePacket read off the wire (spec.md §3,
// §4.2). Timeout and Broken are outcomes, not Go errors: the original
// callback folds "no byte within timeout" and "I/O failure" into the same
// -1, and this package preserves that by returning a kind rather than
// propagating an error for every malformed packet.
type packetKind int

const (
	pktData packetKind = iota
	pktEOT
	pktACK
	pktNAK
	pktCAN
	pktTimeout
	pktBroken
)

func (k packetKind) String() string {
	switch k {
	case pktData:
		return "Data"
	case pktEOT:
		return "EOT"
	case pktACK:
		return "ACK"
	case pktNAK:
		return "NAK"
	case pktCAN:
		return "CAN"
	case pktTimeout:
		return "Timeout"
	case pktBroken:
		return "Broken"
	default:
		return "Unknown"
	}
}

// packet is the transient result of receivePacket; it is never stored
// between packets (spec.md §3). payload is a slice into Session.scratch,
// valid only until the next receivePacket call.
type packet struct {
	kind    packetKind
	length  int
	seq     byte
	payload []byte
}

// receivePacket reads one framed packet from the transport (spec.md §4.2).
//
//	[SOH|STX] [seq] [~seq] [payload: 128|1024 bytes] [crc_hi] [crc_lo]
//
// Any read error or timeout on the first byte yields pktTimeout; any read
// error or timeout afterward, or a failed validation, yields pktBroken.
func (s *Session) receivePacket() packet {
	first, err := s.transport.ReadByte(s.cfg.PacketTimeout)
	if err != nil {
		return packet{kind: pktTimeout}
	}

	switch first {
	case ctlCAN:
		second, err := s.transport.ReadByte(s.cfg.CharTimeout)
		if err == nil && second == ctlCAN {
			return packet{kind: pktCAN}
		}
		return packet{kind: pktBroken}
	case ctlEOT:
		return packet{kind: pktEOT}
	case ctlACK:
		return packet{kind: pktACK}
	case ctlNAK:
		return packet{kind: pktNAK}
	case ctlSOH, ctlSTX:
		// fall through to framed-packet reception below
	default:
		// spec.md §9 open question 1: any byte outside the recognized set
		// MUST be treated as Broken, never fall through with length unset.
		return packet{kind: pktBroken}
	}

	length := shortBlockSize
	if first == ctlSTX {
		length = longBlockSize
	}

	seq, err := s.transport.ReadByte(s.cfg.CharTimeout)
	if err != nil {
		return packet{kind: pktBroken}
	}
	seqCompl, err := s.transport.ReadByte(s.cfg.CharTimeout)
	if err != nil {
		return packet{kind: pktBroken}
	}

	payload := s.scratch[:length]
	for i := 0; i < length; i++ {
		b, err := s.transport.ReadByte(s.cfg.CharTimeout)
		if err != nil {
			return packet{kind: pktBroken}
		}
		payload[i] = b
	}

	crcHi, err := s.transport.ReadByte(s.cfg.CharTimeout)
	if err != nil {
		return packet{kind: pktBroken}
	}
	crcLo, err := s.transport.ReadByte(s.cfg.CharTimeout)
	if err != nil {
		return packet{kind: pktBroken}
	}

	if seq^seqCompl != 0xFF {
		return packet{kind: pktBroken}
	}

	wantCRC := uint16(crcHi)<<8 | uint16(crcLo)
	if crc16Compute(payload) != wantCRC {
		return packet{kind: pktBroken}
	}

	return packet{kind: pktData, length: length, seq: seq, payload: payload}
}
