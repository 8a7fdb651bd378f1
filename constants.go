package ymodem

import "time"

// Wire-protocol control bytes (spec.md §6). Bit-exact; must not change.
const (
	ctlSOH = 0x01 // start of 128-byte data packet
	ctlSTX = 0x02 // start of 1024-byte data packet
	ctlEOT = 0x04 // end of transmission for the current file
	ctlACK = 0x06 // positive acknowledge
	ctlNAK = 0x15 // negative acknowledge / request retransmission
	ctlCAN = 0x18 // cancel; two in a row aborts the batch
	ctlC   = 0x43 // 'C', solicits CRC-16 mode; receiver-to-sender only
)

// Data packet payload sizes.
const (
	shortBlockSize = 128
	longBlockSize  = 1024
)

// Defaults named in spec.md §6.
const (
	defaultPacketTimeout      = 10 * time.Second
	defaultCharTimeout        = 1 * time.Second
	defaultMaxRetries         = 5
	defaultFilenameBufferSize = 256
)
