package ymodem

// block0Result classifies a parsed block 0 (spec.md §4.3).
type block0Result int

const (
	block0OK block0Result = iota
	block0Empty
	block0Error
)

// parseBlock0 decodes the payload of block 0:
//
//	<filename>\0<decimal_size>[ <mtime_octal>[ <mode_octal>[ <serial> ...]]]\0<NUL padding>
//
// An all-zero first byte signals the empty block 0 (end of batch). Fields
// beyond the size are ignored. Scans are bounded by len(payload); a missing
// NUL terminator within the packet is an error rather than an assumption
// (spec.md §9 "Block-0 parsing... use bounded scans only").
func parseBlock0(payload []byte, maxFilename int) (block0Result, string, int64) {
	if len(payload) == 0 || payload[0] == 0 {
		return block0Empty, "", -1
	}

	nameEnd := -1
	for i, b := range payload {
		if b == 0 {
			nameEnd = i
			break
		}
	}
	if nameEnd < 0 {
		return block0Error, "", -1
	}

	filename := string(payload[:nameEnd])
	if len(filename) > maxFilename-1 {
		filename = filename[:maxFilename-1]
	}

	rest := payload[nameEnd+1:]
	if len(rest) == 0 {
		return block0Error, "", -1
	}

	switch {
	case rest[0] == ' ':
		return block0OK, filename, -1
	case rest[0] >= '0' && rest[0] <= '9':
		// At most 16 digits, so the value always fits a non-negative int64.
		const maxSizeDigits = 16
		var size int64
		for i, b := range rest {
			if b < '0' || b > '9' {
				break
			}
			if i == maxSizeDigits {
				return block0Error, "", -1
			}
			size = size*10 + int64(b-'0')
		}
		return block0OK, filename, size
	default:
		return block0Error, "", -1
	}
}
