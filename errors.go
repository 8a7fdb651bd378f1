package ymodem

import "errors"

// Error taxonomy observable to a caller of Receive (spec.md §7). Receive
// returns nil exactly when the batch ended on an empty block 0, ctx.Err()
// when its context was canceled before a file, and one of these (possibly
// wrapped with file/position context) otherwise.
var (
	// ErrAborted means the sender sent CAN CAN during the batch.
	ErrAborted = errors.New("ymodem: batch aborted by sender (CAN CAN)")
	// ErrMaxRetries means the per-step retry budget (Config.MaxRetries) was spent.
	ErrMaxRetries = errors.New("ymodem: retry budget exhausted")
	// ErrOversizeFile means block 0 declared a size larger than FileSink.MaxFileSize.
	ErrOversizeFile = errors.New("ymodem: declared file size exceeds MaxFileSize")
	// ErrBlock0 means block 0 could not be parsed (spec.md §4.3).
	ErrBlock0 = errors.New("ymodem: malformed block 0")
	// ErrSinkRejected means ReceiveStart or ProcessData returned an error.
	ErrSinkRejected = errors.New("ymodem: file sink reported failure")
)
