package ymodem

import "testing"

func payloadOf(s string) []byte {
	buf := make([]byte, shortBlockSize)
	copy(buf, s)
	return buf
}

func TestParseBlock0(t *testing.T) {
	cases := []struct {
		name       string
		payload    []byte
		maxName    int
		wantResult block0Result
		wantName   string
		wantSize   int64
	}{
		{
			name:       "ordinary file",
			payload:    payloadOf("firmware.bin\x0012345\x00"),
			maxName:    256,
			wantResult: block0OK,
			wantName:   "firmware.bin",
			wantSize:   12345,
		},
		{
			name:       "zero size",
			payload:    payloadOf("empty.txt\x000\x00"),
			maxName:    256,
			wantResult: block0OK,
			wantName:   "empty.txt",
			wantSize:   0,
		},
		{
			name:       "undeclared size",
			payload:    payloadOf("stream.bin\x00 \x00"),
			maxName:    256,
			wantResult: block0OK,
			wantName:   "stream.bin",
			wantSize:   -1,
		},
		{
			name:       "empty block 0 ends batch",
			payload:    make([]byte, shortBlockSize),
			maxName:    256,
			wantResult: block0Empty,
		},
		{
			name:       "nil payload ends batch",
			payload:    nil,
			maxName:    256,
			wantResult: block0Empty,
		},
		{
			name:       "missing NUL terminator is malformed",
			payload:    []byte("nonullterminator"),
			maxName:    256,
			wantResult: block0Error,
		},
		{
			name:       "missing size field is malformed",
			payload:    append([]byte("noSizeField\x00"), make([]byte, shortBlockSize-12)...),
			maxName:    256,
			wantResult: block0Error,
		},
		{
			name:       "non-digit, non-space size byte is malformed",
			payload:    payloadOf("bad.bin\x00xyz\x00"),
			maxName:    256,
			wantResult: block0Error,
		},
		{
			name:       "filename truncated to buffer size",
			payload:    payloadOf("this-name-is-long\x0010\x00"),
			maxName:    6,
			wantResult: block0OK,
			wantName:   "this-",
			wantSize:   10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, name, size := parseBlock0(tc.payload, tc.maxName)
			if result != tc.wantResult {
				t.Fatalf("result = %v, want %v", result, tc.wantResult)
			}
			if result != block0OK {
				return
			}
			if name != tc.wantName {
				t.Errorf("name = %q, want %q", name, tc.wantName)
			}
			if size != tc.wantSize {
				t.Errorf("size = %d, want %d", size, tc.wantSize)
			}
		})
	}
}
