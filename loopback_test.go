package ymodem

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// These scenarios mirror the end-to-end table of concrete cases the rest of
// the package's unit tests are distilled from: a scripted byte stream
// standing in for a real sender, run through the full Session.Receive state
// machine, with a fakeSink recording what the protocol actually delivered.

func TestLoopbackSingleFileCleanTransfer(t *testing.T) {
	payload := make([]byte, shortBlockSize)
	copy(payload, "hello")

	var script []byte
	script = append(script, block0Packet("hello.txt", "5")...)
	script = append(script, buildDataPacket(1, payload)...)
	script = append(script, ctlEOT)
	script = append(script, emptyBlock0Packet()...)

	tr := &fakeTransport{bytes: toPtrSlice(script)}
	sink := &fakeSink{maxSize: 1000}
	s := NewSession(tr, sink)

	if err := s.Receive(context.Background()); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if sink.name != "hello.txt" || sink.size != 5 {
		t.Errorf("receive_start args = (%q, %d), want (hello.txt, 5)", sink.name, sink.size)
	}
	if sink.data.String() != "hello" {
		t.Errorf("process_data got %q, want %q", sink.data.String(), "hello")
	}
	if !sink.ended {
		t.Errorf("receive_end was not called")
	}
}

func TestLoopbackLongBlockTrimmedToDeclaredSize(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAA}, longBlockSize)

	var script []byte
	script = append(script, block0Packet("a", "128")...)
	script = append(script, buildDataPacket(1, payload)...)
	script = append(script, ctlEOT)
	script = append(script, emptyBlock0Packet()...)

	tr := &fakeTransport{bytes: toPtrSlice(script)}
	sink := &fakeSink{maxSize: 10000}
	s := NewSession(tr, sink)

	if err := s.Receive(context.Background()); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if sink.data.Len() != 128 {
		t.Fatalf("delivered %d bytes, want exactly 128", sink.data.Len())
	}
	if !bytes.Equal(sink.data.Bytes(), bytes.Repeat([]byte{0xAA}, 128)) {
		t.Errorf("delivered bytes do not match the leading 128 bytes of the block")
	}
}

func TestLoopbackUndeclaredSizeDeliversVerbatim(t *testing.T) {
	payload := make([]byte, shortBlockSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	var script []byte
	script = append(script, block0Packet("stream", " ")...)
	script = append(script, buildDataPacket(1, payload)...)
	script = append(script, ctlEOT)
	script = append(script, emptyBlock0Packet()...)

	tr := &fakeTransport{bytes: toPtrSlice(script)}
	sink := &fakeSink{maxSize: 10000}
	s := NewSession(tr, sink)

	if err := s.Receive(context.Background()); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if !bytes.Equal(sink.data.Bytes(), payload) {
		t.Errorf("undeclared-size transfer did not deliver the payload verbatim")
	}
}

func TestLoopbackBoundedRetriesThenAbort(t *testing.T) {
	payload := make([]byte, shortBlockSize)
	raw := buildDataPacket(1, payload)
	corrupted := append([]byte(nil), raw...)
	corrupted[len(corrupted)-1] ^= 0x01 // single-bit CRC error, repeated

	var script []byte
	script = append(script, block0Packet("a", "128")...)
	for i := 0; i < 5; i++ {
		script = append(script, corrupted...)
	}

	tr := &fakeTransport{bytes: toPtrSlice(script)}
	sink := &fakeSink{maxSize: 10000}
	s := NewSession(tr, sink)

	err := s.Receive(context.Background())
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("err = %v, want ErrMaxRetries", err)
	}
	if tr.written[len(tr.written)-1] != ctlCAN || tr.written[len(tr.written)-2] != ctlCAN {
		t.Errorf("expected trailing CAN CAN, got %v", tr.written)
	}
}

func TestLoopbackMidFileCancel(t *testing.T) {
	var script []byte
	script = append(script, block0Packet("a", "128")...)
	script = append(script, ctlCAN, ctlCAN)

	tr := &fakeTransport{bytes: toPtrSlice(script)}
	sink := &fakeSink{maxSize: 10000}
	s := NewSession(tr, sink)

	err := s.Receive(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if !sink.ended {
		t.Errorf("receive_end should still be called when a started file is aborted")
	}
	if tr.written[len(tr.written)-1] != ctlACK {
		t.Errorf("expected a single trailing ACK for the CAN CAN, got %v", tr.written)
	}
}

func TestLoopbackOversizeRejectedBeforeStart(t *testing.T) {
	raw := block0Packet("huge.bin", "100000")
	tr := &fakeTransport{bytes: toPtrSlice(raw)}
	sink := &fakeSink{maxSize: 1000}
	s := NewSession(tr, sink)

	err := s.Receive(context.Background())
	if !errors.Is(err, ErrOversizeFile) {
		t.Fatalf("err = %v, want ErrOversizeFile", err)
	}
	if sink.started {
		t.Errorf("receive_start must not be called for an oversize declaration")
	}
	if tr.written[len(tr.written)-1] != ctlCAN || tr.written[len(tr.written)-2] != ctlCAN {
		t.Errorf("expected trailing CAN CAN, got %v", tr.written)
	}
}
