package peerstream

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"convex.dev/convex/vlq"
)

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	msg := DataMessage([]byte("a multi-cell payload"))
	buf := EncodeFrame(msg)

	decoded, consumed, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if consumed != len(buf) {
		t.Fatalf("consumed = %d, want %d", consumed, len(buf))
	}
	if decoded.Type != TypeData {
		t.Fatalf("Type = %v, want TypeData", decoded.Type)
	}
	if !bytes.Equal(decoded.Payload, msg.Payload) {
		t.Fatalf("Payload mismatch: got %q want %q", decoded.Payload, msg.Payload)
	}
}

func TestMissingDataMessageRoundTrip(t *testing.T) {
	var hash [32]byte
	for i := range hash {
		hash[i] = byte(i)
	}
	buf := EncodeFrame(MissingDataMessage(hash))
	decoded, consumed, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if consumed != len(buf) {
		t.Fatalf("consumed = %d, want %d", consumed, len(buf))
	}
	if decoded.Type != TypeMissingData {
		t.Fatalf("Type = %v, want TypeMissingData", decoded.Type)
	}
	if !bytes.Equal(decoded.Payload, hash[:]) {
		t.Fatalf("Payload mismatch")
	}
}

func TestDecodeFrameIncompletePrefixWaits(t *testing.T) {
	// 0x84 has its continuation bit set, so on its own it is an incomplete
	// VLQ-Count prefix; it must signal "keep reading", not an error.
	_, consumed, err := DecodeFrame([]byte{0x84})
	if err != nil {
		t.Fatalf("unexpected error on incomplete prefix: %v", err)
	}
	if consumed != -1 {
		t.Fatalf("consumed = %d, want -1 (incomplete)", consumed)
	}
}

func TestDecodeFrameIncompleteBodyWaits(t *testing.T) {
	full := EncodeFrame(DataMessage([]byte("hello world")))
	partial := full[:len(full)-3]
	_, consumed, err := DecodeFrame(partial)
	if err != nil {
		t.Fatalf("unexpected error on incomplete body: %v", err)
	}
	if consumed != -1 {
		t.Fatalf("consumed = %d, want -1 (incomplete)", consumed)
	}
}

func TestPeekFrameLengthRejectsOverMaxFrameLength(t *testing.T) {
	// Hand-build a VLQ-Count prefix declaring a body far beyond
	// MaxFrameLength.
	huge := uint64(MaxFrameLength) + 1
	buf := vlq.WriteCount(nil, huge)
	_, _, err := PeekFrameLength(buf)
	if err == nil {
		t.Fatalf("expected error for over-length frame")
	}
	fe, ok := err.(*FrameError)
	if !ok || fe.Rule != "too-long" {
		t.Fatalf("got %v, want FrameError{Rule: too-long}", err)
	}
}

func TestConnReadWriteMessageOverLoopback(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	server := NewConn(c1)
	client := NewConn(c2)

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- server.WriteMessage(ctx, DataMessage([]byte("ping")))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := client.ReadMessage(ctx)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if msg.Type != TypeData || string(msg.Payload) != "ping" {
		t.Fatalf("got %+v, want DATA/ping", msg)
	}
}

func TestUnimplementedTypeIsRecognizedNotFatal(t *testing.T) {
	buf := EncodeFrame(Message{Type: TypeQuery, Payload: []byte("ignored")})
	msg, consumed, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame should not fail on a reserved-but-unimplemented type: %v", err)
	}
	if consumed != len(buf) {
		t.Fatalf("consumed = %d, want %d", consumed, len(buf))
	}
	if msg.Type.Implemented() {
		t.Fatalf("TypeQuery should not report Implemented()")
	}
}
