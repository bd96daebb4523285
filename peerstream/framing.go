// Package peerstream implements the stream message-length framing peers use
// to exchange multi-cell payloads and missing-data requests: a VLQ-Count
// length prefix, a one-byte message-type code, then the payload.
package peerstream

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"convex.dev/convex/vlq"
)

// MaxFrameLength bounds total-payload-length (type byte + payload). It is
// deliberately much larger than cell.LimitEncodingLength, since a frame
// typically carries a multi-cell buffer -- a root plus many descendants --
// not a single cell.
const MaxFrameLength = 1 << 20

// FrameError is peerstream's BadFormat-shaped error, carrying a stable rule
// tag the way cell.FormatError does for the codec core.
type FrameError struct {
	Rule string
	Msg  string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("peerstream: %s: %s", e.Rule, e.Msg)
}

func badFrame(rule, format string, args ...any) error {
	return &FrameError{Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// EncodeFrame writes msg's wire framing: [VLQ-Count(1+len(payload))]
// [type byte][payload].
func EncodeFrame(msg Message) []byte {
	total := uint64(1 + len(msg.Payload))
	buf := vlq.WriteCount(nil, total)
	buf = append(buf, byte(msg.Type))
	buf = append(buf, msg.Payload...)
	return buf
}

// PeekFrameLength inspects the start of buf and reports how many bytes the
// length prefix occupies (prefixLen) and how many payload+type bytes follow
// it (bodyLen), without requiring the body itself to be present yet.
//
// It returns prefixLen == -1 when buf does not yet hold a complete VLQ-Count
// prefix -- callers should keep reading and try again. It fails BadFormat
// when the declared length exceeds MaxFrameLength or the prefix itself is
// malformed (non-minimal, overflow).
func PeekFrameLength(buf []byte) (prefixLen, bodyLen int, err error) {
	n, perr := vlq.PeekCountLengthPrefix(buf)
	if perr != nil {
		return 0, 0, badFrame("vlq-non-minimal", "%v", perr)
	}
	if n < 0 {
		return -1, -1, nil
	}
	total, _, rerr := vlq.ReadCount(buf, 0)
	if rerr != nil {
		return 0, 0, badFrame("vlq-non-minimal", "%v", rerr)
	}
	if total > MaxFrameLength {
		return 0, 0, badFrame("too-long", "frame body length %d exceeds MaxFrameLength %d", total, MaxFrameLength)
	}
	if total < 1 {
		return 0, 0, badFrame("truncated", "frame body length %d too small to hold a type byte", total)
	}
	return n, int(total), nil
}

// DecodeFrame parses a single complete frame from the start of buf,
// returning the Message and the total number of bytes consumed (prefix +
// type byte + payload). It returns an incomplete-frame condition identical
// to PeekFrameLength's (-1 consumed, nil error) when buf does not yet hold
// the whole frame.
func DecodeFrame(buf []byte) (msg Message, consumed int, err error) {
	prefixLen, bodyLen, err := PeekFrameLength(buf)
	if err != nil {
		return Message{}, 0, err
	}
	if prefixLen < 0 {
		return Message{}, -1, nil
	}
	if len(buf) < prefixLen+bodyLen {
		return Message{}, -1, nil
	}
	body := buf[prefixLen : prefixLen+bodyLen]
	msg = Message{
		Type:    Type(body[0]),
		Payload: append([]byte(nil), body[1:]...),
	}
	return msg, prefixLen + bodyLen, nil
}

// Conn wraps a net.Conn with frame-at-a-time read/write, honoring a
// context.Context per call the way store/storegrpc's Client does for its
// RPCs -- cancellation and deadlines are a network-edge concern, not
// something the pure codec or multicell packages take on.
type Conn struct {
	nc  net.Conn
	buf []byte

	// Logger, if set, receives a warning when ReadMessage rejects a frame.
	// Left nil it is silent -- a short-lived test Conn has nowhere useful
	// to log to.
	Logger *zerolog.Logger
}

// NewConn wraps an established net.Conn.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc}
}

// WriteMessage writes a single framed message, honoring ctx's deadline if
// set.
func (c *Conn) WriteMessage(ctx context.Context, msg Message) error {
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	_, err := c.nc.Write(EncodeFrame(msg))
	return err
}

// ReadMessage blocks until one full frame has arrived, honoring ctx's
// deadline if set. Recognized-but-unimplemented message types (Query,
// Result) are returned to the caller rather than silently dropped here --
// peerstream only owns framing; deciding to log-and-drop belongs to the
// peer loop that has somewhere to log to.
func (c *Conn) ReadMessage(ctx context.Context) (Message, error) {
	if err := c.applyDeadline(ctx); err != nil {
		return Message{}, err
	}
	for {
		msg, consumed, err := DecodeFrame(c.buf)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Warn().Err(err).Str("remote", c.nc.RemoteAddr().String()).Msg("frame rejected")
			}
			return Message{}, err
		}
		if consumed >= 0 {
			c.buf = c.buf[consumed:]
			return msg, nil
		}
		chunk := make([]byte, 4096)
		n, err := c.nc.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
		}
		if err != nil {
			return Message{}, err
		}
	}
}

func (c *Conn) applyDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return c.nc.SetDeadline(time.Time{})
	}
	return c.nc.SetDeadline(deadline)
}
