package pgwire

import (
	"encoding/binary"
	"io"
	"net"

	"github.com/jackc/pgio"
)

// message is a single tagged, length-prefixed wire frame (§4.1). startup-
// phase messages (the startup packet and the SSL request) have no tag and
// are built/sent with the dedicated helpers in connect.go.
type message struct {
	Tag  byte
	Body []byte
}

// codec reads and writes tagged frames from a transport. It is stateless
// beyond the transport and its scratch buffers, and never interprets
// payload semantics (§4.1) — that is the session engine's job.
type codec struct {
	conn net.Conn
	rbuf *readBuffer
	wbuf *writeBuffer
	hbuf [5]byte // tag + int32 length, reused per read
}

func newCodec(conn net.Conn, bufSize int) *codec {
	return &codec{conn: conn, rbuf: newReadBuffer(bufSize), wbuf: newWriteBuffer(bufSize)}
}

// read parses the next tagged frame off the transport.
func (c *codec) read() (message, error) {
	if _, err := io.ReadFull(c.conn, c.hbuf[:]); err != nil {
		return message{}, wrapErr(KindIo, "reading message header", err)
	}
	tag := c.hbuf[0]
	length := int32(binary.BigEndian.Uint32(c.hbuf[1:5]))
	if length < 4 {
		return message{}, newErr(KindProtocol, "message length field smaller than its own size")
	}
	bodyLen := int(length) - 4
	if bodyLen == 0 {
		return message{Tag: tag}, nil
	}
	body, err := c.rbuf.readN(c.conn, bodyLen)
	if err != nil {
		return message{}, wrapErr(KindIo, "reading message body", err)
	}
	// copy out: rbuf's backing array is reused on the next read
	out := make([]byte, len(body))
	copy(out, body)
	return message{Tag: tag, Body: out}, nil
}

// write frames tag+body into the codec's reusable scratch writeBuffer and
// sends it in one call.
func (c *codec) write(tag byte, body []byte) error {
	c.wbuf.reset()
	c.wbuf.buf = append(c.wbuf.buf, tag)
	c.wbuf.buf = pgio.AppendInt32(c.wbuf.buf, int32(len(body)+4))
	c.wbuf.buf = append(c.wbuf.buf, body...)
	if _, err := c.conn.Write(c.wbuf.bytes()); err != nil {
		return wrapErr(KindIo, "writing message", err)
	}
	return nil
}

// --- payload builders (writer side, §4.1 primitives) ---

func appendInt16(buf []byte, v int16) []byte { return pgio.AppendInt16(buf, v) }
func appendInt32(buf []byte, v int32) []byte { return pgio.AppendInt32(buf, v) }
func appendInt64(buf []byte, v int64) []byte { return pgio.AppendInt64(buf, v) }

func appendByte(buf []byte, v byte) []byte { return append(buf, v) }

func appendBytes(buf []byte, v []byte) []byte { return append(buf, v...) }

func appendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

// appendLenPrefixedBytes appends a 4-byte length followed by v, or just -1
// when v is nil (NULL, per §4.1 and §4.2 to-wire contract).
func appendLenPrefixedBytes(buf []byte, v []byte) []byte {
	if v == nil {
		return pgio.AppendInt32(buf, -1)
	}
	buf = pgio.AppendInt32(buf, int32(len(v)))
	return append(buf, v...)
}

// --- payload readers (reader side) ---

// fieldReader is a cursor over an already-framed message body.
type fieldReader struct {
	buf []byte
	pos int
}

func newFieldReader(body []byte) *fieldReader { return &fieldReader{buf: body} }

func (r *fieldReader) remaining() int { return len(r.buf) - r.pos }

func (r *fieldReader) byte() (byte, error) {
	if r.remaining() < 1 {
		return 0, newErr(KindProtocol, "truncated message: expected a byte")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *fieldReader) int16() (int16, error) {
	if r.remaining() < 2 {
		return 0, newErr(KindProtocol, "truncated message: expected int16")
	}
	v := int16(binary.BigEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	return v, nil
}

func (r *fieldReader) int32() (int32, error) {
	if r.remaining() < 4 {
		return 0, newErr(KindProtocol, "truncated message: expected int32")
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *fieldReader) int64() (int64, error) {
	if r.remaining() < 8 {
		return 0, newErr(KindProtocol, "truncated message: expected int64")
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *fieldReader) bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, newErr(KindProtocol, "truncated message: expected fixed-length bytes")
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *fieldReader) cstring() (string, error) {
	for i := r.pos; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", newErr(KindProtocol, "truncated message: unterminated cstring")
}

// lenPrefixedBytes reads a length-prefixed blob; a declared length of -1
// means NULL and is reported via the ok return.
func (r *fieldReader) lenPrefixedBytes() (data []byte, ok bool, err error) {
	n, err := r.int32()
	if err != nil {
		return nil, false, err
	}
	if n < 0 {
		return nil, false, nil
	}
	data, err = r.bytes(int(n))
	return data, true, err
}
