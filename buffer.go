package pgwire

import "io"

// readBuffer is a growable scratch area used to assemble incoming message
// payloads without forcing an allocation per field. It is not safe for
// concurrent use; the engine never needs that, since at most one request
// cycle is ever in flight on a connection (§5).
type readBuffer struct {
	buf []byte
}

func newReadBuffer(size int) *readBuffer {
	return &readBuffer{buf: make([]byte, 0, size)}
}

// readN reads exactly n bytes from r into the buffer's backing array and
// returns a slice valid until the next call to readN.
func (b *readBuffer) readN(r io.Reader, n int) ([]byte, error) {
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	} else {
		b.buf = b.buf[:n]
	}
	if _, err := io.ReadFull(r, b.buf); err != nil {
		return nil, err
	}
	return b.buf, nil
}

// writeBuffer accumulates an outgoing message payload. append* helpers mirror
// the primitives of §4.1 (int16/int32/int64 big-endian, byte, fixed bytes,
// cstring, length-prefixed blob with -1 meaning NULL).
type writeBuffer struct {
	buf []byte
}

func newWriteBuffer(size int) *writeBuffer {
	return &writeBuffer{buf: make([]byte, 0, size)}
}

func (w *writeBuffer) reset() { w.buf = w.buf[:0] }

func (w *writeBuffer) bytes() []byte { return w.buf }
