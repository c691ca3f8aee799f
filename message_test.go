package pgwire

import (
	"net"
	"testing"
)

func TestCodecWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	writerCodec := newCodec(client, 64)
	readerCodec := newCodec(server, 64)

	body := appendCString(nil, "SELECT 1")
	done := make(chan error, 1)
	go func() { done <- writerCodec.write(tagQuery, body) }()

	msg, err := readerCodec.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("write: %v", err)
	}

	if msg.Tag != tagQuery {
		t.Errorf("Tag = %q, want %q", msg.Tag, tagQuery)
	}
	if string(trimCString(msg.Body)) != "SELECT 1" {
		t.Errorf("Body = %q, want %q", msg.Body, "SELECT 1")
	}
}

func TestCodecReadEmptyBody(t *testing.T) {
	t.Parallel()

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	writerCodec := newCodec(client, 64)
	readerCodec := newCodec(server, 64)

	done := make(chan error, 1)
	go func() { done <- writerCodec.write(tagSync, nil) }()

	msg, err := readerCodec.read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg.Tag != tagSync {
		t.Errorf("Tag = %q, want %q", msg.Tag, tagSync)
	}
	if len(msg.Body) != 0 {
		t.Errorf("Body = %v, want empty", msg.Body)
	}
}

func TestFieldReaderPrimitives(t *testing.T) {
	t.Parallel()

	var buf []byte
	buf = appendByte(buf, 'E')
	buf = appendInt16(buf, -7)
	buf = appendInt32(buf, 123456)
	buf = appendInt64(buf, -9999999999)
	buf = appendCString(buf, "hi")
	buf = appendLenPrefixedBytes(buf, []byte("data"))
	buf = appendLenPrefixedBytes(buf, nil)

	r := newFieldReader(buf)

	b, err := r.byte()
	if err != nil || b != 'E' {
		t.Fatalf("byte() = (%v, %v), want ('E', nil)", b, err)
	}
	i16, err := r.int16()
	if err != nil || i16 != -7 {
		t.Fatalf("int16() = (%v, %v), want (-7, nil)", i16, err)
	}
	i32, err := r.int32()
	if err != nil || i32 != 123456 {
		t.Fatalf("int32() = (%v, %v), want (123456, nil)", i32, err)
	}
	i64, err := r.int64()
	if err != nil || i64 != -9999999999 {
		t.Fatalf("int64() = (%v, %v), want (-9999999999, nil)", i64, err)
	}
	s, err := r.cstring()
	if err != nil || s != "hi" {
		t.Fatalf("cstring() = (%v, %v), want (hi, nil)", s, err)
	}
	data, ok, err := r.lenPrefixedBytes()
	if err != nil || !ok || string(data) != "data" {
		t.Fatalf("lenPrefixedBytes() = (%v, %v, %v), want (data, true, nil)", data, ok, err)
	}
	data, ok, err = r.lenPrefixedBytes()
	if err != nil || ok || data != nil {
		t.Fatalf("lenPrefixedBytes() for NULL = (%v, %v, %v), want (nil, false, nil)", data, ok, err)
	}
	if r.remaining() != 0 {
		t.Fatalf("remaining() = %d, want 0", r.remaining())
	}
}

func TestFieldReaderTruncated(t *testing.T) {
	t.Parallel()

	r := newFieldReader([]byte{0x01})
	if _, err := r.int32(); err == nil {
		t.Fatal("int32() on truncated buffer: expected error, got nil")
	}

	r2 := newFieldReader([]byte("no-nul-terminator"))
	if _, err := r2.cstring(); err == nil {
		t.Fatal("cstring() without terminator: expected error, got nil")
	}
}
