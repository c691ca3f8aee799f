package pgwire

import (
	"bytes"
	"testing"
)

func TestReadBufferReadN(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader([]byte("hello, world"))
	rb := newReadBuffer(4)

	got, err := rb.readN(src, 5)
	if err != nil {
		t.Fatalf("readN: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("readN = %q, want %q", got, "hello")
	}

	got, err = rb.readN(src, 7)
	if err != nil {
		t.Fatalf("readN: %v", err)
	}
	if string(got) != ", world" {
		t.Errorf("readN = %q, want %q", got, ", world")
	}
}

func TestReadBufferReadNTruncated(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader([]byte("ab"))
	rb := newReadBuffer(8)
	if _, err := rb.readN(src, 10); err == nil {
		t.Fatal("readN: expected error on truncated input, got nil")
	}
}

func TestWriteBufferResetReuses(t *testing.T) {
	t.Parallel()

	wb := newWriteBuffer(4)
	wb.buf = append(wb.buf, "abcdef"...)
	if got := string(wb.bytes()); got != "abcdef" {
		t.Fatalf("bytes() = %q, want %q", got, "abcdef")
	}
	wb.reset()
	if len(wb.bytes()) != 0 {
		t.Fatalf("bytes() after reset = %q, want empty", wb.bytes())
	}
	wb.buf = append(wb.buf, "xy"...)
	if got := string(wb.bytes()); got != "xy" {
		t.Fatalf("bytes() after reuse = %q, want %q", got, "xy")
	}
}
