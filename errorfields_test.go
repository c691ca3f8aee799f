package pgwire

import "testing"

func buildErrorResponseBody(fields map[byte]string) []byte {
	var body []byte
	for tag, val := range fields {
		body = appendByte(body, tag)
		body = appendCString(body, val)
	}
	body = appendByte(body, 0)
	return body
}

func TestParseErrorFields(t *testing.T) {
	t.Parallel()
	body := buildErrorResponseBody(map[byte]string{
		'S': "ERROR",
		'C': "23505",
		'M': "duplicate key value violates unique constraint",
	})
	fields := parseErrorFields(body)
	if fields['S'] != "ERROR" {
		t.Errorf("fields['S'] = %q, want ERROR", fields['S'])
	}
	if fields['C'] != "23505" {
		t.Errorf("fields['C'] = %q, want 23505", fields['C'])
	}
	if fields['M'] == "" {
		t.Error("fields['M'] is empty")
	}
}

func TestErrorFromResponseBody(t *testing.T) {
	t.Parallel()
	body := buildErrorResponseBody(map[byte]string{
		'S': "FATAL",
		'C': "28P01",
		'M': "password authentication failed",
	})
	err := errorFromResponseBody(body)
	if err.Kind != KindDb {
		t.Errorf("Kind = %v, want KindDb", err.Kind)
	}
	if err.Code != "28P01" {
		t.Errorf("Code = %q, want 28P01", err.Code)
	}
	if err.SQLStateClass() != "28" {
		t.Errorf("SQLStateClass() = %q, want 28", err.SQLStateClass())
	}
	if err.Error() == "" {
		t.Error("Error() returned empty string")
	}
}

func TestParseErrorFieldsTruncated(t *testing.T) {
	t.Parallel()
	fields := parseErrorFields([]byte{'S'})
	if len(fields) != 0 {
		t.Errorf("fields = %#v, want empty map for a truncated body", fields)
	}
}
