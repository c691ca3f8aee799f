package pgwire

import "crypto/tls"

const defaultMsgBufSize = 8 * 1024 // §4.1: codec's scratch buffer

// ConnConfig holds everything needed to establish and authenticate a
// Connection. Zero-value fields fall back to documented defaults.
type ConnConfig struct {
	Host     string // hostname, IP, or local-socket directory (see dsn.Parse)
	Port     uint16 // default: 5432
	Database string // default: User
	User     string
	Password string

	// RuntimeParams are forwarded verbatim as startup packet options
	// (e.g. application_name, search_path). client_encoding and
	// integer_datetimes are read back from ParameterStatus regardless of
	// whether they are set here.
	RuntimeParams map[string]string

	// TLSConfig, when non-nil, is handed to the SSL negotiation hook
	// (§6) once the server agrees to upgrade the transport.
	TLSConfig *tls.Config

	// MsgBufSize sizes the message codec's initial scratch buffer.
	MsgBufSize int

	Logger Logger
}

func (c *ConnConfig) setDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Database == "" {
		c.Database = c.User
	}
	if c.MsgBufSize == 0 {
		c.MsgBufSize = defaultMsgBufSize
	}
	if c.Logger == nil {
		c.Logger = newDefaultLogger()
	}
	if c.RuntimeParams == nil {
		c.RuntimeParams = map[string]string{}
	}
}
