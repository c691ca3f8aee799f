package pgwire

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"

	"github.com/nkonev/pgwire/types"
)

// Connect dials the server, performs the startup/authentication handshake
// (§4.7), and returns a ready-to-use Connection. ctx only bounds the dial
// and handshake; once Connect returns, timeouts are the transport's
// responsibility (§5).
func Connect(ctx context.Context, cfg ConnConfig) (*Connection, error) {
	cfg.setDefaults()

	netConn, err := dial(ctx, cfg)
	if err != nil {
		return nil, wrapErr(KindConnect, "dialing server", err)
	}

	if cfg.TLSConfig != nil {
		netConn, err = negotiateSSL(netConn, cfg.TLSConfig)
		if err != nil {
			netConn.Close()
			return nil, err
		}
	}

	c := &Connection{
		cfg:       cfg,
		netConn:   netConn,
		codec:     newCodec(netConn, cfg.MsgBufSize),
		registry:  types.NewDefaultRegistry(),
		params:    make(map[string]string),
		stmtCache: make(map[string]*Statement),
		logger:    cfg.Logger,
	}

	if err := c.startup(); err != nil {
		netConn.Close()
		return nil, err
	}
	return c, nil
}

func dial(ctx context.Context, cfg ConnConfig) (net.Conn, error) {
	var d net.Dialer
	if strings.HasPrefix(cfg.Host, "/") {
		socket := cfg.Host
		if !strings.Contains(socket, ".s.PGSQL.") {
			socket = fmt.Sprintf("%s/.s.PGSQL.%d", strings.TrimRight(socket, "/"), cfg.Port)
		}
		return d.DialContext(ctx, "unix", socket)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return d.DialContext(ctx, "tcp", addr)
}

// negotiateSSL implements the §6 SSL negotiation hook: send the SSL
// request sentinel, then either hand the transport to the TLS collaborator
// (server replied 'S') or fail (server replied 'N', since a caller that
// set TLSConfig has no fallback policy here).
func negotiateSSL(conn net.Conn, tlsConfig *tls.Config) (net.Conn, error) {
	req := make([]byte, 0, 8)
	req = appendInt32(req, 8)
	req = appendInt32(req, sslRequestCode)
	if _, err := conn.Write(req); err != nil {
		return nil, wrapErr(KindIo, "sending SSL request", err)
	}
	reply := make([]byte, 1)
	if _, err := conn.Read(reply); err != nil {
		return nil, wrapErr(KindIo, "reading SSL negotiation reply", err)
	}
	switch reply[0] {
	case 'S':
		return tls.Client(conn, tlsConfig), nil
	case 'N':
		return nil, newErr(KindConnect, "server refused SSL and no cleartext fallback policy is configured (NoSsl)")
	default:
		return nil, newErr(KindProtocol, "unexpected SSL negotiation reply byte")
	}
}

// startup sends the StartupMessage and drives the handshake loop until
// ReadyForQuery, dispatching AuthenticationRequest kinds to auth.go and
// absorbing ParameterStatus/BackendKeyData along the way (§4.7).
func (c *Connection) startup() error {
	body := make([]byte, 0, 64)
	body = appendInt32(body, protocolVersion3)
	body = appendCString(body, "user")
	body = appendCString(body, c.cfg.User)
	body = appendCString(body, "database")
	body = appendCString(body, c.cfg.Database)
	for k, v := range c.cfg.RuntimeParams {
		body = appendCString(body, k)
		body = appendCString(body, v)
	}
	body = append(body, 0) // terminator

	// the startup packet has no tag, only a length prefix including itself
	frame := make([]byte, 0, len(body)+4)
	frame = appendInt32(frame, int32(len(body)+4))
	frame = append(frame, body...)
	if _, err := c.netConn.Write(frame); err != nil {
		return wrapErr(KindIo, "sending startup message", err)
	}

	for {
		msg, err := c.codec.read()
		if err != nil {
			return err
		}
		switch msg.Tag {
		case tagAuthentication:
			done, err := c.handleAuth(msg.Body)
			if err != nil {
				return err
			}
			if done {
				continue
			}
		case tagParameterStatus:
			c.absorbParameterStatus(msg.Body)
		case tagBackendKeyData:
			c.absorbBackendKeyData(msg.Body)
		case tagErrorResponse:
			return errorFromResponseBody(msg.Body)
		case tagNoticeResponse:
			c.logNotice(msg.Body)
		case tagReadyForQuery:
			r := newFieldReader(msg.Body)
			status, err := r.byte()
			if err != nil {
				return err
			}
			c.txStatus = status
			return nil
		default:
			return newErr(KindProtocol, fmt.Sprintf("unexpected message %q during startup", msg.Tag))
		}
	}
}

func (c *Connection) absorbParameterStatus(body []byte) {
	r := newFieldReader(body)
	name, err := r.cstring()
	if err != nil {
		return
	}
	value, err := r.cstring()
	if err != nil {
		return
	}
	c.params[name] = value
	if name == "integer_datetimes" {
		c.registry.SetIntegerDatetimes(value == "on")
	}
}

func (c *Connection) absorbBackendKeyData(body []byte) {
	r := newFieldReader(body)
	pid, err := r.int32()
	if err != nil {
		return
	}
	secret, err := r.int32()
	if err != nil {
		return
	}
	c.pid = pid
	c.secretKey = secret
}

func (c *Connection) logNotice(body []byte) {
	fields := parseErrorFields(body)
	n := dbErrorFromFields(fields)
	c.logger.Infof("notice: %s (%s): %s", n.Severity, n.Code, n.Message)
}
