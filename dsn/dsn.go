// Package dsn parses PostgreSQL connection strings into a ConnConfig,
// resolving passwords and service defaults the way libpq does (§6).
package dsn

import (
	"fmt"
	"net/url"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/nkonev/pgwire"
)

// Parse accepts a postgres://... or postgresql://... URI and returns a
// ConnConfig ready for Connect (§6):
//
//	scheme://[user[:password]@]host[:port][/database][?k=v&k=v]
//
// A host beginning with "/" names a Unix-socket directory rather than a
// TCP host. service= in the query string is resolved against
// ~/.pg_service.conf before other query parameters are applied, so a
// directly-specified value always wins over the service file's.
func Parse(rawurl string) (pgwire.ConnConfig, error) {
	// url.Parse rejects "%2F" in a host, so a host starting with an encoded
	// "/" has each "%" escaped once more; the PathUnescape of the host
	// below then yields the socket directory.
	if i := strings.Index(rawurl, "://"); i >= 0 {
		rest := rawurl[i+3:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		at := strings.LastIndex(rest[:end], "@") + 1
		if host := rest[at:end]; strings.HasPrefix(strings.ToUpper(host), "%2F") {
			rawurl = rawurl[:i+3] + rest[:at] + strings.ReplaceAll(host, "%", "%25") + rest[end:]
		}
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return pgwire.ConnConfig{}, fmt.Errorf("dsn: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return pgwire.ConnConfig{}, fmt.Errorf("dsn: unsupported scheme %q", u.Scheme)
	}

	cfg := pgwire.ConnConfig{RuntimeParams: map[string]string{}}

	q := u.Query()
	if svc := q.Get("service"); svc != "" {
		// Applied first so it only ever supplies defaults: anything the
		// URI itself specifies (authority or query params) is applied
		// afterwards and wins.
		if err := applyService(&cfg, svc); err != nil {
			return pgwire.ConnConfig{}, err
		}
	}

	if u.User != nil {
		cfg.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			cfg.Password = pw
		}
	}
	if cfg.User == "" {
		if cur, err := user.Current(); err == nil {
			cfg.User = cur.Username
		}
	}

	// A Unix-socket directory embedded directly in the authority (the
	// libpq-documented postgres://%2Fvar%2Frun%2Fpostgresql:5432/db form)
	// reaches this point still percent-encoded, thanks to the extra escaping
	// at the top of Parse; it is decoded here so that the "/" prefix check
	// in Connect sees the directory (§6).
	host, err := url.PathUnescape(u.Hostname())
	if err != nil {
		return pgwire.ConnConfig{}, fmt.Errorf("dsn: invalid percent-encoding in host %q: %w", u.Hostname(), err)
	}
	port := u.Port()
	if host != "" {
		cfg.Host = host
	}
	if port != "" {
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return pgwire.ConnConfig{}, fmt.Errorf("dsn: invalid port %q", port)
		}
		cfg.Port = uint16(p)
	}

	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		cfg.Database = db
	}

	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		switch k {
		case "host":
			cfg.Host = v
		case "port":
			p, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return pgwire.ConnConfig{}, fmt.Errorf("dsn: invalid port %q", v)
			}
			cfg.Port = uint16(p)
		case "dbname":
			cfg.Database = v
		case "user":
			cfg.User = v
		case "password":
			cfg.Password = v
		case "service", "sslmode", "sslrootcert", "sslcert", "sslkey":
			// sslmode and friends are consumed by the TLS negotiation layer
			// at a higher level (§6); service was already applied above.
		default:
			cfg.RuntimeParams[k] = v
		}
	}

	if cfg.Password == "" {
		if pw, ok := lookupPgpass(cfg.Host, portOrDefault(cfg.Port), cfg.Database, cfg.User); ok {
			cfg.Password = pw
		}
	}

	return cfg, nil
}

func portOrDefault(p uint16) string {
	if p == 0 {
		return "5432"
	}
	return strconv.Itoa(int(p))
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return ""
}
