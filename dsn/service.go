package dsn

import (
	"path/filepath"
	"strconv"

	"github.com/jackc/pgservicefile"
	"github.com/nkonev/pgwire"
)

// applyService resolves name against ~/.pg_service.conf and applies its
// settings to cfg as defaults (§6). Values the caller already placed on
// the URI (parsed after this call returns) still take precedence.
func applyService(cfg *pgwire.ConnConfig, name string) error {
	path := filepath.Join(homeDir(), ".pg_service.conf")
	sf, err := pgservicefile.ReadServicefile(path)
	if err != nil {
		return nil // no service file is not an error; service= is then a no-op
	}
	svc, err := sf.GetService(name)
	if err != nil {
		return nil
	}
	for k, v := range svc.Settings {
		switch k {
		case "host":
			cfg.Host = v
		case "port":
			if p, err := strconv.ParseUint(v, 10, 16); err == nil {
				cfg.Port = uint16(p)
			}
		case "dbname":
			cfg.Database = v
		case "user":
			cfg.User = v
		case "password":
			cfg.Password = v
		default:
			cfg.RuntimeParams[k] = v
		}
	}
	return nil
}
