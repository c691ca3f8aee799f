package dsn

import (
	"os"
	"path/filepath"

	"github.com/jackc/pgpassfile"
)

// lookupPgpass consults ~/.pgpass (or $PGPASSFILE) for a matching entry
// when the DSN carries no password, the way libpq does (§6).
func lookupPgpass(host, port, database, username string) (string, bool) {
	path := os.Getenv("PGPASSFILE")
	if path == "" {
		path = filepath.Join(homeDir(), ".pgpass")
	}
	pf, err := pgpassfile.ReadPassfile(path)
	if err != nil {
		return "", false
	}
	if host == "" {
		host = "localhost"
	}
	pw := pf.FindPassword(host, port, database, username)
	return pw, pw != ""
}
