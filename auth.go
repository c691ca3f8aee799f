package pgwire

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// handleAuth dispatches one AuthenticationRequest (§4.7). done reports
// whether the handshake's authentication phase is finished (kind OK).
func (c *Connection) handleAuth(body []byte) (done bool, err error) {
	r := newFieldReader(body)
	kind, err := r.int32()
	if err != nil {
		return false, err
	}
	switch kind {
	case authOK:
		return true, nil
	case authCleartextPassword:
		return false, c.sendPasswordMessage(c.cfg.Password)
	case authMD5Password:
		salt, err := r.bytes(4)
		if err != nil {
			return false, err
		}
		return false, c.sendPasswordMessage(md5Password(c.cfg.User, c.cfg.Password, salt))
	default:
		return false, &Error{Kind: KindAuth, msg: fmt.Sprintf("unsupported authentication kind %d", kind)}
	}
}

// md5Password implements §4.7: "md5" + hex(md5(hex(md5(password+user)) + salt)).
func md5Password(user, password string, salt []byte) string {
	inner := md5.Sum([]byte(password + user))
	innerHex := hex.EncodeToString(inner[:])
	outer := md5.Sum([]byte(innerHex + string(salt)))
	return "md5" + hex.EncodeToString(outer[:])
}

func (c *Connection) sendPasswordMessage(password string) error {
	body := appendCString(nil, password)
	return c.codec.write(tagPassword, body)
}
