package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CookieName is the session cookie used by the web layer.
const CookieName = "club_session"

// SignCookieValue produces "id.hex(hmac-sha256(id))" so the session id in the
// browser cookie is tamper-evident.
func SignCookieValue(id string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// VerifyCookieValue returns the session id if the signature checks out.
// A malformed or forged value yields ok=false; callers treat that as anonymous.
func VerifyCookieValue(value string, secret []byte) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	want, err := hex.DecodeString(sig)
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return id, true
}
