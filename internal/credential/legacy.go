package credential

import (
	"crypto/subtle"
	"encoding/base64"
)

const legacySalt = "salt123"

// Legacy is the placeholder transform older clients stored: the secret with
// a fixed salt appended, base64 encoded, then reversed. It is not a hash and
// is only kept so existing directories can be verified and upgraded.
func Legacy(secret string) string {
	encoded := []byte(base64.StdEncoding.EncodeToString([]byte(secret + legacySalt)))
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}
	return string(encoded)
}

func verifyLegacy(secret, digest string) bool {
	if digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Legacy(secret)), []byte(digest)) == 1
}
