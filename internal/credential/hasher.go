// Package credential turns plaintext secrets into stored digests and checks
// them again.
//
// Digests are argon2id in the PHC string format with a random salt per
// record:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// The same secret therefore yields a different digest every time; Verify
// recovers the salt and parameters from the digest itself. Digests written
// by older clients with the placeholder transform (see Legacy) still verify
// and are reported by NeedsRehash so callers can upgrade them on sign-in.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// Upper bounds for parameters read back from a stored digest.
const (
	maxMemory = 1 << 20 // KiB
	maxTime   = 16
	maxKeyLen = 128
)

var ErrMalformedDigest = errors.New("malformed digest")

// Params are the argon2id cost settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams follow the RFC 9106 second recommended option.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

type Hasher struct {
	params Params
	dummy  string
}

// New builds a Hasher. A zero Params value selects DefaultParams.
func New(params Params) (*Hasher, error) {
	if params == (Params{}) {
		params = DefaultParams
	}
	h := &Hasher{params: params}

	dummy, err := h.Digest("dummy secret for unknown users")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Digest hashes secret with a fresh random salt.
func (h *Hasher) Digest(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	plain := []byte(secret)
	defer wipe(plain)

	key := argon2.IDKey(plain, salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches digest. Malformed digests never
// match.
func (h *Hasher) Verify(secret, digest string) bool {
	if !isArgon2(digest) {
		return verifyLegacy(secret, digest)
	}

	params, salt, key, err := decode(digest)
	if err != nil {
		return false
	}

	plain := []byte(secret)
	defer wipe(plain)

	candidate := argon2.IDKey(plain, salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	defer wipe(candidate)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// VerifyTimingSafe behaves like Verify but spends the same work when digest
// is empty (unknown account), in which case it always returns false.
func (h *Hasher) VerifyTimingSafe(secret, digest string) bool {
	if digest == "" {
		_ = h.Verify(secret, h.dummy)
		return false
	}
	return h.Verify(secret, digest)
}

// NeedsRehash is true for legacy digests and for argon2id digests made with
// parameters other than the Hasher's.
func (h *Hasher) NeedsRehash(digest string) bool {
	if !isArgon2(digest) {
		return true
	}
	params, _, _, err := decode(digest)
	if err != nil {
		return true
	}
	return params != h.params
}

func isArgon2(digest string) bool {
	return strings.HasPrefix(digest, "$argon2id$")
}

func decode(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: version: %w", ErrMalformedDigest, err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: incompatible version %d", ErrMalformedDigest, version)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: params: %w", ErrMalformedDigest, err)
	}
	if p.Time == 0 || p.Threads == 0 {
		return Params{}, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedDigest)
	}
	if p.Memory > maxMemory || p.Time > maxTime {
		return Params{}, nil, nil, fmt.Errorf("%w: cost parameters out of range", ErrMalformedDigest)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedDigest, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLen {
		return Params{}, nil, nil, fmt.Errorf("%w: hash", ErrMalformedDigest)
	}
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
