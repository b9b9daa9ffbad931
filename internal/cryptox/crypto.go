// Package cryptox hashes and verifies user secrets (passwords and lock PINs).
//
// New hashes are salted argon2id strings in the PHC-like form
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// Documents written by the original web app carry a 32-bit string checksum
// instead. Those are still accepted by VerifySecret, which reports that the
// caller should re-hash the secret with HashSecret.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dmitrijs2005/mj36/internal/common"
	"golang.org/x/crypto/argon2"
)

const prefix = "$argon2id$"

var ErrMalformedHash = errors.New("malformed secret hash")

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams is used by HashSecret. Tests lower the memory cost.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// maxTime bounds the rounds accepted from a stored hash.
const maxTime = 16

// sane reports whether p can be fed to argon2 without panicking or
// allocating more than four times the memory of DefaultParams.
func (p Params) sane() bool {
	return p.Time >= 1 && p.Time <= maxTime &&
		p.Threads >= 1 &&
		p.Memory >= 8*uint32(p.Threads) &&
		p.Memory <= 4*DefaultParams.Memory
}

// DeriveKey stretches secret with salt using argon2id.
func DeriveKey(secret, salt []byte, p Params) []byte {
	return argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// HashSecret returns an encoded argon2id hash of secret with a fresh salt.
func HashSecret(secret string) string {
	p := DefaultParams
	salt := common.GenerateRandByteArray(p.SaltLen)
	key := DeriveKey([]byte(secret), salt, p)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		prefix, argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifySecret checks secret against encoded. needsRehash is true when the
// secret matched a legacy checksum and should be replaced by HashSecret.
func VerifySecret(secret, encoded string) (ok bool, needsRehash bool) {
	if encoded == "" {
		return false, false
	}

	if IsLegacy(encoded) {
		ok = subtle.ConstantTimeCompare([]byte(LegacyChecksum(secret)), []byte(encoded)) == 1
		return ok, ok
	}

	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, false
	}

	candidate := DeriveKey([]byte(secret), salt, p)
	return subtle.ConstantTimeCompare(candidate, key) == 1, false
}

// IsLegacy reports whether encoded is not an argon2id hash.
func IsLegacy(encoded string) bool {
	return !strings.HasPrefix(encoded, prefix)
}

// LegacyChecksum reproduces the web app's display-only checksum:
// h = h*31 + c over UTF-16 code units, truncated to a signed 32-bit integer.
// It is not a security primitive and is only used to recognise old hashes.
func LegacyChecksum(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 10)
}

func decode(encoded string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	if !p.sane() {
		return Params{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}

	p.SaltLen = len(salt)
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
