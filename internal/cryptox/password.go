// Package cryptox implements password hashing for stored credentials.
//
// New hashes are Argon2id in PHC string form:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
//
// The salt and parameters travel inside the string, so callers store a
// single opaque value. Legacy bcrypt hashes ($2a$, $2b$, $2y$) are still
// accepted by Verify.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const algorithmID = "argon2id"

// Upper bounds for parameters read back from stored hashes. A corrupted row
// must fail as ErrHashFormat rather than drive argon2 into a huge allocation.
const (
	maxMemoryKiB = 1 << 20 // 1 GiB
	maxTime      = 16
	maxThreads   = 64
	maxKeyLen    = 1024
)

// Argon2Params are the cost parameters used for new hashes.
type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultArgon2Params follow the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Argon2Hasher hashes and verifies passwords. It holds no mutable state and
// is safe for concurrent use.
type Argon2Hasher struct {
	params Argon2Params
	rand   io.Reader
}

// NewArgon2Hasher returns a hasher using p for new hashes.
func NewArgon2Hasher(p Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: p, rand: rand.Reader}
}

// Hash derives an Argon2id key from password with a fresh random salt.
// Two calls with the same password never return the same string.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. A wrong password is
// (false, nil); an encoded value that cannot be parsed is common.ErrHashFormat.
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		return verifyBcrypt(password, encoded)
	}

	p, err := parsePHC(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrHashFormat, err)
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))

	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func verifyBcrypt(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrHashFormat, err)
	}
}

type phc struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("invalid version")
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported version %d", version)
	}

	p := &phc{}
	if err := parseParams(parts[3], p); err != nil {
		return nil, err
	}

	p.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(p.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}

	p.key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(p.key) == 0 || len(p.key) > maxKeyLen {
		return nil, errors.New("invalid key encoding")
	}

	return p, nil
}

func parseParams(s string, p *phc) error {
	pairs := strings.Split(s, ",")
	if len(pairs) != 3 {
		return errors.New("invalid parameter format")
	}

	seen := 0
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("invalid parameter entry")
		}

		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v == 0 || v > maxMemoryKiB {
				return errors.New("invalid memory parameter")
			}
			p.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v == 0 || v > maxTime {
				return errors.New("invalid time parameter")
			}
			p.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || v == 0 || v > maxThreads {
				return errors.New("invalid parallelism parameter")
			}
			p.threads = uint8(v)
		default:
			return fmt.Errorf("unknown parameter %q", name)
		}
		seen++
	}

	if seen != 3 || p.memory == 0 || p.time == 0 || p.threads == 0 {
		return errors.New("missing parameters")
	}
	return nil
}
