// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnsupportedHash = errors.New("unsupported password hash")

// argonParams are the cost settings encoded into every argon2id hash.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentArgon = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

const saltLength = 16

var b64 = base64.RawStdEncoding

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := currentArgon
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against an argon2id hash. bcrypt hashes
// imported from the previous user store ($2a$, $2b$, $2y$) are accepted.
func VerifyPassword(password, encoded string) (bool, error) {
	if isBcryptHash(encoded) {
		return verifyBcrypt(password, encoded)
	}

	p, salt, key, err := parseArgonHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// VerifyPasswordWithRehash also returns a fresh hash when the stored one
// uses another algorithm or outdated cost parameters. newHash is empty
// when no upgrade is needed or when producing one failed.
func VerifyPasswordWithRehash(password, encoded string) (valid bool, newHash string, err error) {
	valid, err = VerifyPassword(password, encoded)
	if err != nil || !valid {
		return false, "", err
	}

	if !needsRehash(encoded) {
		return true, "", nil
	}

	if newHash, err = HashPassword(password); err != nil {
		return true, "", nil //nolint:nilerr // the password itself verified
	}
	return true, newHash, nil
}

var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("timing-equalizer")
	if err != nil {
		panic(fmt.Sprintf("security: generate dummy hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe costs the same whether or not the account
// exists. A nil or empty hash never verifies.
func VerifyPasswordTimingSafe(password string, encoded *string) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		_, _, _ = VerifyPasswordWithRehash(password, dummyHash())
		return false, "", nil
	}
	return VerifyPasswordWithRehash(password, *encoded)
}

// HashToken is the lookup key stored for a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func parseArgonHash(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, fmt.Errorf("%w: malformed", ErrUnsupportedHash)
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedHash, parts[1])
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: version %s", ErrUnsupportedHash, parts[2])
	}

	for _, kv := range strings.Split(parts[3], ",") {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return p, nil, nil, fmt.Errorf("%w: params %q", ErrUnsupportedHash, parts[3])
		}
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return p, nil, nil, fmt.Errorf("%w: param %s: %v", ErrUnsupportedHash, name, err)
		}
		switch name {
		case "m":
			p.memory = uint32(n)
		case "t":
			p.time = uint32(n)
		case "p":
			if n > 255 {
				return p, nil, nil, fmt.Errorf("%w: threads %d", ErrUnsupportedHash, n)
			}
			p.threads = uint8(n)
		}
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return p, nil, nil, fmt.Errorf("%w: params %q", ErrUnsupportedHash, parts[3])
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode hash: %w", err)
	}
	p.keyLen = uint32(len(key)) //nolint:gosec // argon2 keys are tiny

	return p, salt, key, nil
}

func needsRehash(encoded string) bool {
	p, _, _, err := parseArgonHash(encoded)
	return err != nil || p != currentArgon
}

func isBcryptHash(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

func verifyBcrypt(password, encoded string) (bool, error) {
	// $2y$ is the PHP spelling of $2a$.
	if strings.HasPrefix(encoded, "$2y$") {
		encoded = "$2a$" + encoded[4:]
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify bcrypt hash: %w", err)
	}
}
