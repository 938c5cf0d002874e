package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const nonceSize = 12 // recommended GCM nonce length

// Cryptor is the AES-GCM envelope used to keep values at rest
// out of cleartext wherever this module hands a caller-supplied backend a
// value it doesn't otherwise trust: a memoized Future result passed to
// cache.Fetch's WithEncryption, or an audit-trail column persisted through
// gormx's SecureString serializer.
type Cryptor struct {
	key []byte
}

// New creates a Cryptor keyed by key. key must be a valid AES key length
// (16, 24, or 32 bytes); an invalid length surfaces as an error from the
// first Encrypt or Decrypt call rather than from New itself.
func New(key []byte) *Cryptor {
	return &Cryptor{key: key}
}

// Encrypt seals plaintext with AES-GCM and returns it base64-encoded,
// wrapped in an ENC(...) envelope so Decrypt (and cache.Fetch's
// best-effort decrypt-on-read) can tell an encrypted value apart from
// plain bytes that predate encryption being turned on.
func (c *Cryptor) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.WithStack(err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.WithStack(err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.WithStack(err)
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	// 拼接 nonce 和密文
	result := make([]byte, len(nonce)+len(ciphertext))
	copy(result[:len(nonce)], nonce)
	copy(result[len(nonce):], ciphertext)

	return c.wrap(base64.StdEncoding.EncodeToString(result)), nil
}

// Decrypt reverses Encrypt. A value that isn't wrapped in the ENC(...)
// envelope is returned as-is instead of failing, so callers like
// cache.Fetch can fall through to raw bytes cached before encryption was
// enabled.
func (c *Cryptor) Decrypt(encoded string) ([]byte, error) {
	encoded, ok := c.unwrap(encoded)
	if !ok {
		return []byte(encoded), nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return plaintext, nil
}

func (c *Cryptor) wrap(s string) string {
	return fmt.Sprintf("ENC(%s)", s)
}

func (c *Cryptor) unwrap(s string) (string, bool) {
	if strings.HasPrefix(s, "ENC(") && strings.HasSuffix(s, ")") {
		s = s[4 : len(s)-1]
		return s, true
	}
	return s, false
}
