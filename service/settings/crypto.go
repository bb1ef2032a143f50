/*
 * @module service/settings/crypto
 * @description Secret-at-rest encryption for API keys and secret settings,
 *              using NaCl secretbox with a key derived from the environment.
 * @architecture Layered - service support
 * @rules Plaintext secrets exist only in memory; ciphertext is
 *        base64(nonce || box)
 * @dependencies golang.org/x/crypto/nacl/secretbox
 */

package settings

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrCiphertextInvalid decryption failed: wrong key or corrupted value.
var ErrCiphertextInvalid = errors.New("ciphertext invalid or key mismatch")

// KeyFromEnv derives the 32-byte encryption key from SETTINGS_SECRET_KEY.
// An unset variable yields a fixed development key; production deployments
// must set it.
func KeyFromEnv() [32]byte {
	secret := os.Getenv("SETTINGS_SECRET_KEY")
	if secret == "" {
		secret = "ndi-dev-settings-key"
	}
	return sha256.Sum256([]byte(secret))
}

// encrypt seals plaintext under the key with a random nonce.
func encrypt(key [32]byte, plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// decrypt reverses encrypt.
func decrypt(key [32]byte, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrCiphertextInvalid
	}
	if len(raw) < nonceSize {
		return "", ErrCiphertextInvalid
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	opened, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &key)
	if !ok {
		return "", ErrCiphertextInvalid
	}
	return string(opened), nil
}
