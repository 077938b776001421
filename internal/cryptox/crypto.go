// Package cryptox holds the crypto primitives for the encrypted session
// vault: Argon2id key derivation and AES-GCM sealing of JSON blobs.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"

	"github.com/osobist/wikisync/internal/common"
	"golang.org/x/crypto/argon2"
)

// DeriveMasterKey derives a 32-byte AES key from a passphrase and salt using
// Argon2id. The same (passphrase, salt) pair always yields the same key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// SealBlob serializes v to JSON and encrypts it with AES-256-GCM.
// The random 12-byte nonce is prepended to the ciphertext so the result is a
// single self-contained blob.
func SealBlob(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return sealed, nil
}

// OpenBlob decrypts a blob produced by SealBlob and unmarshals the JSON
// payload into v. Fails if the key is wrong or the blob was tampered with.
func OpenBlob(blob []byte, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	if len(blob) < aesgcm.NonceSize() {
		return common.NewErrorf(common.KindAuthorizationFailed, "vault blob too short")
	}

	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
