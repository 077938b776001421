// Package secrets implements the encrypted vault backing session
// persistence. Each secret is a separate AES-GCM sealed file under the vault
// directory; the sealing key is derived with Argon2id from a passphrase and
// a per-vault random salt stored alongside the blobs.
package secrets

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osobist/wikisync/internal/common"
	"github.com/osobist/wikisync/internal/cryptox"
)

const saltFile = "vault.salt"

// Vault is a small durable secret store with Get/Set/Delete semantics over
// opaque byte values.
type Vault struct {
	dir string
	key []byte
}

// Open prepares the vault directory, loading the existing salt or creating a
// fresh one, and derives the sealing key from the passphrase. The caller
// should wipe the passphrase afterwards.
func Open(dir string, passphrase []byte) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating vault dir: %w", err)
	}

	saltPath := filepath.Join(dir, saltFile)
	salt, err := os.ReadFile(saltPath)
	if os.IsNotExist(err) {
		salt = common.GenerateRandByteArray(32)
		if err := writeFileAtomic(saltPath, salt, 0o600); err != nil {
			return nil, fmt.Errorf("writing vault salt: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("reading vault salt: %w", err)
	}

	return &Vault{dir: dir, key: cryptox.DeriveMasterKey(passphrase, salt)}, nil
}

// Get returns the secret stored under key, or (nil, nil) when absent.
// A decryption failure (wrong passphrase, corrupted blob) is an error.
func (v *Vault) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(v.blobPath(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secret %q: %w", key, err)
	}

	var value []byte
	if err := cryptox.OpenBlob(data, v.key, &value); err != nil {
		return nil, fmt.Errorf("unsealing secret %q: %w", key, err)
	}
	return value, nil
}

// Set seals value and writes it atomically under key.
func (v *Vault) Set(key string, value []byte) error {
	blob, err := cryptox.SealBlob(value, v.key)
	if err != nil {
		return fmt.Errorf("sealing secret %q: %w", key, err)
	}
	if err := writeFileAtomic(v.blobPath(key), blob, 0o600); err != nil {
		return fmt.Errorf("writing secret %q: %w", key, err)
	}
	return nil
}

// Delete removes the secret under key. Missing secrets are not an error.
func (v *Vault) Delete(key string) error {
	err := os.Remove(v.blobPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting secret %q: %w", key, err)
	}
	return nil
}

// blobPath maps a namespaced key like "ruscpwiki.auth" to a stable file name.
// Dots are kept, anything else unusual is hex-escaped to stay filesystem-safe.
func (v *Vault) blobPath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteString("%" + hex.EncodeToString([]byte(string(r))))
		}
	}
	return filepath.Join(v.dir, b.String()+".bin")
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a partially written secret.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
