package crypto

import "crypto/sha256"

// DefaultPassphrase is used when the operator configures no passphrase.
// It only protects the vault file against casual inspection; any deployment
// beyond a single-operator host must set a real passphrase.
const DefaultPassphrase = "go-credentials-local-vault"

// DeriveKey maps a passphrase to a fixed 32-byte key with a single SHA-256
// pass. There is no salt or stretching; this trades KDF hardness for
// deterministic, dependency-free key setup appropriate to a local vault.
// An empty passphrase falls back to DefaultPassphrase.
func DeriveKey(passphrase string) []byte {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}
