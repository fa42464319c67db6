// Package vault persists per-platform credential records in a single
// encrypted file. The whole file is one AEAD envelope; every mutation is a
// read-modify-write of the full contents.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-credentials/pkg/crypto"
	"github.com/goliatone/go-credentials/pkg/interfaces/logger"
)

// CredentialSet is the flat field-name-to-value record for one platform.
type CredentialSet map[string]string

// File is the decrypted vault contents.
type File struct {
	Credentials map[string]CredentialSet `json:"credentials"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// NewFile returns an empty vault file.
func NewFile() File {
	return File{Credentials: make(map[string]CredentialSet)}
}

// Options configure a Store. The zero value is not usable; Path is required.
type Options struct {
	// Path locates the encrypted vault file.
	Path string
	// Passphrase feeds key derivation. Empty selects the compiled-in
	// default, which only guards against casual file inspection.
	Passphrase string
	// Strict makes reads fail on a corrupted file instead of degrading to an
	// empty vault. Missing files bootstrap empty either way.
	Strict bool
	Logger logger.Logger
}

// Store owns the vault file. Mutations are serialized in-process; racing
// writers in separate processes still overwrite each other at whole-file
// granularity.
type Store struct {
	path   string
	key    []byte
	strict bool
	log    logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New builds a Store for the given options.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("vault: path is required")
	}
	log := opts.Logger
	if log == nil {
		log = &logger.Nop{}
	}
	return &Store{
		path:   opts.Path,
		key:    crypto.DeriveKey(opts.Passphrase),
		strict: opts.Strict,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load returns the decrypted vault file. A missing file yields an empty
// vault. A corrupted file yields an empty vault with a warning unless the
// store is strict, in which case the CorruptionError propagates.
func (s *Store) Load() (File, error) {
	return s.readPolicy()
}

// GetCredentials returns the stored record for platform, or an empty set
// when none exists. No environment merging happens here.
func (s *Store) GetCredentials(platform string) (CredentialSet, error) {
	file, err := s.readPolicy()
	if err != nil {
		return nil, err
	}
	set, ok := file.Credentials[platform]
	if !ok {
		return CredentialSet{}, nil
	}
	out := make(CredentialSet, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out, nil
}

// StoreCredentials merges fields into the platform record key by key and
// rewrites the file. Keys absent from fields are left untouched.
func (s *Store) StoreCredentials(platform string, fields map[string]string) error {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return ErrInvalidPlatform
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readPolicy()
	if err != nil {
		return err
	}
	set, ok := file.Credentials[platform]
	if !ok {
		set = make(CredentialSet, len(fields))
		file.Credentials[platform] = set
	}
	for k, v := range fields {
		set[k] = v
	}
	file.UpdatedAt = s.now()
	return s.write(file)
}

// DeleteCredentials removes the platform record entirely and reports whether
// anything was removed. The file is rewritten either way; rewrites are
// idempotent at the content level.
func (s *Store) DeleteCredentials(platform string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readPolicy()
	if err != nil {
		return false, err
	}
	_, existed := file.Credentials[platform]
	delete(file.Credentials, platform)
	file.UpdatedAt = s.now()
	if err := s.write(file); err != nil {
		return false, err
	}
	return existed, nil
}

// ListStoredPlatforms returns the platforms holding a non-empty record,
// sorted for determinism.
func (s *Store) ListStoredPlatforms() ([]string, error) {
	file, err := s.readPolicy()
	if err != nil {
		return nil, err
	}
	platforms := make([]string, 0, len(file.Credentials))
	for name, set := range file.Credentials {
		if len(set) == 0 {
			continue
		}
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)
	return platforms, nil
}

// readPolicy applies the corruption policy on top of read: strict stores
// propagate, lenient stores log and start fresh.
func (s *Store) readPolicy() (File, error) {
	file, err := s.read()
	if err == nil {
		return file, nil
	}
	var corrupt *CorruptionError
	if errors.As(err, &corrupt) && !s.strict {
		s.log.Warn("vault file unreadable, treating as empty",
			logger.Field{Key: "path", Value: s.path},
			logger.Field{Key: "reason", Value: corrupt.Err.Error()},
		)
		return NewFile(), nil
	}
	return File{}, err
}

// read decrypts the backing file. Missing file maps to an empty vault;
// anything else that fails is reported as corruption or IO.
func (s *Store) read() (File, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewFile(), nil
		}
		return File{}, fmt.Errorf("vault: read %s: %w", s.path, err)
	}

	var env crypto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return File{}, &CorruptionError{Path: s.path, Err: fmt.Errorf("%w: not an envelope", crypto.ErrMalformedEnvelope)}
	}
	plain, err := crypto.Decrypt(env, s.key)
	if err != nil {
		return File{}, &CorruptionError{Path: s.path, Err: err}
	}
	var file File
	if err := json.Unmarshal(plain, &file); err != nil {
		return File{}, &CorruptionError{Path: s.path, Err: fmt.Errorf("decode contents: %w", err)}
	}
	if file.Credentials == nil {
		file.Credentials = make(map[string]CredentialSet)
	}
	return file, nil
}

// write re-encrypts the whole file and replaces the previous copy via a
// temp-file rename so a crash mid-write never leaves a torn envelope.
func (s *Store) write(file File) error {
	plain, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("vault: encode contents: %w", err)
	}
	env, err := crypto.Encrypt(plain, s.key)
	if err != nil {
		return fmt.Errorf("vault: encrypt: %w", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("vault: encode envelope: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vault: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return fmt.Errorf("vault: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("vault: write %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("vault: chmod %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("vault: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("vault: replace %s: %w", s.path, err)
	}
	return nil
}
