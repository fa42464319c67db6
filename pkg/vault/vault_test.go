package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-credentials/pkg/crypto"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Path == "" {
		opts.Path = filepath.Join(t.TempDir(), "secrets.enc")
	}
	store, err := New(opts)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestLoadMissingFileBootstrapsEmpty(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	file, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Credentials) != 0 {
		t.Fatalf("expected empty vault, got %d platforms", len(file.Credentials))
	}
	if err := store.StoreCredentials("render", map[string]string{"apiKey": "rnd_abc123"}); err != nil {
		t.Fatalf("store after bootstrap: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("file not recreated: %v", err)
	}
}

func TestStoreMergePreservesUnrelatedFields(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	if err := store.StoreCredentials("github", map[string]string{"token": "a", "defaultRepo": "b"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.StoreCredentials("github", map[string]string{"token": "c"}); err != nil {
		t.Fatalf("partial update: %v", err)
	}
	set, err := store.GetCredentials("github")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if set["token"] != "c" {
		t.Fatalf("token not overwritten: %q", set["token"])
	}
	if set["defaultRepo"] != "b" {
		t.Fatalf("defaultRepo lost: %q", set["defaultRepo"])
	}
}

func TestStoreDoesNotTouchOtherPlatforms(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	if err := store.StoreCredentials("railway", map[string]string{"token": "rw"}); err != nil {
		t.Fatalf("seed railway: %v", err)
	}
	if err := store.StoreCredentials("vercel", map[string]string{"token": "vc"}); err != nil {
		t.Fatalf("seed vercel: %v", err)
	}
	set, err := store.GetCredentials("railway")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if set["token"] != "rw" {
		t.Fatalf("railway record disturbed: %v", set)
	}
}

func TestGetUnknownPlatformReturnsEmpty(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	set, err := store.GetCredentials("doesnotexist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestDeleteCredentials(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	if err := store.StoreCredentials("render", map[string]string{"apiKey": "k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	removed, err := store.DeleteCredentials("render")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatalf("expected first delete to report removal")
	}
	set, err := store.GetCredentials("render")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("record survived delete: %v", set)
	}
	removed, err = store.DeleteCredentials("render")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatalf("second delete should be a no-op")
	}
}

func TestListStoredPlatformsSorted(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	for _, platform := range []string{"vercel", "aws", "netlify"} {
		if err := store.StoreCredentials(platform, map[string]string{"token": "t"}); err != nil {
			t.Fatalf("seed %s: %v", platform, err)
		}
	}
	platforms, err := store.ListStoredPlatforms()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"aws", "netlify", "vercel"}
	if len(platforms) != len(want) {
		t.Fatalf("want %v, got %v", want, platforms)
	}
	for i := range want {
		if platforms[i] != want[i] {
			t.Fatalf("want %v, got %v", want, platforms)
		}
	}
}

func TestDurabilityAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	first := newTestStore(t, Options{Path: path, Passphrase: "pw"})
	if err := first.StoreCredentials("render", map[string]string{"apiKey": "rnd_abc123"}); err != nil {
		t.Fatalf("store: %v", err)
	}

	second := newTestStore(t, Options{Path: path, Passphrase: "pw"})
	set, err := second.GetCredentials("render")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if set["apiKey"] != "rnd_abc123" {
		t.Fatalf("credentials did not survive restart: %v", set)
	}
}

func TestOnDiskFormIsEnvelopeOnly(t *testing.T) {
	store := newTestStore(t, Options{Passphrase: "pw"})
	if err := store.StoreCredentials("github", map[string]string{"token": "ghp_secret"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var env crypto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("on-disk form is not an envelope: %v", err)
	}
	if env.IV == "" || env.Tag == "" || env.Data == "" {
		t.Fatalf("envelope fields missing: %+v", env)
	}
	var asFile File
	if err := json.Unmarshal(raw, &asFile); err == nil && len(asFile.Credentials) > 0 {
		t.Fatalf("vault contents readable as plaintext JSON")
	}
}

func TestWrongPassphraseLenientDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	writer := newTestStore(t, Options{Path: path, Passphrase: "first"})
	if err := writer.StoreCredentials("slack", map[string]string{"webhookUrl": "https://hooks"}); err != nil {
		t.Fatalf("store: %v", err)
	}

	reader := newTestStore(t, Options{Path: path, Passphrase: "rotated"})
	file, err := reader.Load()
	if err != nil {
		t.Fatalf("lenient load should not fail: %v", err)
	}
	if len(file.Credentials) != 0 {
		t.Fatalf("expected degraded empty vault, got %v", file.Credentials)
	}
}

func TestWrongPassphraseStrictFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	writer := newTestStore(t, Options{Path: path, Passphrase: "first"})
	if err := writer.StoreCredentials("slack", map[string]string{"webhookUrl": "https://hooks"}); err != nil {
		t.Fatalf("store: %v", err)
	}

	reader := newTestStore(t, Options{Path: path, Passphrase: "rotated", Strict: true})
	_, err := reader.Load()
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
	var corrupt *CorruptionError
	if !errors.As(err, &corrupt) {
		t.Fatalf("want CorruptionError, got %T", err)
	}
	if !errors.Is(corrupt.Err, crypto.ErrAuthentication) {
		t.Fatalf("want authentication cause, got %v", corrupt.Err)
	}
}

func TestGarbageFileStrictFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.enc")
	if err := os.WriteFile(path, []byte("not json at all"), 0o600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	store := newTestStore(t, Options{Path: path, Passphrase: "pw", Strict: true})
	if _, err := store.Load(); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
