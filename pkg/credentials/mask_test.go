package credentials

import (
	"strings"
	"testing"
)

func TestMaskCredentialsHidesValues(t *testing.T) {
	masked := MaskCredentials(map[string]string{
		"token":  "ghp_verysecretvalue",
		"apiKey": "rnd_abc123def456",
	})
	if len(masked) != 2 {
		t.Fatalf("expected 2 masked entries, got %d", len(masked))
	}
	for name, value := range masked {
		if value == "" {
			t.Fatalf("%s: masked value is empty", name)
		}
		if strings.Contains(value, "secretvalue") || strings.Contains(value, "abc123def") {
			t.Fatalf("%s: secret leaked through mask: %s", name, value)
		}
	}
}

func TestMaskCredentialsShortAndEmptyValues(t *testing.T) {
	masked := MaskCredentials(map[string]string{"token": "ab", "empty": ""})
	if masked["token"] == "ab" {
		t.Fatalf("short value must still be masked")
	}
	if masked["empty"] != "" {
		t.Fatalf("empty value should stay empty, got %q", masked["empty"])
	}
}

func TestMaskCredentialsEmptyInput(t *testing.T) {
	if out := MaskCredentials(nil); out != nil {
		t.Fatalf("expected nil output for nil input, got %v", out)
	}
	if out := MaskCredentials(map[string]string{}); out != nil {
		t.Fatalf("expected nil output for empty input, got %v", out)
	}
}
