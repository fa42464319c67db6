package credentials

import (
	"strings"

	masker "github.com/goliatone/go-masker"
)

var secretFieldNames = []string{
	"token", "apiKey", "api_key",
	"accessKeyId", "secretAccessKey",
	"webhookUrl", "webhook_url",
	"accountId", "projectId",
	"secret", "password",
}

func init() {
	for _, field := range secretFieldNames {
		masker.Default.RegisterMaskField(field, "preserveEnds(2,2)")
	}
}

// MaskCredentials returns a masked copy of a credential map for safe
// logging. Values keep only their first and last two characters.
func MaskCredentials(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	masked := make(map[string]string, len(fields))
	for name, value := range fields {
		masked[name] = maskValue(value)
	}
	return masked
}

func maskValue(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		// Too short to preserve ends without giving the value away.
		return strings.Repeat("*", len(runes))
	}
	if masked, err := masker.Default.String("preserveEnds(2,2)", value); err == nil {
		return masked
	}
	// Fallback masking if the rule is unavailable.
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
