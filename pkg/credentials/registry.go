// Package credentials resolves per-platform credential maps by layering
// vault-stored values over environment-variable fallbacks.
package credentials

// Field names one credential a platform expects and, when non-empty, the
// environment variable supplying its default.
type Field struct {
	Name   string
	EnvVar string
}

// Schema is the structural metadata for one deployment platform.
type Schema struct {
	Platform string
	Fields   []Field
}

// registry is the compiled-in set of known platforms. It is declarative
// only; callers may store and request fields not listed here, they just get
// no environment-sourced default for them.
var registry = map[string]Schema{
	"github": {
		Platform: "github",
		Fields: []Field{
			{Name: "token", EnvVar: "GITHUB_TOKEN"},
			{Name: "defaultRepo"},
		},
	},
	"aws": {
		Platform: "aws",
		Fields: []Field{
			{Name: "accessKeyId", EnvVar: "AWS_ACCESS_KEY"},
			{Name: "secretAccessKey", EnvVar: "AWS_SECRET_KEY"},
			{Name: "region", EnvVar: "AWS_REGION"},
		},
	},
	"railway": {
		Platform: "railway",
		Fields: []Field{
			{Name: "token", EnvVar: "RAILWAY_TOKEN"},
			{Name: "projectId"},
		},
	},
	"cloudflare": {
		Platform: "cloudflare",
		Fields: []Field{
			{Name: "token", EnvVar: "CLOUDFLARE_TOKEN"},
			{Name: "accountId", EnvVar: "CF_ACCOUNT_ID"},
		},
	},
	"render": {
		Platform: "render",
		Fields: []Field{
			{Name: "apiKey", EnvVar: "RENDER_TOKEN"},
		},
	},
	"digitalocean": {
		Platform: "digitalocean",
		Fields: []Field{
			{Name: "token", EnvVar: "DO_TOKEN"},
		},
	},
	"vercel": {
		Platform: "vercel",
		Fields: []Field{
			{Name: "token", EnvVar: "VERCEL_TOKEN"},
			{Name: "teamId"},
		},
	},
	"flyio": {
		Platform: "flyio",
		Fields: []Field{
			{Name: "token", EnvVar: "FLY_API_TOKEN"},
		},
	},
	"netlify": {
		Platform: "netlify",
		Fields: []Field{
			{Name: "token", EnvVar: "NETLIFY_AUTH_TOKEN"},
		},
	},
	"slack": {
		Platform: "slack",
		Fields: []Field{
			{Name: "webhookUrl", EnvVar: "SLACK_WEBHOOK_URL"},
		},
	},
	"discord": {
		Platform: "discord",
		Fields: []Field{
			{Name: "webhookUrl", EnvVar: "DISCORD_WEBHOOK_URL"},
		},
	},
}

// Platforms returns the known platform identifiers. Order is not
// guaranteed; callers needing determinism should sort.
func Platforms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// SchemaFor returns the schema for a platform and whether it is known.
func SchemaFor(platform string) (Schema, bool) {
	schema, ok := registry[platform]
	return schema, ok
}
