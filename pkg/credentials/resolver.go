package credentials

import (
	"github.com/goliatone/go-credentials/pkg/interfaces/logger"
	"github.com/goliatone/go-credentials/pkg/vault"
)

// Store is the slice of the vault surface the resolver needs.
type Store interface {
	GetCredentials(platform string) (vault.CredentialSet, error)
}

// Resolver merges two credential tiers: vault entries win over environment
// fallbacks, key by key. Vault read failures degrade to the environment tier
// so a corrupt vault never takes env-configured platforms offline.
type Resolver struct {
	store Store
	env   *EnvFallback
	log   logger.Logger
}

// NewResolver builds a resolver over the given vault store and environment
// snapshot. A nil env snapshots the process environment; a nil logger is
// replaced with a nop.
func NewResolver(store Store, env *EnvFallback, log logger.Logger) *Resolver {
	if env == nil {
		env = NewEnvFallback(nil)
	}
	if log == nil {
		log = &logger.Nop{}
	}
	return &Resolver{store: store, env: env, log: log}
}

// Credentials returns the merged map for platform: the union of fields from
// both tiers, with non-empty vault values overriding environment defaults.
// Fields absent from both tiers are absent from the result. Unknown
// platforms return an empty map.
func (r *Resolver) Credentials(platform string) map[string]string {
	merged := r.env.Values(platform)

	if r.store != nil {
		stored, err := r.store.GetCredentials(platform)
		if err != nil {
			r.log.Warn("vault read failed, falling back to environment",
				logger.Field{Key: "platform", Value: platform},
			)
			return merged
		}
		for k, v := range stored {
			if v != "" {
				merged[k] = v
				continue
			}
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged
}

// HasCredentials reports whether the merged result carries at least one
// non-empty value. Consumers use it to short-circuit calls that would fail
// for missing configuration.
func (r *Resolver) HasCredentials(platform string) bool {
	for _, v := range r.Credentials(platform) {
		if v != "" {
			return true
		}
	}
	return false
}
