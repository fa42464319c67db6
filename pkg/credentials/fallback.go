package credentials

import "os"

// LookupFunc mirrors os.LookupEnv so tests can inject a fake environment.
type LookupFunc func(key string) (string, bool)

// EnvFallback is the read-only environment tier. Values are snapshotted once
// at construction; later changes to the process environment are not seen.
type EnvFallback struct {
	values map[string]map[string]string
}

// NewEnvFallback snapshots the fallback table for every registered platform.
// A nil lookup uses os.LookupEnv.
func NewEnvFallback(lookup LookupFunc) *EnvFallback {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	values := make(map[string]map[string]string, len(registry))
	for name, schema := range registry {
		fields := make(map[string]string)
		for _, field := range schema.Fields {
			if field.EnvVar == "" {
				continue
			}
			if v, ok := lookup(field.EnvVar); ok && v != "" {
				fields[field.Name] = v
			}
		}
		if len(fields) > 0 {
			values[name] = fields
		}
	}
	return &EnvFallback{values: values}
}

// Values returns a copy of the snapshotted defaults for platform. Unknown
// platforms yield an empty map.
func (f *EnvFallback) Values(platform string) map[string]string {
	out := make(map[string]string)
	if f == nil {
		return out
	}
	for k, v := range f.values[platform] {
		out[k] = v
	}
	return out
}
