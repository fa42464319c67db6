// Command credvault manages the encrypted platform credential vault from the
// terminal: store, inspect, and delete per-platform secrets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-credentials/pkg/commands"
	"github.com/goliatone/go-credentials/pkg/config"
	"github.com/goliatone/go-credentials/pkg/credentials"
	"github.com/goliatone/go-credentials/pkg/interfaces/logger"
	"github.com/goliatone/go-credentials/pkg/storage"
	"github.com/goliatone/go-credentials/pkg/vault"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "credvault: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("credvault", flag.ContinueOnError)
	dataDir := flags.String("data-dir", "", "directory holding the vault file")
	strict := flags.Bool("strict", false, "fail on a corrupted vault instead of starting fresh")
	reveal := flags.Bool("reveal", false, "print credential values unmasked")
	if err := flags.Parse(args); err != nil {
		return err
	}
	rest := flags.Args()
	if len(rest) == 0 {
		return usageError()
	}

	input := map[string]any{}
	if *dataDir != "" {
		input["vault"] = map[string]any{"data_dir": *dataDir, "strict": *strict}
	} else if *strict {
		input["vault"] = map[string]any{"strict": true}
	}
	cfg, err := config.Load(input)
	if err != nil {
		return err
	}

	log := logger.New()
	store, err := vault.New(vault.Options{
		Path:       cfg.Vault.Path(),
		Passphrase: os.Getenv(cfg.Vault.PassphraseEnv),
		Strict:     cfg.Vault.Strict,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	resolver := credentials.NewResolver(store, nil, log)

	ctx := context.Background()
	switch rest[0] {
	case "get":
		if len(rest) != 2 {
			return usageError()
		}
		return printCredentials(resolver, rest[1], *reveal)
	case "set":
		if len(rest) < 3 {
			return usageError()
		}
		fields, err := parseFields(rest[2:])
		if err != nil {
			return err
		}
		registry, err := newRegistry(store, log)
		if err != nil {
			return err
		}
		return registry.StoreCredentials.Execute(ctx, commands.StoreCredentials{
			Platform: rest[1],
			Fields:   fields,
		})
	case "delete":
		if len(rest) != 2 {
			return usageError()
		}
		registry, err := newRegistry(store, log)
		if err != nil {
			return err
		}
		return registry.DeleteCredentials.Execute(ctx, commands.DeleteCredentials{Platform: rest[1]})
	case "list":
		platforms, err := store.ListStoredPlatforms()
		if err != nil {
			return err
		}
		for _, name := range platforms {
			fmt.Println(name)
		}
		return nil
	case "platforms":
		known := credentials.Platforms()
		sort.Strings(known)
		for _, name := range known {
			fmt.Println(name)
		}
		return nil
	default:
		return usageError()
	}
}

func printCredentials(resolver *credentials.Resolver, platform string, reveal bool) error {
	merged := resolver.Credentials(platform)
	if len(merged) == 0 {
		fmt.Printf("no credentials configured for %s\n", platform)
		return nil
	}
	display := merged
	if !reveal {
		display = credentials.MaskCredentials(merged)
	}
	keys := make([]string, 0, len(display))
	for k := range display {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, display[k])
	}
	return nil
}

func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("field %q must be key=value", pair)
		}
		fields[key] = value
	}
	return fields, nil
}

func newRegistry(vaultStore *vault.Store, log logger.Logger) (*commands.Registry, error) {
	providers := storage.NewMemoryProviders()
	return commands.New(commands.Dependencies{
		Vault:       vaultStore,
		Deployments: providers.Deployments,
		Logger:      log,
	})
}

func usageError() error {
	return fmt.Errorf("usage: credvault [flags] <get|set|delete|list|platforms> [platform] [key=value ...]")
}
