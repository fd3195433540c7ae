// Package cmdutil provides shared helpers for CLI commands.
package cmdutil

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opsatlas/svcmap/internal/deps"
	"github.com/opsatlas/svcmap/internal/secrets"
)

// ResolveCredentials returns env-var credentials when present, otherwise
// verifies the secrets CLI is installed and reads the vault item. Tool
// verification happens before the secret read so a missing tool surfaces
// as a startup error, not a confusing process failure.
func ResolveCredentials(ctx context.Context, log *zerolog.Logger, vault, item string) (secrets.Credentials, error) {
	if creds, ok := secrets.FromEnv(); ok {
		log.Debug().Msg("Using credentials from environment")
		return creds, nil
	}

	if err := deps.Verify(ctx, deps.Required()); err != nil {
		return secrets.Credentials{}, err
	}

	log.Debug().Str("vault", vault).Str("item", item).Msg("Reading credentials from secret store")
	return secrets.NewProvider(vault, item).Resolve(ctx)
}
