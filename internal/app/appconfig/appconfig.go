package appconfig

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/xbg/ifood-admin/internal/app/appcontext"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

const EnvPrefix = "ifood_admin"

// Parse loads dotenv files, reads the environment and applies the command line
// overrides carried by ctx. Any failure is reported as a configuration error.
func Parse(ctx appcontext.Ctx) (*Config, error) {
	// godotenv never overrides a variable that is already set, so the profile file
	// has to be loaded before the shared one to take precedence over it.
	if ctx.Profile != "" {
		profileFile := ".env." + ctx.Profile
		if err := godotenv.Load(profileFile); err != nil {
			return nil, starterr.Configuration("appconfig", fmt.Errorf("failed to load profile %q from %s: %w", ctx.Profile, profileFile, err))
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var spec ConfigSpec
	err := envconfig.Process(EnvPrefix, &spec)
	if err != nil {
		_ = envconfig.Usage(EnvPrefix, &spec)
		return nil, starterr.Configuration("appconfig", fmt.Errorf("failed to parse configuration: %w", err))
	}

	return FromSpec(ctx, spec)
}

// FromSpec applies the overrides of ctx to spec and validates the result.
func FromSpec(ctx appcontext.Ctx, spec ConfigSpec) (*Config, error) {
	if ctx.Overrides.ServiceAddress != "" {
		spec.ServiceAddress = ctx.Overrides.ServiceAddress
	}
	if ctx.Overrides.DatabaseDSN != "" {
		spec.DatabaseDSN = ctx.Overrides.DatabaseDSN
	}

	if err := newValidator().Struct(&spec); err != nil {
		return nil, starterr.Configuration("appconfig", fmt.Errorf("invalid configuration: %w", err))
	}

	return &Config{
		ConfigSpec: spec,
		AppContext: ctx,
	}, nil
}

// Usage prints every recognized environment variable to stdout.
func Usage() error {
	var spec ConfigSpec
	return envconfig.Usage(EnvPrefix, &spec)
}
