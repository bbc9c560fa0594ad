package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitid/internal/config"
	"github.com/mrz1836/gitid/internal/git"
	"github.com/mrz1836/gitid/internal/gpg"
	"github.com/mrz1836/gitid/internal/identity"
	"github.com/mrz1836/gitid/internal/signing"
)

// loadConfigAndRegistry loads configuration (honoring the GITID_CONFIG file
// override) and builds the identity registry over it.
func loadConfigAndRegistry(ctx context.Context) (*config.Config, *identity.Registry, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)

	if override := os.Getenv("GITID_CONFIG"); override != "" {
		path = override
		cfg, err = config.LoadFromFile(override)
	} else {
		path, err = config.GlobalConfigPath()
		if err != nil {
			return nil, nil, err
		}
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, nil, err
	}

	reg, err := identity.NewRegistry(cfg, path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

// toolkit bundles the external-tool collaborators a command needs. Building
// them together keeps every command on the same executors and logger.
type toolkit struct {
	keys     *gpg.KeyDiscovery
	card     *gpg.CardProbe
	hardware *gpg.HardwareDetector
	signer   *gpg.TrialSigner
	git      *git.ConfigStore
}

// newToolkit wires the gpg, ykman, and git collaborators with the CLI logger
// and the configured trial-sign timeout.
func newToolkit(logger zerolog.Logger, cfg *config.Config) *toolkit {
	card := gpg.NewCardProbe(gpg.WithCardLogger(logger))
	return &toolkit{
		keys:     gpg.NewKeyDiscovery(gpg.WithDiscoveryLogger(logger)),
		card:     card,
		hardware: gpg.NewHardwareDetector(card, gpg.WithHardwareLogger(logger)),
		signer: gpg.NewTrialSigner(
			gpg.WithSignerLogger(logger),
			gpg.WithSignerTimeout(cfg.Signing.TestTimeout),
		),
		git: git.NewConfigStore(git.WithConfigLogger(logger)),
	}
}

// evaluator builds the readiness decision engine over the toolkit.
func (t *toolkit) evaluator(logger zerolog.Logger) *signing.Evaluator {
	return signing.NewEvaluator(t.keys, t.card, t.hardware, t.signer,
		signing.WithEvaluatorLogger(logger))
}

// configurator builds the repository signing configurator over the toolkit.
func (t *toolkit) configurator(logger zerolog.Logger) *signing.Configurator {
	return signing.NewConfigurator(t.git, t.keys, t.hardware, t.card,
		signing.WithConfiguratorLogger(logger))
}
