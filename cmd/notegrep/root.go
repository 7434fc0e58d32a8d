package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/notegrep/cmd/notegrep/opts"
	"github.com/walteh/notegrep/pkg/config"
	"github.com/walteh/notegrep/pkg/log"
	"github.com/walteh/notegrep/pkg/vault"
)

var (
	// Flags
	vaultDir   string
	configFile string
	debug      bool
)

// initRootOpts fills the shared options once flags are parsed.
func initRootOpts(ctx context.Context, rootOpts *opts.RootOpts) error {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	settings, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}

	v, err := vault.NewDirVault(vaultDir,
		vault.WithIncludes(settings.Includes...),
		vault.WithIgnores(settings.Ignores...),
	)
	if err != nil {
		return errors.Errorf("opening vault: %w", err)
	}

	rootOpts.Settings = settings
	rootOpts.Vault = v
	rootOpts.Notifier = log.NewPtermNotifier()
	rootOpts.Logger = log.New(os.Stdout, zerolog.InfoLevel)
	rootOpts.JournalPath = filepath.Join(v.Root(), rootOpts.JournalName())
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&vaultDir, "vault", "v", ".", "vault root directory")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".notegrep.yaml", "settings file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog and seeds the context logger. The
// debug flag bumps the global level later, in initRootOpts, once cobra
// has parsed it.
func setupLogging(ctx context.Context) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}
