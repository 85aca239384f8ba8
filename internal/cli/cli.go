package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depscout/depscout/pkg/buildinfo"
	"github.com/depscout/depscout/pkg/cache"
	"github.com/depscout/depscout/pkg/config"
	"github.com/depscout/depscout/pkg/integrations"
	"github.com/depscout/depscout/pkg/integrations/npm"
	"github.com/depscout/depscout/pkg/verify"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "depscout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "depscout",
		Short:        "Depscout audits dependency manifests against the npm registry",
		Long:         `Depscout scans directory trees for dependency manifests across nine package ecosystems, verifies the referenced package names against the npm registry, and flags names that look unclaimed or suspicious.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Verifier Factory
// =============================================================================

// newVerifier builds a registry verifier from the loaded configuration.
func (c *CLI) newVerifier(cfg *config.Config, noCache, refresh bool) (*verify.Verifier, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	client := npm.NewClient(cfg.Registry.BaseURL, store, integrations.Options{
		Retries:  cfg.Registry.Retries,
		Delay:    cfg.Registry.RetryDelay.Std(),
		CacheTTL: cfg.Registry.CacheTTL.Std(),
	})
	return verify.New(client, verify.Options{
		Concurrency:   cfg.Registry.Concurrency,
		RatePerMinute: cfg.Registry.RatePerMinute,
		Refresh:       refresh,
		Logger:        func(msg string, args ...any) { c.Logger.Warnf(msg, args...) },
	}), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depscout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
