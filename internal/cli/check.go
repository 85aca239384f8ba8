package cli

import (
	"github.com/spf13/cobra"

	"github.com/depscout/depscout/pkg/config"
	"github.com/depscout/depscout/pkg/manifest"
)

// checkCommand creates the check command for verifying names directly,
// without scanning a directory.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		configPath string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "check <name>...",
		Short: "Check npm package names against the registry",
		Long: `Check verifies one or more npm package names against the registry
and reports whether each is claimed, unclaimed, or suspicious.

Examples:
  depscout check lodash
  depscout check lodah expres left-pad`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultFile
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			return c.runCheck(cmd, cfg, noCache, refresh, args)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default .depscout.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the HTTP response cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached registry responses")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, cfg *config.Config, noCache, refresh bool, names []string) error {
	ctx := cmd.Context()

	verifier, err := c.newVerifier(cfg, noCache, refresh)
	if err != nil {
		return err
	}

	records := make([]manifest.Record, 0, len(names))
	for _, name := range names {
		records = append(records, manifest.Record{
			Name:      name,
			Version:   manifest.UnknownVersion,
			Role:      manifest.RoleDependency,
			Category:  "check",
			Ecosystem: manifest.EcosystemNPM,
			Source:    "cli:check",
		})
	}

	verified, stats, err := verifier.Verify(ctx, records)
	if err != nil && len(verified) == 0 {
		return err
	}

	for _, rec := range verified {
		printCheckResult(rec)
	}
	if stats.Errored > 0 {
		printWarning("%d lookups failed", stats.Errored)
	}
	return nil
}

func printCheckResult(rec manifest.Record) {
	if rec.Verify == nil {
		printDetail("%s: not checked", rec.Name)
		return
	}
	switch rec.Verify.Status {
	case manifest.StatusFound:
		if rec.Verify.Suspicious {
			printWarning("%s: found, suspicious (%s)", rec.Name, rec.Verify.Detail)
		} else {
			printSuccess("%s: found", rec.Name)
		}
	case manifest.StatusUnclaimed:
		printWarning("%s: unclaimed", rec.Name)
	default:
		printError("%s: %s", rec.Name, rec.Verify.Detail)
	}
}
