package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscout/depscout/pkg/config"
	"github.com/depscout/depscout/pkg/report"
	"github.com/depscout/depscout/pkg/scanner"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	configPath  string // config file path (defaults to .depscout.toml)
	output      string // report file path (stdout if empty)
	format      string // "json" or "csv"
	noVerify    bool   // parse only, skip registry lookups
	noCache     bool   // disable the HTTP response cache
	refresh     bool   // bypass cached registry responses
	concurrency int    // override registry.concurrency
	rate        int    // override registry.rate_per_minute
}

// loadConfig reads the config file and applies flag overrides.
func (o *scanOpts) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.concurrency > 0 {
		cfg.Registry.Concurrency = o.concurrency
	}
	if o.rate > 0 {
		cfg.Registry.RatePerMinute = o.rate
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.output != "" {
		cfg.Output.Path = o.output
	}
	return cfg, nil
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory tree for manifests and verify npm names",
		Long: `Scan walks a directory tree, parses every recognized dependency
manifest (package.json, requirements.txt, pom.xml, build.gradle,
composer.json, Cargo.toml, go.mod, Gemfile, packages.config, and
project files), and checks the npm package names it finds against
the registry.

Names that resolve are scored for suspicious patterns; names that
return 404 are reported as unclaimed.

Examples:
  depscout scan .                          # Scan and verify, JSON to stdout
  depscout scan ./repo -o report.json      # Write report to a file
  depscout scan ./repo --format csv        # CSV output
  depscout scan ./repo --no-verify         # Parse only, skip the registry`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, &opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default .depscout.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: json or csv")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "skip registry verification")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "max concurrent registry lookups")
	cmd.Flags().IntVar(&opts.rate, "rate", 0, "registry requests per minute")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, opts *scanOpts, root string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	sc := scanner.New(
		scanner.WithLogger(func(msg string, args ...any) { logger.Debugf(msg, args...) }),
	)
	records, scanStats, err := sc.Scan(ctx, root)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d files, %d records", scanStats.FilesScanned, len(records)))

	summaryStats := report.Summarize(records, scanStats, nil)
	if !opts.noVerify {
		verifier, err := c.newVerifier(cfg, opts.noCache, opts.refresh)
		if err != nil {
			return err
		}

		spinner := newSpinner(ctx, "Checking npm registry...")
		spinner.Start()
		verified, verifyStats, err := verifier.Verify(ctx, records)
		spinner.Stop()
		if err != nil && len(verified) == 0 {
			return err
		}
		if err != nil {
			logger.Warnf("Verification interrupted: %v", err)
		}
		records = verified
		summaryStats = report.Summarize(records, scanStats, verifyStats)
	}

	if err := c.writeReport(cfg, &report.Report{Summary: summaryStats, Records: records}); err != nil {
		return err
	}

	c.printScanSummary(summaryStats, cfg.Output.Path)
	return nil
}

// writeReport serializes the report to the configured path, or stdout
// when no path is set.
func (c *CLI) writeReport(cfg *config.Config, r *report.Report) error {
	if cfg.Output.Path != "" {
		return report.Export(cfg.Output.Path, cfg.Output.Format, r)
	}
	if cfg.Output.Format == "csv" {
		return report.WriteCSV(os.Stdout, r.Records)
	}
	return report.WriteJSON(os.Stdout, r)
}

func (c *CLI) printScanSummary(s *report.Summary, outPath string) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, StyleTitle.Render("Scan complete"))
	fmt.Fprintln(os.Stderr, summaryLine("records", s.TotalRecords))
	fmt.Fprintln(os.Stderr, summaryLine("checked", s.Checked))
	if s.Unclaimed > 0 {
		fmt.Fprintf(os.Stderr, "  %s %s\n", StyleDim.Render("unclaimed:"), StyleWarning.Render(fmt.Sprint(s.Unclaimed)))
	}
	if s.Suspicious > 0 {
		fmt.Fprintf(os.Stderr, "  %s %s\n", StyleDim.Render("suspicious:"), StyleWarning.Render(fmt.Sprint(s.Suspicious)))
	}
	if s.Errored > 0 {
		fmt.Fprintf(os.Stderr, "  %s %s\n", StyleDim.Render("errored:"), StyleError.Render(fmt.Sprint(s.Errored)))
	}
	if outPath != "" {
		fmt.Fprintln(os.Stderr, summaryLine("report", outPath))
	}
}
