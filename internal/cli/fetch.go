package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/config"
	"github.com/matzehuels/depfetch/pkg/report"
	"github.com/matzehuels/depfetch/pkg/resolve"
)

type fetchOptions struct {
	resolveFlags
	depsFile    string
	javadoc     bool
	sources     bool
	parallel    bool
	interactive bool
	reportDir   string
	reportMongo string
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch [coordinate...]",
		Short: "Download artifacts and their dependencies",
		Long: `Download artifacts and their transitive dependencies into a local repository.

Coordinates have the form group:name[:extension[:classifier]]:version. Without
arguments the roots are read from the dependency file.`,
		Example: `  depfetch fetch com.google.guava:guava:32.1.3-jre
  depfetch fetch -f dependencies.json -d local-repo --with-sources
  depfetch fetch --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, args, &opts)
		},
	}

	opts.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.depsFile, "file", "f", config.DefaultDependencies, "JSON dependency file used when no coordinates are given")
	fl.BoolVarP(&opts.javadoc, "with-javadoc", "j", false, "also download javadoc attachments")
	fl.BoolVarP(&opts.sources, "with-sources", "s", false, "also download sources attachments")
	fl.BoolVar(&opts.parallel, "parallel", false, "resolve roots concurrently")
	fl.BoolVarP(&opts.interactive, "interactive", "i", false, "choose roots from the dependency file interactively")
	fl.StringVar(&opts.reportDir, "report-dir", "", "write a JSON report per root into this directory")
	fl.StringVar(&opts.reportMongo, "report-mongo", "", "store reports in MongoDB at this URI")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, args []string, opts *fetchOptions) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(cmd, &opts.resolveFlags)
	if err != nil {
		return err
	}
	if opts.javadoc {
		cfg.Resolve.Javadoc = true
	}
	if opts.sources {
		cfg.Resolve.Sources = true
	}
	if opts.parallel {
		cfg.Resolve.Parallel = true
	}
	if opts.reportDir != "" {
		cfg.Report.Dir = opts.reportDir
	}
	if opts.reportMongo != "" {
		cfg.Report.MongoURI = opts.reportMongo
	}

	roots, invalid, err := c.collectRoots(args, opts)
	if err != nil {
		return err
	}
	if len(roots) == 0 && invalid == 0 {
		say(cmd.OutOrStdout(), noticeInfo, "Nothing to fetch")
		return nil
	}

	e, err := c.newEnv(cfg, opts.extraRepos)
	if err != nil {
		return err
	}
	defer e.Close()

	sink, err := openReportSink(ctx, cfg.Report)
	if err != nil {
		return err
	}

	start := time.Now()
	outcomes := e.resolver.Run(ctx, roots, cfg.Attachments())
	timed(c.Logger, "resolved roots", start, "count", len(outcomes))

	if sink != nil {
		runID := report.NewRunID()
		for _, o := range outcomes {
			if err := sink.Write(ctx, report.FromOutcome(runID, o)); err != nil {
				c.Logger.Warn("failed to store report", "root", o.Root.Coordinate.String(), "err", err)
			}
		}
		if err := sink.Close(ctx); err != nil {
			c.Logger.Warn("failed to close report sink", "err", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), summaryTable(outcomes))
	c.Logger.Infof("artifacts downloaded to %s", e.transport.Dir())

	failed := invalid + countFailed(outcomes)
	if failed > 0 {
		say(cmd.OutOrStdout(), noticeWarning, "%d of %d roots failed", failed, len(outcomes)+invalid)
		return fmt.Errorf("%d of %d roots failed", failed, len(outcomes)+invalid)
	}
	return nil
}

// collectRoots parses the coordinate arguments, or reads the dependency
// file when there are none. Malformed arguments are reported and counted
// so the remaining roots still run.
func (c *CLI) collectRoots(args []string, opts *fetchOptions) ([]artifact.Dependency, int, error) {
	var coords []artifact.Coordinate
	invalid := 0

	if len(args) > 0 {
		for _, a := range args {
			coord, err := artifact.Parse(a)
			if err != nil {
				c.Logger.Error("skipping root", "coordinate", a, "err", err)
				invalid++
				continue
			}
			coords = append(coords, coord)
		}
	} else {
		var err error
		coords, err = config.LoadDependencies(opts.depsFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("no coordinates given and %s not found", opts.depsFile)
		}
		if err != nil {
			return nil, 0, err
		}
		c.Logger.Debug("loaded dependency file", "path", opts.depsFile, "roots", len(coords))
	}

	if opts.interactive && len(coords) > 0 {
		var err error
		if coords, err = pickRoots(coords); err != nil {
			return nil, 0, err
		}
	}

	roots := make([]artifact.Dependency, len(coords))
	for i, coord := range coords {
		roots[i] = artifact.Root(coord)
	}
	return roots, invalid, nil
}

func countFailed(outcomes []resolve.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
