package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/server"
)

type serveOptions struct {
	resolveFlags
	addr        string
	reportDir   string
	reportMongo string
}

// serveCommand creates the serve command, which exposes tree and resolve
// operations over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency trees and downloads over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: :8080)")
	cmd.Flags().StringVar(&opts.reportDir, "report-dir", "", "write a JSON report per resolved root into this directory")
	cmd.Flags().StringVar(&opts.reportMongo, "report-mongo", "", "store reports in MongoDB at this URI")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(cmd, &opts.resolveFlags)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.reportDir != "" {
		cfg.Report.Dir = opts.reportDir
	}
	if opts.reportMongo != "" {
		cfg.Report.MongoURI = opts.reportMongo
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
	if sink != nil {
		defer sink.Close(ctx)
	}

	return server.New(e.resolver, sink, c.Logger).ListenAndServe(ctx, cfg.Server.Addr)
}
