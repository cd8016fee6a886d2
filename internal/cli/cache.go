package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/cache"
	"github.com/matzehuels/depfetch/pkg/config"
)

type cacheFlags struct {
	configPath string
	location   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultFile, "configuration file")
	cmd.Flags().StringVar(&f.location, "cache-url", "", "cache directory or redis:// URL (overrides config)")
}

// resolve returns the cache location the resolve commands would use.
func (f *cacheFlags) resolve(cmd *cobra.Command) (string, error) {
	cfg, _, err := config.LoadOptional(f.configPath)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed("cache-url") {
		cfg.Cache.Location = f.location
	}
	return cacheLocation(cfg.Cache), nil
}

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the POM document cache",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags cacheFlags
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached POM document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if location == "none" {
				say(cmd.OutOrStdout(), noticeInfo, "Caching is disabled")
				return nil
			}
			store, err := cache.Open(location)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache %s cannot be cleared", location)
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear %s: %w", location, err)
			}
			c.Logger.Debug("cache cleared", "location", location, "entries", n)
			say(cmd.OutOrStdout(), noticeSuccess, "Removed %d cached documents", n)
			detail(cmd.OutOrStdout(), "Location: %s", location)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	var flags cacheFlags
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print where POM documents are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
