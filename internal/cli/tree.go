package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/render/dot"
	"github.com/matzehuels/depfetch/pkg/render/tree"
)

type treeOptions struct {
	resolveFlags
	dotPath  string
	svgPath  string
	detailed bool
}

// treeCommand creates the tree command, which prints the resolved
// dependency tree without downloading artifacts.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree <coordinate>",
		Short: "Print the dependency tree of an artifact",
		Example: `  depfetch tree org.apache.commons:commons-text:1.11.0
  depfetch tree --style unicode --svg tree.svg com.google.guava:guava:32.1.3-jre`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.dotPath, "dot", "", "also write the tree as Graphviz DOT to this file")
	cmd.Flags().StringVar(&opts.svgPath, "svg", "", "also render the tree as SVG to this file")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include scopes in DOT/SVG labels")

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, arg string, opts *treeOptions) error {
	ctx := cmd.Context()
	coord, err := artifact.Parse(arg)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(cmd, &opts.resolveFlags)
	if err != nil {
		return err
	}
	e, err := c.newEnv(cfg, opts.extraRepos)
	if err != nil {
		return err
	}
	defer e.Close()

	spin := startSpinner(ctx, cmd.ErrOrStderr(), "Collecting dependencies of "+coord.String())
	root, err := e.resolver.Collect(ctx, artifact.Root(coord))
	spin.Stop()
	if err != nil {
		return err
	}

	if err := tree.New(e.resolver.Options.Style).Fprint(cmd.OutOrStdout(), root); err != nil {
		return err
	}

	if opts.dotPath == "" && opts.svgPath == "" {
		return nil
	}
	src := dot.ToDOT(root, dot.Options{Detailed: opts.detailed})
	if opts.dotPath != "" {
		if err := os.WriteFile(opts.dotPath, []byte(src), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
		say(cmd.OutOrStdout(), noticeFile, "%s", opts.dotPath)
	}
	if opts.svgPath != "" {
		svg, err := dot.RenderSVG(ctx, src)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svgPath, svg, 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		say(cmd.OutOrStdout(), noticeFile, "%s", opts.svgPath)
	}
	return nil
}
