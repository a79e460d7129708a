package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"boxtree/internal/config"
	"boxtree/pkg/pipeline"
)

type layoutOpts struct {
	configPath string
	width      float64
	font       string
	noScripts  bool
}

func newLayoutCmd() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Lay out an HTML document and print the box tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runLayout(cmd, args[0], cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "content width in pixels (overrides config)")
	cmd.Flags().StringVar(&opts.font, "font", "", "TrueType font for text measurement (overrides config)")
	cmd.Flags().BoolVar(&opts.noScripts, "no-scripts", false, "do not run <script> elements")
	return cmd
}

// resolveConfig layers defaults, the config file and explicit flags.
func resolveConfig(cmd *cobra.Command, opts layoutOpts) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("width") {
		cfg.ContentWidth = opts.width
	}
	if cmd.Flags().Changed("font") {
		cfg.FontPath = opts.font
	}
	if opts.noScripts {
		cfg.RunScripts = false
	}
	return cfg, cfg.Validate()
}

func runLayout(cmd *cobra.Command, path string, cfg config.Config) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	src, err := pipeline.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	res, err := p.Layout(src)
	if err != nil {
		return err
	}
	if res.View.Empty() {
		logger.Warn("document rendered no boxes", "source", path)
	}
	if err := res.View.Dump(cmd.OutOrStdout()); err != nil {
		return err
	}
	prog.done("laid out "+path, "boxes", res.View.Len())
	return nil
}
