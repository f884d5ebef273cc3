package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/componentry/internal/app"
	"github.com/vk/componentry/internal/hcl"
	"github.com/vk/componentry/internal/lookup"
)

// flags shared by every subcommand.
type rootFlags struct {
	componentsPath string
	fragmentsPath  string
	urlsPath       string
	platformsPath  string
	workers        int
	logFormat      string
	logLevel       string
}

// NewRootCmd builds the componentry command tree. outW receives exports,
// errW receives logs and violation listings.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "componentry",
		Short:         "Component metadata registry and validator",
		Long:          "componentry composes declarative component metadata against a fragment library, validates every record, and exports the frozen registry for documentation tooling.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.componentsPath, "components", "c", "components", "Path to component declaration files")
	pf.StringVarP(&flags.fragmentsPath, "fragments", "f", "", "Path to fragment library files")
	pf.StringVar(&flags.urlsPath, "urls", "", "Path to the urls lookup table")
	pf.StringVar(&flags.platformsPath, "platforms", "", "Path to a master platform list override")
	pf.IntVar(&flags.workers, "workers", 4, "Number of concurrent validation workers")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format: 'text' or 'json'")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: 'debug', 'info', 'warn' or 'error'")

	rootCmd.AddCommand(newValidateCmd(outW, errW, flags))
	rootCmd.AddCommand(newExportCmd(outW, errW, flags))
	return rootCmd
}

func newValidateCmd(outW, errW io.Writer, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Compose and validate every component record without exporting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, outW, errW, flags, app.Config{CheckOnly: true})
		},
	}
}

func newExportCmd(outW, errW io.Writer, flags *rootFlags) *cobra.Command {
	var format string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Validate every component record and export the frozen registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, outW, errW, flags, app.Config{
				Format:     format,
				OutputPath: outputPath,
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format: 'json' or 'yaml'")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Export file; stdout when empty")
	return cmd
}

func runPipeline(cmd *cobra.Command, outW, errW io.Writer, flags *rootFlags, overrides app.Config) error {
	overrides.ComponentsPath = flags.componentsPath
	overrides.FragmentsPath = flags.fragmentsPath
	overrides.URLsPath = flags.urlsPath
	overrides.PlatformsPath = flags.platformsPath
	overrides.Workers = flags.workers
	overrides.LogFormat = flags.logFormat
	overrides.LogLevel = flags.logLevel

	cfg, err := app.NewConfig(overrides)
	if err != nil {
		return err
	}

	urls := lookup.URLs{}
	if cfg.URLsPath != "" {
		if urls, err = lookup.LoadURLs(cfg.URLsPath); err != nil {
			return err
		}
	}

	platforms := lookup.DefaultPlatforms()
	if cfg.PlatformsPath != "" {
		if platforms, err = lookup.LoadPlatforms(cfg.PlatformsPath); err != nil {
			return err
		}
	}

	loader := hcl.NewLoader(urls)
	return app.NewApp(outW, errW, cfg, loader, platforms).Run(cmd.Context())
}

// Execute runs the CLI against the given arguments and writers.
func Execute(outW, errW io.Writer, args []string) error {
	rootCmd := NewRootCmd(outW, errW)
	rootCmd.SetOut(outW)
	rootCmd.SetErr(errW)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(errW, "Error:", err)
		return err
	}
	return nil
}
