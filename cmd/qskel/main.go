package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/qskel/internal/config"
	"github.com/QTest-hq/qskel/internal/generator"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command shares
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	cfg     *config.Config
	gen     *generator.Generator
	verbose bool
}

// run executes the command line and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr})

	a := &app{stdout: stdout, stderr: stderr, gen: generator.NewGenerator()}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	code := exitCode(err)
	switch code {
	case ExitOK:
	case ExitNothingToGenerate:
		fmt.Fprintln(stderr, "nothing to generate")
	case ExitUsage:
		fmt.Fprintf(stderr, "Error: %v\nRun 'qskel --help' for usage.\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qskel",
		Short: "qskel - test skeleton synthesis for declared types",
		Long: `qskel reads declared type shapes from C# sources or a declaration model
file and writes compilable xUnit test skeletons for them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(a.generateCmd())
	rootCmd.AddCommand(a.parseCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.initCmd())

	return rootCmd
}

func (a *app) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	a.cfg = cfg

	// structured JSON logs outside development
	if !cfg.IsDevelopment() {
		log.Logger = zerolog.New(a.stderr).With().Timestamp().Logger()
	}

	level := cfg.Level()
	if a.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
