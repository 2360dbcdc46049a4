package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/qskel/internal/config"
	"github.com/QTest-hq/qskel/internal/generator"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		output     string
		configPath string
		language   string
		overrides  config.ProjectConfig
	)

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate test skeletons for a C# file, a source directory or a model file",
		Example: `  qskel generate src/Shop
  qskel generate Order.cs --strategy mapping -o OrderMapperTests.cs
  qskel generate model.yaml --emitter plan
  qskel generate model.yaml --lang yaml`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			input := args[0]

			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input %s: %w", input, err)
			}

			project, err := loadProject(input, configPath)
			if err != nil {
				return err
			}
			if overrides.Emitter == "" && language != "" {
				em, err := a.gen.Emitters().GetForLanguage(language)
				if err != nil {
					return err
				}
				overrides.Emitter = em.Name()
			}
			project.Merge(&overrides)

			opts := generator.OptionsFromProject(project, a.cfg.Workers)

			log.Info().
				Str("input", input).
				Str("strategy", string(opts.Strategy)).
				Str("emitter", opts.Emitter).
				Msg("generating tests")

			result, err := a.gen.GenerateFile(ctx, input, opts)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(a.stdout, result.Output)
				return nil
			}

			path, err := writeOutput(output, result)
			if err != nil {
				return err
			}
			stats := result.Suite.Stats()
			fmt.Fprintf(a.stdout, "Wrote %d test cases for %d entities to %s\n", stats["cases"], stats["fixtures"], path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default: stdout)")
	cmd.Flags().StringVarP(&overrides.Strategy, "strategy", "s", "", "Planning strategy (general, mapping, delegation)")
	cmd.Flags().StringVarP(&overrides.Emitter, "emitter", "e", "", "Output emitter (xunit, plan)")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Pick the emitter by output language (csharp, yaml) when --emitter is not set")
	cmd.Flags().StringVarP(&overrides.Namespace, "namespace", "n", "", "Source namespace of the generated tests")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Project config file (default: .qskel.yaml next to the input)")
	cmd.Flags().StringSliceVar(&overrides.Exclude, "exclude", nil, "Entity names to skip")

	return cmd
}

// loadProject resolves the project configuration: an explicit file, or
// .qskel.yaml in the input directory, or the defaults
func loadProject(input, configPath string) (*config.ProjectConfig, error) {
	if configPath != "" {
		return config.LoadProjectConfigFile(configPath)
	}

	dir := input
	if info, err := os.Stat(input); err != nil || !info.IsDir() {
		dir = filepath.Dir(input)
	}
	return config.LoadProjectConfig(dir)
}

// writeOutput writes the generated text to output. An existing directory
// receives a file named after the suite.
func writeOutput(output string, result *generator.Result) (string, error) {
	path := output
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		path = filepath.Join(output, outputName(result))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(result.Output), 0644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return path, nil
}

// outputName names the generated file after its single entity, or after the
// namespace when several entities share the file
func outputName(result *generator.Result) string {
	base := "Generated"
	switch {
	case len(result.Suite.Fixtures) == 1:
		base = result.Suite.Fixtures[0].Entity
	case result.Suite.Namespace != "":
		base = strings.ReplaceAll(result.Suite.Namespace, ".", "")
	}
	return base + result.Emitter.FileExtension()
}
