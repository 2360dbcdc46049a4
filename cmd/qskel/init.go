package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/qskel/internal/config"
)

func (a *app) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a " + config.ProjectFileName + " with the default project settings",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("project directory %s: %w", dir, err)
			}
			if !info.IsDir() {
				return usageErrorf("%s is not a directory", dir)
			}

			for _, name := range []string{config.ProjectFileName, ".qskel.yml"} {
				if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
					return usageErrorf("%s already exists in %s", name, dir)
				}
			}

			if err := config.SaveProjectConfig(dir, config.DefaultProjectConfig()); err != nil {
				return fmt.Errorf("failed to write project config: %w", err)
			}

			path := filepath.Join(dir, config.ProjectFileName)
			log.Debug().Str("path", path).Msg("project config written")
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			return nil
		},
	}

	return cmd
}
