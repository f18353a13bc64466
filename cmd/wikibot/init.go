package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gowikibot/wikibot/internal/config"
)

//go:embed templates/wikibot.yaml
var projectTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wikibot project file",
		Long: `Init creates a new .wikibot project file in the current directory.

The generated file includes:
- Default family and language selection
- Commented examples for bot credentials (secret read from environment)
- Documentation for per-family overrides and interwiki hints

Examples:
  # Create .wikibot in current directory
  wikibot init

  # Create project file at a specific path
  wikibot init -o myproject.yaml

  # Force overwrite existing file
  wikibot init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultProjectFile,
		"Output file path for the project file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing project file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("project file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := projectTemplate.ReadFile("templates/wikibot.yaml")
	if err != nil {
		return fmt.Errorf("failed to read project template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Default family and language")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Bot credentials (secret via environment variable)")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Per-family ignore lists and sort order")

	return nil
}
