package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/config"
)

//go:embed templates/simprofile.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a simprofile configuration file",
		Long: `Init writes a commented .simprofile configuration file.

The file sets the API base URL, default project sorting and per-user
settings such as session cookies and the project to tip. Secrets like the
API token belong in the environment or a .env file, not here.

Examples:
  # Create .simprofile in the current directory
  simprofile init

  # Create the file in the XDG config directory
  simprofile init -o ~/.config/simprofile/config.yaml

  # Overwrite an existing file
  simprofile init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

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
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Cookies may end up in this file.
	if err := os.WriteFile(outputPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-user settings such as:")
	fmt.Fprintln(out, "  - Session cookies and extra headers")
	fmt.Fprintln(out, "  - Project sort key and order")
	fmt.Fprintln(out, "  - The project that receives tips")
	return nil
}
