package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/markscan/internal/config"
	"github.com/sells-group/markscan/internal/extract"
)

const configHeader = `# markscan configuration.
# Every key can also be set through the environment, e.g.
# MARKSCAN_SCAN_FALLBACK_ENCODING=koi8-r or MARKSCAN_MARKERS_PRESET=upd.
# Marker fields override the selected preset; leave them empty to keep it.
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Long: `Init creates a config.yaml holding every setting with its default value.

Examples:
  # Create config.yaml in the current directory
  markscan init

  # Create the config file at a specific path
  markscan init -o ~/.config/markscan/config.yaml

  # Overwrite an existing file
  markscan init -f`,
	RunE: runInitCmd,
}

func init() {
	initCmd.Flags().StringP("output", "o", "config.yaml", "output file path for the configuration")
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

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
			return eris.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := renderDefaultConfig()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return eris.Wrap(err, "init: create directory")
		}
	}
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return eris.Wrap(err, "init: write configuration file")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}

// renderDefaultConfig marshals the default configuration with the generic
// markers spelled out.
func renderDefaultConfig() ([]byte, error) {
	d := config.Defaults()
	d.Markers.Markers = extract.DefaultMarkers()

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, eris.Wrap(err, "init: marshal config")
	}
	if err := enc.Close(); err != nil {
		return nil, eris.Wrap(err, "init: marshal config")
	}
	return buf.Bytes(), nil
}
