package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/markscan/internal/config"
)

// useDefaultConfig installs the default configuration for the duration of
// the test.
func useDefaultConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := cfg
	c := config.Defaults()
	cfg = &c
	t.Cleanup(func() { cfg = prev })
	return cfg
}

// resetFlags restores every flag of cmd to its default after the test.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

// captureOutput redirects cmd's stdout and stderr into buffers.
func captureOutput(t *testing.T, cmd *cobra.Command) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.SetContext(context.TODO())
	})
	return stdout, stderr
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleDocument = "ShipDocName=INV001ShipDocNumber=77ShipDocDate=2024-01-01/>\n" +
	"ItemName=Bolt&amp;NutItemUnitCode=EA\n" +
	"<Code>ABC123</Code>\n" +
	"<Code>XYZ</Code>\n" +
	"ShipDocName=INV001ShipDocNumber=77ShipDocDate=2024-01-01/>\n"
