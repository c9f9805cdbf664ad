// Command kinnet serves and queries biographical person networks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/kinnet/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

// Output formats.
const (
	fmtJSON        = "json"
	fmtTable       = "table"
	fmtInterchange = "interchange"
)

var (
	flagURL string
	flagFmt string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("kinnet version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("kinnet version %s", config.Version)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kinnet",
		Short:         "kinnet: kinship and association networks from CBDB",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&flagURL, "url", os.Getenv("KINNET_URL"),
		"kinnet server URL; empty queries the configured store directly (env: KINNET_URL)")
	root.PersistentFlags().StringVar(&flagFmt, "format", fmtJSON, "Output format: json|table|interchange")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newNetworkCmd())
	root.AddCommand(newPersonCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
