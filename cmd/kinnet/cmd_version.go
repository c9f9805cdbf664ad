package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/kinnet/internal/db"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the binary and schema versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", db.SchemaVersion())
		},
	}
}
