package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/kinnet/client"
	"github.com/persistorai/kinnet/internal/models"
)

func newPersonCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "person <person-id>",
		Short: "Show one person's stored attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSeeds(args)
			if err != nil {
				return err
			}

			return withBackend(cmd.Context(), func(b backend) error {
				p, err := b.Person(cmd.Context(), ids[0], locale)
				if err != nil {
					return fmt.Errorf("person %d: %w", ids[0], err)
				}

				if flagFmt == fmtTable {
					return formatTable(cmd.OutOrStdout(), personHeaders, [][]string{personRow(p)})
				}
				return formatJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	cmd.Flags().StringVar(&locale, "locale", models.LocaleEnglish, "Label locale: en|zh")

	return cmd
}

var personHeaders = []string{"ID", "LABEL", "NAME", "NAME_CHN", "BORN", "DIED"}

func personRow(p *client.Person) []string {
	return []string{p.ID.String(), p.Label, p.Name, p.NameChn, optInt(p.BirthYear), optInt(p.DeathYear)}
}
