package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/kinnet/internal/models"
)

func newNetworkCmd() *cobra.Command {
	var (
		req        models.BuildRequest
		policyPath string
	)

	cmd := &cobra.Command{
		Use:   "network <person-id>...",
		Short: "Build the network around one or more seed persons",
		Long: `Build the kinship/association network around the given CBDB person ids.
With --format interchange the graph is written as a portable interchange document.`,
		Example: `  kinnet network 1762 --depth 2 --kinds kinship
  kinnet network 1762 3767 --policy mourning.yaml --format table`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := parseSeeds(args)
			if err != nil {
				return err
			}
			req.Seeds = seeds

			if policyPath != "" {
				p, err := loadPolicy(policyPath)
				if err != nil {
					return err
				}
				req.Policy = &p
			}

			return withBackend(cmd.Context(), func(b backend) error {
				n, err := b.BuildNetwork(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("building network: %w", err)
				}

				out := cmd.OutOrStdout()
				switch flagFmt {
				case fmtInterchange:
					data, err := b.Export(cmd.Context(), &n.Graph, models.FormatInterchange)
					if err != nil {
						return fmt.Errorf("exporting network: %w", err)
					}
					_, err = out.Write(append(data, '\n'))
					return err
				case fmtTable:
					return formatNetworkTable(out, n)
				default:
					return formatJSON(out, n)
				}
			})
		},
	}

	cmd.Flags().IntVar(&req.Depth, "depth", 1, "Traversal depth (hops from each seed)")
	cmd.Flags().StringSliceVar(&req.Kinds, "kinds", nil, "Relation kinds to follow: kinship,association,office (default all)")
	cmd.Flags().IntVar(&req.MaxNodes, "max-nodes", 0, "Lower the server's node ceiling for this build")
	cmd.Flags().StringVar(&req.Locale, "locale", models.LocaleEnglish, "Label locale: en|zh")
	cmd.Flags().BoolVar(&req.Layout, "layout", false, "Assign x/y coordinates to every node")
	cmd.Flags().StringVar(&policyPath, "policy", "", "YAML file with a filter policy (default policy when empty)")

	return cmd
}

func parseSeeds(args []string) ([]models.PersonID, error) {
	seeds := make([]models.PersonID, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid person id %q: must be a positive integer", a)
		}
		seeds = append(seeds, models.PersonID(n))
	}
	return seeds, nil
}

// loadPolicy reads a filter policy. Keys missing from the file keep their
// default values.
func loadPolicy(path string) (models.FilterPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FilterPolicy{}, fmt.Errorf("reading policy: %w", err)
	}

	p := models.DefaultFilterPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return models.FilterPolicy{}, fmt.Errorf("parsing policy %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return models.FilterPolicy{}, err
	}

	return p, nil
}
