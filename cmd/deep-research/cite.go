// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite [query]",
	Short: "Search scholarly and patent sources and export citations as CSL-YAML",
	Long: `cite runs a single scholarly-source search (arXiv, OpenAlex, Semantic
Scholar, PatentsView, Google Scholar) and writes the results as a
CSL-YAML bibliography, for handoff to Pandoc or a reference manager.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().Int("max-results", 20, "maximum citations to export")
	citeCmd.Flags().String("out", "", "write CSL-YAML to this path instead of stdout")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	query := args[0]
	log := logrus.StandardLogger()
	client := &http.Client{}

	adapters := []search.Adapter{
		search.NewGoogleScholar(client, secretDefault("google-cse-api-key", ""), secretDefault("google-cse-id", ""), log),
		search.NewArxiv(client, log),
		search.NewOpenAlex(client, secretDefault("openalex-email", ""), log),
		search.NewSemanticScholar(client, secretDefault("semantic-scholar-api-key", ""), log),
		search.NewPatentsView(client, secretDefault("patentsview-api-key", ""), log),
	}
	agg := aggregate.New(adapters, nil, log)

	maxResults, _ := cmd.Flags().GetInt("max-results")
	opts := types.DefaultUnifiedSearchOptions()
	opts.MaxResults = maxResults

	results, err := agg.SearchScholar(cmd.Context(), query, opts)
	if err != nil {
		return err
	}

	out := os.Stdout
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return search.FormatCSL(results, out)
}
