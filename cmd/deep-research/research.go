// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/orchestrate"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run the deep research pipeline over a query",
	Long: `research runs the four-phase deep research pipeline over a free-text query:
clarify the question if it's ambiguous, plan a research brief, fan out focused
sub-agents across whichever search providers have credentials configured, and
synthesize a final report.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("provider", "anthropic", "LM provider")
	researchCmd.Flags().String("model", "claude-sonnet-4-5", "LM model")
	researchCmd.Flags().Int("max-iterations", 0, "supervisor planning iteration cap (0 = default)")
	researchCmd.Flags().Int("max-concurrent-agents", 0, "sub-agent concurrency cap (0 = default)")
	researchCmd.Flags().String("search-depth", "", "basic or advanced (empty = default)")
	researchCmd.Flags().Int("timeout-ms", 0, "overall invocation timeout in milliseconds (0 = default)")
	researchCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg := types.DefaultDeepResearchConfig()
	cfg.Provider, _ = cmd.Flags().GetString("provider")
	cfg.Model, _ = cmd.Flags().GetString("model")
	if v, _ := cmd.Flags().GetInt("max-iterations"); v > 0 {
		cfg.MaxIterations = v
	}
	if v, _ := cmd.Flags().GetInt("max-concurrent-agents"); v > 0 {
		cfg.MaxConcurrentAgents = v
	}
	if v, _ := cmd.Flags().GetString("search-depth"); v != "" {
		cfg.SearchDepth = types.SearchDepth(v)
	}
	if v, _ := cmd.Flags().GetInt("timeout-ms"); v > 0 {
		cfg.TimeoutMS = v
	}

	log := logrus.StandardLogger()
	client := &http.Client{}

	adapters := []search.Adapter{
		search.NewDuckDuckGo(client, log),
		search.NewContext7(client, log),
		search.NewGoogle(client, secretDefault("google-cse-api-key", ""), secretDefault("google-cse-id", ""), log),
		search.NewGoogleScholar(client, secretDefault("google-cse-api-key", ""), secretDefault("google-cse-id", ""), log),
		search.NewGoogleNews(client, secretDefault("google-cse-api-key", ""), secretDefault("google-cse-id", ""), log),
		search.NewTavily(client, secretDefault("tavily-api-key", ""), log),
		search.NewLangSearch(client, secretDefault("langsearch-api-key", ""), log),
		search.NewArxiv(client, log),
		search.NewOpenAlex(client, secretDefault("openalex-email", ""), log),
		search.NewSemanticScholar(client, secretDefault("semantic-scholar-api-key", ""), log),
		search.NewPatentsView(client, secretDefault("patentsview-api-key", ""), log),
	}

	weights := map[string]float64{
		"google":           1.2,
		"context7":         1.3,
		"duckduckgo":       1.0,
		"tavily":           1.1,
		"langsearch":       1.0,
		"arxiv":            1.25,
		"openalex":         1.2,
		"semantic_scholar": 1.2,
		"patentsview":      1.1,
	}
	agg := aggregate.New(adapters, weights, log)

	apiKey := secretDefault("anthropic-api-key", os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return fmt.Errorf("no anthropic-api-key secret or ANTHROPIC_API_KEY env var configured")
	}
	gen := llm.NewAnthropic(client, apiKey)

	result := orchestrate.ConductDeepResearch(cmd.Context(), query, cfg, gen, agg, log)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if !result.Success {
		fmt.Fprintf(os.Stderr, "research failed: %s\n", result.Error)
		if result.Details != "" {
			fmt.Fprintf(os.Stderr, "%s\n", result.Details)
		}
		return fmt.Errorf("research did not complete")
	}

	fmt.Println(result.FinalReport)
	return nil
}
