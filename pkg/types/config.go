package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "deep-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchDepth selects how aggressively search adapters probe a provider.
type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

// ProviderCredentials holds the API keys and endpoint ids used to decide
// search-provider availability at aggregator construction time. Read once
// from injected configuration (e.g. internal/secrets), never from ambient
// process state at call time.
type ProviderCredentials struct {
	GoogleCSEAPIKey  string `json:"google_cse_api_key,omitempty" yaml:"google_cse_api_key,omitempty"`
	GoogleCSEID      string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty"`
	TavilyAPIKey     string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`
	LangSearchAPIKey string `json:"langsearch_api_key,omitempty" yaml:"langsearch_api_key,omitempty"`
}

// DeepResearchConfig is the immutable per-invocation configuration for
// conductDeepResearch.
type DeepResearchConfig struct {
	// Provider and Model select the LM used for every phase call.
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`

	// MaxIterations bounds the supervisor loop (typ. 2-6).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// MaxConcurrentAgents is an advisory hint surfaced in the supervisor
	// prompt; it is also used as the concurrency cap when sub-agents are
	// run in parallel (typ. 3).
	MaxConcurrentAgents int `json:"max_concurrent_agents" yaml:"max_concurrent_agents"`

	// SearchDepth is recorded in the configuration only: no search adapter
	// reads it, and the Tavily adapter always requests "basic" depth.
	SearchDepth SearchDepth `json:"search_depth" yaml:"search_depth"`

	// TimeoutMS bounds the entire invocation (typ. 180000).
	TimeoutMS int `json:"timeout_ms" yaml:"timeout_ms"`
}

// DefaultDeepResearchConfig returns the documented defaults for an
// otherwise-unconfigured invocation.
func DefaultDeepResearchConfig() DeepResearchConfig {
	return DeepResearchConfig{
		MaxIterations:       3,
		MaxConcurrentAgents: 3,
		SearchDepth:         DepthBasic,
		TimeoutMS:           180000,
	}
}
