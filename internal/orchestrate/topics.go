// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import "strings"

// topicStopwords is filtered out when extracting significant tokens from
// the user query for forced-research topic synthesis.
var topicStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "for": true, "and": true,
	"to": true, "in": true, "on": true, "with": true, "about": true,
	"tell": true, "me": true, "please": true, "what": true, "how": true,
	"is": true, "are": true, "do": true, "does": true, "can": true,
	"you": true, "i": true, "we": true, "it": true,
}

// domainCannedTopics maps a query trigger substring to extra topic
// phrasings specific to that domain.
var domainCannedTopics = []struct {
	trigger string
	topics []string
}{
	{"ai", []string{"Risks and ethical considerations of AI systems"}},
	{"machine learning", []string{"State-of-the-art machine learning model architectures"}},
	{"agent", []string{"Multi-agent coordination and orchestration patterns"}},
}

// significantTokens extracts the query's content words, dropping
// stopwords and short tokens.
func significantTokens(query string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		clean := strings.Trim(word, ".,!?:;\"'()")
		if clean == "" || len(clean) <= 2 || topicStopwords[clean] {
			continue
		}
		tokens = append(tokens, clean)
	}
	return tokens
}

// forcedResearchTopics synthesizes 2-3 sub-topics directly from the user
// query when the supervisor's first LM call yields no tool calls and no
// notes have been gathered yet.
func forcedResearchTopics(query string) []string {
	tokens := significantTokens(query)
	subject := strings.Join(tokens, " ")
	if subject == "" {
		subject = strings.TrimSpace(query)
	}

	topics := []string{
		"Current developments in " + subject,
		"Practical applications and future trends in " + subject,
	}

	lower := strings.ToLower(query)
	for _, d := range domainCannedTopics {
		if strings.Contains(lower, d.trigger) {
			topics = append(topics, d.topics...)
		}
	}

	if len(topics) > 3 {
		topics = topics[:3]
	}
	return topics
}
