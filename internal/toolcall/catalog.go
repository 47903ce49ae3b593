// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolcall implements the tool-call protocol: the closed tool
// catalog, deterministic prompt templating, permissive parsing of LM text
// into typed invocations, and dispatch of each parsed call.
package toolcall

import "github.com/pdiddy/deep-research/pkg/types"

// ToolSpec describes one entry in the closed tool catalog: its calling
// convention and the argument that a bare string literal binds to.
type ToolSpec struct {
	Name string

	// Description is the one-line summary shown in the prompt tool block.
	Description string

	// ArgName is the conventional parameter name a single quoted-string
	// argument binds to.
	ArgName string

	// Required lists the argument keys a JSON-object call must supply.
	Required []string
}

// Catalog is the fixed, closed set of tools. Order is
// significant: it's the order tools are listed in the prompt block.
var Catalog = []ToolSpec{
	{
		Name: types.ToolWebSearch,
		Description: "Search the general web for information relevant to the research topic.",
		ArgName: "query",
		Required: []string{"query"},
	},
	{
		Name: types.ToolScholarSearch,
		Description: "Search academic and scholarly sources.",
		ArgName: "query",
		Required: []string{"query"},
	},
	{
		Name: types.ToolNewsSearch,
		Description: "Search recent news coverage.",
		ArgName: "query",
		Required: []string{"query"},
	},
	{
		Name: types.ToolDocSearch,
		Description: "Search technical documentation for a library or API.",
		ArgName: "query",
		Required: []string{"query"},
	},
	{
		Name: types.ToolThink,
		Description: "Record a reasoning step without taking any external action.",
		ArgName: "thoughts",
		Required: []string{"thoughts"},
	},
	{
		Name: types.ToolConductResearch,
		Description: "Delegate a focused sub-topic to a dedicated research sub-agent.",
		ArgName: "research_topic",
		Required: []string{"research_topic"},
	},
	{
		Name: types.ToolResearchComplete,
		Description: "Declare that research is complete and no further tool calls are needed.",
		ArgName: "summary",
		Required: []string{"summary"},
	},
}

// byName indexes Catalog for O(1) lookup.
var byName = func() map[string]ToolSpec {
	m := make(map[string]ToolSpec, len(Catalog))
	for _, t := range Catalog {
		m[t.Name] = t
	}
	return m
}()

// Lookup returns the ToolSpec for name and whether it's in the catalog.
func Lookup(name string) (ToolSpec, bool) {
	spec, ok := byName[name]
	return spec, ok
}

// MissingRequired reports which of spec's required arguments are absent
// from args.
func MissingRequired(spec ToolSpec, args map[string]interface{}) []string {
	var missing []string
	for _, key := range spec.Required {
		if _, ok := args[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
