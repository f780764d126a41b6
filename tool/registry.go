package tool

import (
	"fmt"
	"sort"
	"strings"
)

// EmptyRegistryNotice is rendered as the tool list when no tools are
// available, leaving "finish" as the only reachable action.
const EmptyRegistryNotice = "- finish: provide the final answer (no tools available)."

// Registry maps action names to capabilities. It is built once per agent and
// never mutated afterwards, so concurrent runs may share it freely.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Later duplicates win.
func NewRegistry(tools ...Tool) *Registry {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return &Registry{tools: m}
}

// Get returns a registered tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether an action name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.tools)
}

// Describe renders the tool list spliced into the planner's system prompt.
func (r *Registry) Describe() string {
	if len(r.tools) == 0 {
		return EmptyRegistryNotice
	}
	var lines []string
	for _, name := range r.Names() {
		description := r.tools[name].Description()
		if description == "" {
			description = "No description."
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", name, description))
	}
	return strings.Join(lines, "\n")
}
