// Package docwriter generates structured documents through staged workflows:
// optional web research, a model-written draft, an optional review pass, and
// persistence into the workspace docs directory.
package docwriter

import (
	"fmt"
	"strings"
)

// Workflow keys.
const (
	WorkflowReport           = "report"
	WorkflowPatentDisclosure = "patent_disclosure"
	WorkflowPlan             = "plan"
	WorkflowProjectProposal  = "project_proposal"
)

// Workflow describes one document-generation workflow.
type Workflow struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
	Template    string `json:"template"`
}

var workflows = []Workflow{
	{
		Key:         WorkflowReport,
		Description: "Business and technical reports with clear recommendations.",
		Tone:        "analytical and direct",
		Template: `# {topic}

## Executive Summary
## Background
## Findings
## Recommendations
## Appendix`,
	},
	{
		Key:         WorkflowPatentDisclosure,
		Description: "Patent disclosure drafts capturing inventive details.",
		Tone:        "precise and exhaustive",
		Template: `# Invention Disclosure: {topic}

## Field of the Invention
## Background and Prior Art
## Summary of the Invention
## Detailed Description
## Claims Outline`,
	},
	{
		Key:         WorkflowPlan,
		Description: "Execution or project plans with milestones and risks.",
		Tone:        "pragmatic and action-oriented",
		Template: `# {topic}

## Objectives
## Milestones
## Workstreams
## Risks and Mitigations
## Timeline`,
	},
	{
		Key:         WorkflowProjectProposal,
		Description: "Project proposals optimised for stakeholder buy-in.",
		Tone:        "persuasive and structured",
		Template: `# Proposal: {topic}

## Problem Statement
## Proposed Approach
## Expected Impact
## Resourcing and Budget
## Next Steps`,
	},
}

// Workflows returns all supported workflows in declaration order.
func Workflows() []Workflow {
	out := make([]Workflow, len(workflows))
	copy(out, workflows)
	return out
}

// ParseWorkflow resolves a workflow key.
func ParseWorkflow(key string) (Workflow, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	for _, w := range workflows {
		if w.Key == normalized {
			return w, nil
		}
	}
	return Workflow{}, fmt.Errorf("unsupported workflow '%s'", key)
}
