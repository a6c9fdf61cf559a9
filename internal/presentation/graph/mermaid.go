package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/quiztree/pkg/domain"
)

// FinishNodeID is the synthetic node every terminal option points to.
const FinishNodeID = "__finish"

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
	Finished     bool
}

// OverlayFromState builds the overlay of a run.
func OverlayFromState(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: append([]string(nil), state.History...),
		CurrentNode:  state.CurrentQuestionID,
		Finished:     state.Finished,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the question graph.
// It applies semantic styling:
// - Start question: ([Stadium])
// - Question: [/Parallelogram/]
// - Finish: ((Circle))
// Edges are labelled with the option label. Overlay styles (visited/current)
// are applied if an overlay is provided.
func GenerateMermaid(g *domain.QuestionGraph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	finishUsed := false
	for _, q := range g.Questions() {
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[/", "/]"
		if q.ID == g.Start() {
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(labelFor(q)), closer)

		for _, opt := range q.Options {
			target := FinishNodeID
			if !opt.Ends() {
				target = opt.Next
			} else {
				finishUsed = true
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escapeLabel(opt.Label), sanitizeMermaidID(target))
		}
	}

	if finishUsed {
		fmt.Fprintf(&sb, "    %s((\"finish\"))\n", FinishNodeID)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" && g.Has(id) {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		current := overlay.CurrentNode
		if overlay.Finished && finishUsed {
			current = FinishNodeID
		}
		if current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(current))
		}
	}

	return sb.String()
}

func labelFor(q domain.Question) string {
	prompt := strings.TrimSpace(strings.SplitN(q.Prompt, "\n", 2)[0])
	if prompt == "" {
		return q.ID
	}
	return q.ID + ": " + prompt
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	if id == FinishNodeID {
		return id
	}
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// Mermaid reserves "end" and ids that start with a digit are safer prefixed.
	if s == "end" || (s != "" && s[0] >= '0' && s[0] <= '9') {
		s = "q" + s
	}
	return s
}
