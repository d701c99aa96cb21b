package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/formwork/pkg/model"
)

// GraphOverlay marks the route a session took through the form.
type GraphOverlay struct {
	VisitedPages []string
	CurrentPage  string
}

// GenerateMermaid produces a Mermaid flowchart of the page graph of m.
// It applies semantic styling:
// - Start page: ((Circle))
// - Page collecting answers: [/Parallelogram/]
// - Content page: [Rectangle]
// - Pages with a condition are drawn dashed.
// Edge labels name the guard condition. Pages without edges lead to the
// default next path, drawn as a ([Stadium]).
func GenerateMermaid(m *model.Model, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var conditional []string
	defaultUsed := false
	for _, page := range m.Pages() {
		safeID := sanitizeMermaidID(page.Path)

		opener, closer := "[", "]"
		switch {
		case samePath(page.Path, m.StartPage()):
			opener, closer = "((", "))"
		case page.HasFormFields():
			opener, closer = "[/", "/]"
		}

		label := page.Path
		if title := page.Title.In(""); title != "" {
			label = fmt.Sprintf("%s <br/> %s", page.Path, escape(title))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if page.Condition != "" {
			conditional = append(conditional, safeID)
		}

		edges := page.Edges()
		if len(edges) == 0 {
			defaultUsed = true
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(m.DefaultNextPath())))
			continue
		}
		for _, e := range edges {
			arrow := "-->"
			if guard := page.Guard(e); guard != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escape(guard))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(e.Path)))
		}
	}

	if defaultUsed {
		if _, isPage := m.Page(m.DefaultNextPath()); !isPage {
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", sanitizeMermaidID(m.DefaultNextPath()), m.DefaultNextPath()))
		}
	}

	if len(conditional) > 0 {
		sb.WriteString("    classDef conditional stroke-dasharray: 5 5;\n")
		sb.WriteString(fmt.Sprintf("    class %s conditional;\n", strings.Join(conditional, ",")))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps the overlay readable on light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, p := range overlay.VisitedPages {
			safeID := sanitizeMermaidID(p)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentPage != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentPage)))
		}
	}

	return sb.String()
}

// Route lists the pages reached from the start page by following
// Page.Route for the given answers, stopping at the first path that is not
// a page or was already visited.
func Route(m *model.Model, state map[string]any) []string {
	var route []string
	seen := make(map[string]bool)

	page, ok := m.Page(m.StartPage())
	for ok && !seen[page.Path] {
		seen[page.Path] = true
		route = append(route, page.Path)
		next, err := page.Route(state)
		if err != nil {
			break
		}
		page, ok = m.Page(next)
	}
	return route
}

func samePath(a, b string) bool {
	return strings.Trim(a, "/") == strings.Trim(b, "/")
}

// escape keeps double quotes from closing a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.Trim(id, "/")
	if s == "" {
		s = "root"
	}
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	// "end" is a Mermaid keyword.
	if strings.EqualFold(s, "end") {
		s += "_page"
	}
	return s
}
