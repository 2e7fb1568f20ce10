// Package report renders terminal summaries of a project analysis.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ariadne/internal/engine/analyzer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A78BFA")).
			Bold(true)
)

// maxListed caps how many unresolved references and file errors are
// printed; the totals always show the full counts.
const maxListed = 20

// Render produces the human-readable summary for one analysis run.
func Render(pa *analyzer.ProjectAnalysis) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ariadne Analysis"))
	b.WriteString("\n")

	files := pa.Project.Files()
	byLanguage := make(map[string]int)
	for _, fa := range files {
		byLanguage[fa.Index.Language]++
	}
	langs := make([]string, 0, len(byLanguage))
	for l := range byLanguage {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	langParts := make([]string, 0, len(langs))
	for _, l := range langs {
		langParts = append(langParts, fmt.Sprintf("%s=%d", l, byLanguage[l]))
	}

	resolvedCount := 0
	for _, rs := range pa.Resolved {
		resolvedCount += len(rs)
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"%d files (%s) | %d definitions | %d references | %d types in hierarchy",
		len(files), strings.Join(langParts, ", "),
		pa.DefinitionCount(), pa.ReferenceCount(), pa.Hierarchy.Size())))
	b.WriteString("\n")

	if len(pa.Unresolved) == 0 && len(pa.Errors) == 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("All clean: %d references resolved", resolvedCount)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s | %s | %s\n",
		successStyle.Render(fmt.Sprintf("%d resolved", resolvedCount)),
		warnStyle.Render(fmt.Sprintf("%d unresolved", len(pa.Unresolved))),
		errorStyle.Render(fmt.Sprintf("%d file errors", len(pa.Errors)))))

	if len(pa.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("File errors"))
		b.WriteString("\n")
		for i, fe := range pa.Errors {
			if i == maxListed {
				b.WriteString(statusStyle.Render(fmt.Sprintf("  ... and %d more\n", len(pa.Errors)-maxListed)))
				break
			}
			label := "error"
			if fe.IsDuplicateExport() {
				label = "duplicate export"
			}
			b.WriteString(fmt.Sprintf("  %s %s: %v\n", errorStyle.Render(label), fe.Path, fe.Err))
		}
	}

	if len(pa.Unresolved) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Unresolved references"))
		b.WriteString("\n")
		for i, u := range pa.Unresolved {
			if i == maxListed {
				b.WriteString(statusStyle.Render(fmt.Sprintf("  ... and %d more\n", len(pa.Unresolved)-maxListed)))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s in %s:%d\n",
				warnStyle.Render(string(u.Reference.Kind)),
				u.Reference.Name, u.FilePath, u.Reference.Location.StartLine))
		}
	}

	return b.String()
}
