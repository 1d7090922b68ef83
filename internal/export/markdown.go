package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/gorewood/gitfeed/internal/output"
	"github.com/gorewood/gitfeed/internal/timeline"
)

const dayLayout = "2006-01-02"

// FormatMarkdown formats the views as a markdown document grouped by day.
// Views are expected newest first, as the timeline produces them.
func FormatMarkdown(views []timeline.View, renderer timeline.Renderer) string {
	var builder strings.Builder

	writeFrontmatter(&builder, views)
	writeDays(&builder, views, renderer)

	return builder.String()
}

// writeFrontmatter writes the YAML frontmatter section.
func writeFrontmatter(builder *strings.Builder, views []timeline.View) {
	builder.WriteString("---\n")
	builder.WriteString("schema: gitfeed.export/v1\n")
	fmt.Fprintf(builder, "events: %d\n", len(views))
	if len(views) > 0 {
		fmt.Fprintf(builder, "from: %s\n", views[len(views)-1].Time.UTC().Format(dayLayout))
		fmt.Fprintf(builder, "to: %s\n", views[0].Time.UTC().Format(dayLayout))
	}
	builder.WriteString("---\n")
}

// writeDays writes one section per day with a bullet per event.
func writeDays(builder *strings.Builder, views []timeline.View, renderer timeline.Renderer) {
	day := ""
	for _, view := range views {
		if d := view.Time.UTC().Format(dayLayout); d != day {
			day = d
			fmt.Fprintf(builder, "\n## %s\n\n", day)
		}
		builder.WriteString(formatLine(view, renderer))
	}
}

// formatLine renders one event as a markdown bullet.
func formatLine(view timeline.View, renderer timeline.Renderer) string {
	if view.Kind != "commit" {
		if view.URL != "" {
			return fmt.Sprintf("- [%s](%s)\n", view.Title, view.URL)
		}
		return fmt.Sprintf("- %s\n", view.Title)
	}

	link := fmt.Sprintf("`%s%s`", timeline.LinkScheme, view.Key)
	if url, ok := renderer.ResolveLink(timeline.LinkScheme + view.Hash); ok {
		link = fmt.Sprintf("[%s](%s)", view.Key, url)
	}

	line := fmt.Sprintf("- %s %s", link, escapeMarkdown(view.Description))
	if view.Author != "" {
		line += fmt.Sprintf(" (%s)", escapeMarkdown(view.Author))
	}
	return line + "\n"
}

// markdownEscaper keeps subjects from opening emphasis, code or HTML.
// Square brackets are left alone so branch decorations read naturally.
var markdownEscaper = strings.NewReplacer(
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// WriteMarkdownFile writes the markdown document to path.
func WriteMarkdownFile(views []timeline.View, renderer timeline.Renderer, path string) error {
	content := FormatMarkdown(views, renderer)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("failed to write file %s", path), err)
	}
	return nil
}
