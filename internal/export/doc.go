// Package export writes rendered timeline events as JSON or markdown.
//
// # JSON Export
//
//	export.FormatJSON(printer, views)        // write to the printer
//	export.WriteJSONFile(views, "feed.json") // write a file
//
// The JSON form is the list of timeline.View values, the same document the
// /timeline endpoint serves.
//
// # Markdown Export
//
//	markdown := export.FormatMarkdown(views, renderer)
//	export.WriteMarkdownFile(views, renderer, "CHANGES.md")
//
// The markdown form groups events by day, newest first. Every commit line
// carries a git:<hash> short link; when the renderer knows the repository
// browser the link is resolved to the commit page.
//
// Example markdown output:
//
//	---
//	schema: gitfeed.export/v1
//	events: 2
//	from: 2026-01-14
//	to: 2026-01-15
//	---
//
//	## 2026-01-15
//
//	- [abc1234](https://github.com/org/project/commit/abc1234...) [main] Fix parser (Alice)
//
//	## 2026-01-14
//
//	- [def5678](https://github.com/org/project/commit/def5678...) Add flag (Bob [Carol])
package export
