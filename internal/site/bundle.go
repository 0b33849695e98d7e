// Package site packages generated portfolio code into previewable and downloadable forms.
package site

import "strings"

// File names used inside the packaged site
const (
	IndexFile  = "index.html"
	StyleFile  = "style.css"
	ScriptFile = "script.js"

	// DefaultArchiveName is the download name of the packaged site
	DefaultArchiveName = "my_portfolio.zip"
)

const (
	stylesheetLink = `<link rel="stylesheet" href="` + StyleFile + `">`
	scriptTag      = `<script src="` + ScriptFile + `"></script>`
)

// Bundle holds the three generated code blobs. Any of them may be empty,
// but a bundle without HTML is never handed out by the pipeline.
type Bundle struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Empty reports whether the bundle has no HTML
func (b Bundle) Empty() bool {
	return b.HTML == ""
}

// LinkAssets inserts a stylesheet link before the first </head> and a script
// tag before the first </body>. Missing closing tags leave the HTML unchanged.
// The rewrite is textual and not DOM aware.
func LinkAssets(html string) string {
	html = insertBefore(html, "</head>", stylesheetLink)
	return insertBefore(html, "</body>", scriptTag)
}

func insertBefore(s, marker, snippet string) string {
	i := strings.Index(s, marker)
	if i < 0 {
		return s
	}
	return s[:i] + snippet + s[i:]
}

// Preview combines the bundle into a single self-contained document
func Preview(b Bundle) string {
	var sb strings.Builder
	sb.Grow(len(b.HTML) + len(b.CSS) + len(b.JS) + 32)
	sb.WriteString("<style>")
	sb.WriteString(b.CSS)
	sb.WriteString("</style>")
	sb.WriteString(b.HTML)
	sb.WriteString("<script>")
	sb.WriteString(b.JS)
	sb.WriteString("</script>")
	return sb.String()
}

// Files returns the packaged file contents keyed by name, in archive order
func Files(b Bundle) []File {
	return []File{
		{Name: IndexFile, Content: LinkAssets(b.HTML)},
		{Name: StyleFile, Content: b.CSS},
		{Name: ScriptFile, Content: b.JS},
	}
}

// File is one named entry of a packaged site
type File struct {
	Name    string
	Content string
}
