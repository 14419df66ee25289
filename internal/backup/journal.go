// ABOUTME: Renders scribbles and daily check-in entries into a single HTML journal
// ABOUTME: Bodies are treated as markdown and converted with goldmark

package backup

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/tendril-app/tendril/internal/protocol"
)

const journalHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Journal</title>
<style>
body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; }
article { border-bottom: 1px solid #ddd; padding: 1rem 0; }
h2 { font-size: 1rem; color: #666; }
.tags { color: #888; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Journal</h1>
`

// RenderJournal produces a standalone HTML page from the journal-ish
// parts of an export: daily check-in entries first, then scribbles,
// both newest first. Bodies are markdown.
func RenderJournal(doc *protocol.ExportDocument) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(journalHeader)

	entries := make([]protocol.CheckinEntry, len(doc.CheckinEntries))
	copy(entries, doc.CheckinEntries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })

	if len(entries) > 0 {
		buf.WriteString("<section>\n<h1>Daily entries</h1>\n")
		for _, e := range entries {
			buf.WriteString("<article>\n")
			fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(e.Date))
			if err := goldmark.Convert([]byte(e.Body), &buf); err != nil {
				return nil, fmt.Errorf("rendering entry %s: %w", e.Date, err)
			}
			buf.WriteString("</article>\n")
		}
		buf.WriteString("</section>\n")
	}

	scribbles := make([]protocol.Scribble, len(doc.Scribbles))
	copy(scribbles, doc.Scribbles)
	sort.Slice(scribbles, func(i, j int) bool { return scribbles[i].CreatedAt > scribbles[j].CreatedAt })

	if len(scribbles) > 0 {
		buf.WriteString("<section>\n<h1>Scribbles</h1>\n")
		for _, s := range scribbles {
			buf.WriteString("<article>\n")
			fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(s.CreatedAt))
			if err := goldmark.Convert([]byte(s.Body), &buf); err != nil {
				return nil, fmt.Errorf("rendering scribble %s: %w", s.ID, err)
			}
			if len(s.Tags) > 0 {
				fmt.Fprintf(&buf, "<p class=\"tags\">%s</p>\n",
					html.EscapeString(strings.Join(s.Tags, ", ")))
			}
			buf.WriteString("</article>\n")
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
