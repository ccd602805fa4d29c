// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jeranaias/mio/internal/conversation"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

var htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var htmlTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; background: #0f0d14; color: #ece8f4; font: 16px/1.5 Georgia, serif; }
h1 { color: #d4af37; }
.turn { margin: 1rem 0; padding: .75rem 1rem; border-radius: .75rem; background: #231e2e; }
.turn.user { background: #3b2a5c; }
.speaker { font-size: .75rem; color: #9a93a8; }
strong { color: #d4af37; }
footer { margin-top: 2rem; font-size: .8rem; color: #9a93a8; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Turns}}<section class="turn {{.Role}}">
<div class="speaker">{{.Speaker}}</div>
{{.Body}}
</section>
{{end}}<footer>Exported from Mio on {{.Exported}}</footer>
</body>
</html>
`))

type htmlTurn struct {
	Role    string
	Speaker string
	Body    template.HTML
}

// HTMLExporter exports transcripts to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	return &HTMLExporter{options: opts.normalize()}
}

// Export renders a transcript as HTML. Model turns go through Markdown;
// raw HTML inside any turn is escaped.
func (e *HTMLExporter) Export(turns []conversation.Turn) ([]byte, error) {
	turns = finished(turns)
	if len(turns) == 0 {
		return nil, ErrNoTurns
	}

	views := make([]htmlTurn, 0, len(turns))
	for _, t := range turns {
		text, _ := t.Text()
		v := htmlTurn{Role: string(t.Role), Speaker: t.Role.DisplayName()}
		if t.Role == conversation.RoleModel {
			var buf bytes.Buffer
			if err := htmlMarkdown.Convert([]byte(text), &buf); err != nil {
				return nil, err
			}
			v.Body = template.HTML(buf.String())
		} else {
			v.Body = template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
		}
		views = append(views, v)
	}

	var out bytes.Buffer
	err := htmlTemplate.Execute(&out, map[string]any{
		"Title":    e.options.Title,
		"Turns":    views,
		"Exported": e.options.Now().Format("January 2, 2006 at 3:04 PM"),
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}
