// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jeranaias/mio/internal/conversation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// markdown renders model turns. Raw HTML in model output is escaped because
// goldmark's unsafe mode is left off.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// turnView is a turn prepared for the page template.
type turnView struct {
	ID      string
	Role    string
	Speaker string
	Body    template.HTML
	Pending bool
}

// toastView is a notification prepared for the page template.
type toastView struct {
	Title   string
	Message string
}

// pageData is the root value passed to page.html.
type pageData struct {
	Turns       []turnView
	HistoryJSON string
	Mode        string
	Provider    string
	Prompt      string
	FieldError  string
	Toast       *toastView
}

// renderMarkdown converts model output to HTML.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// renderPlain escapes user text and keeps its line breaks.
func renderPlain(src string) template.HTML {
	var buf bytes.Buffer
	for i, line := range strings.Split(src, "\n") {
		if i > 0 {
			buf.WriteString("<br>")
		}
		template.HTMLEscape(&buf, []byte(line))
	}
	return template.HTML(buf.String())
}

// viewTurns prepares a transcript for display. System turns are not shown.
func viewTurns(turns []conversation.Turn) []turnView {
	out := make([]turnView, 0, len(turns))
	for _, t := range turns {
		if t.Role == conversation.RoleSystem {
			continue
		}
		v := turnView{ID: t.ID, Role: string(t.Role), Speaker: t.Role.DisplayName()}
		switch c := t.Content.(type) {
		case conversation.Pending:
			v.Pending = true
		case conversation.Text:
			if t.Role == conversation.RoleModel {
				v.Body = renderMarkdown(string(c))
			} else {
				v.Body = renderPlain(string(c))
			}
		}
		out = append(out, v)
	}
	return out
}

// encodeHistory serializes the finished turns for the hidden form field.
func encodeHistory(turns []conversation.Turn) (string, error) {
	finished := make([]conversation.Turn, 0, len(turns))
	for _, t := range turns {
		if !t.IsPending() {
			finished = append(finished, t)
		}
	}
	data, err := json.Marshal(finished)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeHistory parses the hidden form field. An empty field means a fresh
// conversation and yields nil.
func decodeHistory(raw string) ([]conversation.Turn, error) {
	if raw == "" {
		return nil, nil
	}
	turns := make([]conversation.Turn, 0)
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func renderPage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}
