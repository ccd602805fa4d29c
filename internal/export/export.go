// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a transcript to one output format.
type Exporter interface {
	// Export renders the finished turns.
	Export(turns []conversation.Turn) ([]byte, error)

	// FileExtension returns the file extension, including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ErrNoTurns is returned when there is nothing to export.
var ErrNoTurns = errors.New("conversation has no messages")

// ParseFormat converts a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be md, json or html", s)
}

// FormatForPath picks a format from a file extension. Unknown extensions
// fall back to Markdown.
func FormatForPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatMarkdown
	}
	return f
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// Title heads the document. Default: "Conversation with Mio"
	Title string

	// IncludeMetadata adds a front matter block with export time and counts.
	IncludeMetadata bool

	// Now stamps the export. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		Title:           "Conversation with Mio",
		IncludeMetadata: true,
		Now:             time.Now,
	}
}

func (o *Options) normalize() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.Title == "" {
		out.Title = DefaultOptions().Title
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return &out
}

// New returns the exporter for f.
func New(f Format, opts *Options) (Exporter, error) {
	switch f {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatHTML:
		return NewHTMLExporter(opts), nil
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Markdown writes turns to w as Markdown.
func Markdown(turns []conversation.Turn, w io.Writer) error {
	return write(NewMarkdownExporter(nil), turns, w)
}

// JSON writes turns to w as a JSON document.
func JSON(turns []conversation.Turn, w io.Writer) error {
	return write(NewJSONExporter(nil), turns, w)
}

// ToFile exports turns to path in format f. An empty path generates a
// timestamped file name in the current directory. Returns the written path.
func ToFile(turns []conversation.Turn, f Format, path string) (string, error) {
	exporter, err := New(f, nil)
	if err != nil {
		return "", err
	}

	content, err := exporter.Export(turns)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if path == "" {
		path = DefaultFilename(turns, exporter.FileExtension(), time.Now())
	}
	if err := util.WriteFileAtomic(path, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// DefaultFilename builds "mio_<first prompt>_<timestamp><ext>".
func DefaultFilename(turns []conversation.Turn, ext string, now time.Time) string {
	topic := ""
	for _, t := range turns {
		if t.Role != conversation.RoleUser {
			continue
		}
		if text, ok := t.Text(); ok {
			topic = text
			break
		}
	}
	return fmt.Sprintf("mio_%s_%s%s", sanitizeFilename(topic), now.Format("20060102_150405"), ext)
}

func write(e Exporter, turns []conversation.Turn, w io.Writer) error {
	content, err := e.Export(turns)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// finished drops pending turns.
func finished(turns []conversation.Turn) []conversation.Turn {
	out := make([]conversation.Turn, 0, len(turns))
	for _, t := range turns {
		if _, ok := t.Text(); ok {
			out = append(out, t)
		}
	}
	return out
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = util.TruncateWidth(util.SingleLine(strings.TrimSpace(s)), 40)

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}
