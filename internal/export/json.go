// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/mio/internal/conversation"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// Document is the JSON export shape. Turns use the same encoding as the web
// view's history field, so an export can be fed back as history.
type Document struct {
	Title     string              `json:"title"`
	Exported  time.Time           `json:"exported"`
	Generator string              `json:"generator"`
	Turns     []conversation.Turn `json:"turns"`
}

// JSONExporter exports transcripts to JSON.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: opts.normalize()}
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(turns []conversation.Turn) ([]byte, error) {
	turns = finished(turns)
	if len(turns) == 0 {
		return nil, ErrNoTurns
	}

	doc := Document{
		Title:     e.options.Title,
		Exported:  e.options.Now().UTC(),
		Generator: "mio",
		Turns:     turns,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
