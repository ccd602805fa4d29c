// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/jeranaias/mio/internal/ui/components"
)

var errNoRenderer = errors.New("markdown renderer unavailable")

// markdownCache memoizes glamour output per source text. Entries are
// dropped when the wrap width changes.
type markdownCache struct {
	dark     bool
	width    int
	renderer components.MarkdownRenderer
	rendered map[string]string
}

func newMarkdownCache(dark bool) *markdownCache {
	return &markdownCache{dark: dark, rendered: make(map[string]string)}
}

// SetWidth rebuilds the renderer when the wrap width changes.
func (c *markdownCache) SetWidth(width int) {
	if width == c.width && c.renderer != nil {
		return
	}
	c.width = width
	c.rendered = make(map[string]string)

	r, err := components.NewMarkdownRenderer(width, c.dark)
	if err != nil {
		c.renderer = nil
		return
	}
	c.renderer = r
}

// Render implements components.MarkdownRenderer.
func (c *markdownCache) Render(in string) (string, error) {
	if out, ok := c.rendered[in]; ok {
		return out, nil
	}
	if c.renderer == nil {
		return "", errNoRenderer
	}
	out, err := c.renderer.Render(in)
	if err != nil {
		return "", err
	}
	c.rendered[in] = out
	return out, nil
}
