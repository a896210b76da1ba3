// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/zotmd/pkg/types"
)

// HTMLConverter turns a note's rich-text body into Markdown. The
// production implementation wraps html-to-markdown; tests substitute a
// fake.
type HTMLConverter interface {
	Convert(html string) (string, error)
}

// NewHTMLConverter returns the production HTML-to-Markdown converter.
func NewHTMLConverter() HTMLConverter {
	return htmlConverter{conv: md.NewConverter("", true, nil)}
}

type htmlConverter struct {
	conv *md.Converter
}

func (c htmlConverter) Convert(html string) (string, error) {
	out, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// FormatNote converts a note's body to Markdown. Tags, when present,
// become the single sub-entry.
func FormatNote(n types.Note, conv HTMLConverter, cfg types.RenderConfig) (Entry, error) {
	body, err := conv.Convert(n.HTML)
	if err != nil {
		return Entry{}, fmt.Errorf("converting note %s: %w", n.Key, err)
	}
	e := Entry{Primary: body}
	if len(n.Tags) > 0 {
		e.Sub = append(e.Sub, FormatTags(n.Tags, cfg))
	}
	return e, nil
}
