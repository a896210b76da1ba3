// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/zotmd/pkg/types"
)

// BuildDocument assembles the per-item Markdown document: a title
// heading, the Metadata list, then Notes and Highlights sections. A
// section with no entries is omitted entirely.
func BuildDocument(meta types.ItemMetadata, cfg types.RenderConfig, notes, highlights []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", meta.Title)

	b.WriteString("\n## Metadata\n\n")
	for _, line := range FormatMetadata(meta, cfg) {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	if len(notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		writeEntries(&b, notes)
	}
	if len(highlights) > 0 {
		b.WriteString("\n## Highlights\n\n")
		writeEntries(&b, highlights)
	}
	return b.String()
}

// writeEntries emits each entry as a top-level bullet with its
// sub-entries nested one level down. Multi-line primaries (converted
// note bodies) keep their continuation lines indented under the bullet.
func writeEntries(b *strings.Builder, entries []Entry) {
	for _, e := range entries {
		for i, line := range strings.Split(e.Primary, "\n") {
			if i == 0 {
				fmt.Fprintf(b, "- %s\n", line)
				continue
			}
			fmt.Fprintf(b, "  %s\n", line)
		}
		for _, sub := range e.Sub {
			fmt.Fprintf(b, "  - %s\n", sub)
		}
	}
}
