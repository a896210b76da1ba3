// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/zotmd/pkg/types"
)

// maxInlineAuthors is the largest author count listed in full; beyond it
// the author line collapses to "first author et al.".
const maxInlineAuthors = 5

// Entry is one rendered list entry: a primary line plus optional nested
// sub-entries (a highlight's comment, a tag list). Every formatter
// returns this shape.
type Entry struct {
	Primary string
	Sub     []string
}

// ErrUnknownKind reports an annotation whose kind is neither a highlight
// nor a page note. Callers log the record key and skip the record.
var ErrUnknownKind = errors.New("unknown annotation kind")

// FormatTags renders a tag list as a single space-joined string. Each
// tag becomes a [[wiki link]] when cfg enables link conversion and the
// tag is not excluded, and a #hashtag (sanitized) otherwise.
func FormatTags(tags []string, cfg types.RenderConfig) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		if cfg.ConvertTagsToInternalLinks && !slices.Contains(cfg.NoLinkTags, tag) {
			parts[i] = "[[" + tag + "]]"
		} else {
			parts[i] = "#" + SanitizeTag(tag)
		}
	}
	return strings.Join(parts, " ")
}

// FormatAnnotation renders one annotation record. Highlights become
// "{text} (Page {label})" with the comment as a sub-entry; page notes
// put the comment on the primary line. Tags, when present, are the last
// sub-entry.
func FormatAnnotation(a types.Annotation, cfg types.RenderConfig) (Entry, error) {
	var e Entry
	switch a.Kind {
	case types.KindNote:
		e.Primary = fmt.Sprintf("%s (Note on Page %s)%s", a.Comment, a.PageLabel, highlightDate(a.DateModified, cfg))
	case types.KindHighlight:
		e.Primary = fmt.Sprintf("%s (Page %s)%s", a.Text, a.PageLabel, highlightDate(a.DateAdded, cfg))
		if a.Comment != "" {
			e.Sub = append(e.Sub, "Comment: "+a.Comment)
		}
	default:
		return Entry{}, fmt.Errorf("%w %q (key=%s)", ErrUnknownKind, a.Kind, a.Key)
	}
	if len(a.Tags) > 0 {
		e.Sub = append(e.Sub, FormatTags(a.Tags, cfg))
	}
	return e, nil
}

// highlightDate renders the trailing date annotation for an entry,
// including the leading separator space. Empty when dates are disabled.
func highlightDate(date string, cfg types.RenderConfig) string {
	if !cfg.IncludeHighlightDate {
		return ""
	}
	text := fmt.Sprintf("(Highlighted on %s)", date)
	if cfg.HideHighlightDateInPreview {
		return " <!--" + text + "-->"
	}
	return " " + text
}

// FormatMetadata renders the Metadata section lines: an author line, a
// date line, and a tag line. Lines whose source field is absent are
// omitted.
func FormatMetadata(md types.ItemMetadata, cfg types.RenderConfig) []string {
	var lines []string
	switch n := len(md.Authors); {
	case n == 1:
		lines = append(lines, "Author: "+md.Authors[0])
	case n > 1 && n <= maxInlineAuthors:
		lines = append(lines, "Authors: "+strings.Join(md.Authors, ", "))
	case n > maxInlineAuthors:
		lines = append(lines, "Authors: "+md.Authors[0]+" et al.")
	}
	if md.Date != "" {
		lines = append(lines, "Date: "+md.Date)
	}
	if len(md.Tags) > 0 {
		lines = append(lines, FormatTags(md.Tags, cfg))
	}
	return lines
}
