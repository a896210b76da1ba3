// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render converts annotation, note, and item records into
// Markdown fragments and whole per-item documents.
package render

import "strings"

// filenameSubstitutions is the ordered table applied by SanitizeFilename.
// Order matters: ".pdf" must be rewritten before the bare "." rule sees it.
var filenameSubstitutions = []struct{ old, new string }{
	{".pdf", " "},
	{":", " -- "},
	{"/", "-"},
	{"?", " "},
	{".", " "},
}

// SanitizeTag trims surrounding whitespace and replaces embedded spaces
// with underscores so the tag works as a Markdown hashtag.
func SanitizeTag(tag string) string {
	return strings.ReplaceAll(strings.TrimSpace(tag), " ", "_")
}

// SanitizeFilename strips characters that cause trouble in filenames and
// wiki links. Each substitution runs once over the whole string, in
// table order; the result is not guaranteed legal on every filesystem.
func SanitizeFilename(name string) string {
	out := strings.TrimSpace(name)
	for _, sub := range filenameSubstitutions {
		out = strings.ReplaceAll(out, sub.old, sub.new)
	}
	return out
}
