// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "zotmd/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LibraryConfig identifies the Zotero library to read and how to
// authenticate against it.
type LibraryConfig struct {
	HTTPConfig `yaml:",inline"`

	// LibraryID is the numeric user or group library identifier.
	LibraryID string `json:"library_id" yaml:"library_id"`

	// LibraryType is "user" for a personal library or "group" for a
	// shared one.
	LibraryType string `json:"library_type" yaml:"library_type"`

	// APIKey authenticates requests (https://www.zotero.org/settings/keys).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds retry attempts on rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RenderConfig holds the Markdown formatting options.
type RenderConfig struct {
	// ConvertTagsToInternalLinks renders tags as [[tag]] wiki links
	// instead of #hashtags.
	ConvertTagsToInternalLinks bool `json:"convert_tags_to_internal_links" yaml:"convert_tags_to_internal_links"`

	// NoLinkTags lists tags rendered as hashtags even when
	// ConvertTagsToInternalLinks is set.
	NoLinkTags []string `json:"no_link_tags,omitempty" yaml:"no_link_tags,omitempty"`

	// IncludeHighlightDate appends the highlight's date to each entry.
	IncludeHighlightDate bool `json:"include_highlight_date" yaml:"include_highlight_date"`

	// HideHighlightDateInPreview wraps the date in an HTML comment so
	// rendered previews do not show it.
	HideHighlightDateInPreview bool `json:"hide_highlight_date_in_preview" yaml:"hide_highlight_date_in_preview"`
}

// DefaultRenderConfig returns the shipped formatting defaults.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ConvertTagsToInternalLinks: true,
		IncludeHighlightDate:       true,
		HideHighlightDateInPreview: true,
	}
}

// ExportConfig holds settings for a batch export run.
type ExportConfig struct {
	// OutputDir is where per-item Markdown files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ReportPath is where the failure report is written when any item
	// fails (default "failed_items.txt").
	ReportPath string `json:"report_path" yaml:"report_path"`

	// IncludeAnnotations and IncludeNotes select which record types are
	// fetched and rendered.
	IncludeAnnotations bool `json:"include_annotations" yaml:"include_annotations"`
	IncludeNotes       bool `json:"include_notes" yaml:"include_notes"`

	// IncludeNoteOnlyItems additionally exports items that have notes
	// but no annotations. Off by default.
	IncludeNoteOnlyItems bool `json:"include_note_only_items" yaml:"include_note_only_items"`
}

// DefaultExportConfig returns the shipped export defaults.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir:          "zotero_output",
		ReportPath:         "failed_items.txt",
		IncludeAnnotations: true,
		IncludeNotes:       true,
	}
}

// SnapshotConfig locates the local library snapshot database.
type SnapshotConfig struct {
	// Path is the SQLite database file (default "zotmd.db").
	Path string `json:"path" yaml:"path"`
}
