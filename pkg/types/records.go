// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records exchanged between the Zotero client,
// the snapshot store, and the export pipeline.
package types

// AnnotationKind identifies what a Zotero annotation record represents.
type AnnotationKind string

const (
	// KindHighlight is a highlighted passage, optionally with a comment.
	KindHighlight AnnotationKind = "highlight"
	// KindNote is a page-anchored note with no highlighted text.
	KindNote AnnotationKind = "note"
)

// Annotation is one highlight or page note attached to an item's
// attachment. Records are read-only once fetched; dates are carried as
// the verbatim strings the API returned.
type Annotation struct {
	// Key is the annotation's own item key.
	Key string `json:"key" yaml:"key"`

	// ParentKey is the key of the attachment the annotation lives on.
	ParentKey string `json:"parent_key" yaml:"parent_key"`

	// Kind distinguishes highlights from page notes.
	Kind AnnotationKind `json:"kind" yaml:"kind"`

	// Text is the highlighted passage (empty for page notes).
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Comment is the user's comment on the annotation.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// PageLabel is the page label shown in the reader (not necessarily numeric).
	PageLabel string `json:"page_label,omitempty" yaml:"page_label,omitempty"`

	// DateAdded and DateModified are the creation and modification
	// timestamps as returned by the API.
	DateAdded    string `json:"date_added,omitempty" yaml:"date_added,omitempty"`
	DateModified string `json:"date_modified,omitempty" yaml:"date_modified,omitempty"`

	// Tags lists the annotation's tags in source order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Note is a free-form rich-text memo attached to an item, distinct from
// a page-anchored annotation comment.
type Note struct {
	// Key is the note's own item key.
	Key string `json:"key" yaml:"key"`

	// ParentKey is the key of the item the note is attached to.
	ParentKey string `json:"parent_key" yaml:"parent_key"`

	// HTML is the note body in Zotero's HTML-like markup.
	HTML string `json:"html" yaml:"html"`

	// Tags lists the note's tags in source order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Creator is one author/editor entry on an item's descriptive record.
// Personal creators carry FirstName/LastName; institutional creators
// carry only Name.
type Creator struct {
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

// DisplayName renders the creator as shown in author lines.
func (c Creator) DisplayName() string {
	if c.FirstName == "" && c.LastName == "" {
		return c.Name
	}
	return c.FirstName + " " + c.LastName
}

// Item is the descriptive record of a library item (or attachment).
type Item struct {
	// Key is the item key.
	Key string `json:"key" yaml:"key"`

	// ParentKey is the key of the top-level parent item, empty for
	// items that are themselves top-level.
	ParentKey string `json:"parent_key,omitempty" yaml:"parent_key,omitempty"`

	// Title is the item title.
	Title string `json:"title" yaml:"title"`

	// Date is the publication date string as entered in the library.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Creators lists the item's creators in source order.
	Creators []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`

	// Tags lists the item's tags in source order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ItemMetadata holds the descriptive fields rendered into a document's
// Metadata section. Resolved transiently per output item.
type ItemMetadata struct {
	// Title is required; an item without one fails export.
	Title string

	// Date is empty for standalone items (only parents contribute a date).
	Date string

	// Authors lists creator display names in source order.
	Authors []string

	// Tags lists the item's tags in source order.
	Tags []string
}
