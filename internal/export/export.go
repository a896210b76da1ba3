// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/zotmd/internal/render"
	"github.com/pdiddy/zotmd/pkg/types"
)

// Source supplies the library records an export reads. The live API
// client and the local snapshot store both implement it.
type Source interface {
	// Annotations returns every annotation record, in retrieval order.
	Annotations(ctx context.Context) ([]types.Annotation, error)

	// Notes returns every note record, in retrieval order.
	Notes(ctx context.Context) ([]types.Note, error)

	// Item returns a single item's descriptive record by key.
	Item(ctx context.Context, key string) (types.Item, error)
}

// ErrMissingTitle reports an item whose descriptive record lacks the one
// required field. The affected item fails; the batch continues.
var ErrMissingTitle = errors.New("item has no title")

// WriteError wraps a filesystem failure while writing a document, so
// callers can tell I/O failures apart from metadata failures.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("writing %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Failure records one item whose document could not be produced.
type Failure struct {
	// Filename is the intended output filename, or the item key when
	// the failure happened before a filename was derived.
	Filename string
	ItemKey  string
	Err      error
}

// Summary holds counts from a batch export run.
type Summary struct {
	// Written counts documents successfully written.
	Written int
	// Failed counts items recorded in the failure list.
	Failed int
	// Warnings counts skipped records (unknown annotation kinds, note
	// bodies that failed conversion).
	Warnings int
}

// Total returns the number of items processed.
func (s Summary) Total() int { return s.Written + s.Failed }

// HasFailures reports whether any item failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Exporter drives one batch run. All collaborators are injected; the
// zero value is not usable.
type Exporter struct {
	Source Source
	Conv   render.HTMLConverter
	Render types.RenderConfig
	Cfg    types.ExportConfig

	failures []Failure
}

// New builds an Exporter over the given record source.
func New(src Source, conv render.HTMLConverter, renderCfg types.RenderConfig, cfg types.ExportConfig) *Exporter {
	return &Exporter{Source: src, Conv: conv, Render: renderCfg, Cfg: cfg}
}

// Failures returns the failure list in occurrence order.
func (e *Exporter) Failures() []Failure { return e.failures }

// Run executes the batch: fetch and group all records, then render and
// write one document per parent item, reporting progress to w. Bulk
// retrieval errors abort the run; per-item errors are recorded and the
// run continues.
func (e *Exporter) Run(ctx context.Context, w io.Writer) (Summary, error) {
	var annotations []types.Annotation
	var notes []types.Note
	var err error

	if e.Cfg.IncludeAnnotations {
		annotations, err = e.Source.Annotations(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("retrieving annotations: %w", err)
		}
	}
	if e.Cfg.IncludeNotes {
		notes, err = e.Source.Notes(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("retrieving notes: %w", err)
		}
	}

	annIdx := GroupByParent(annotations, func(a types.Annotation) string { return a.ParentKey })
	noteIdx := GroupByParent(notes, func(n types.Note) string { return n.ParentKey })

	if err := os.MkdirAll(e.Cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	var summary Summary

	// Annotation parents are attachment keys; the note index is keyed by
	// the top-level item. Remember which top-level items the annotation
	// pass covered so the note-only pass does not repeat them.
	covered := make(map[string]bool)

	annKeys := annIdx.Keys()
	for i, key := range annKeys {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}
		fmt.Fprintf(w, "File %d of %d ...\n", i+1, len(annKeys))
		e.exportOne(ctx, key, annIdx.Group(key), noteIdx, covered, &summary, w)
	}

	if e.Cfg.IncludeNoteOnlyItems {
		var pending []string
		for _, key := range noteIdx.Keys() {
			if !covered[key] {
				pending = append(pending, key)
			}
		}
		for i, key := range pending {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			default:
			}
			fmt.Fprintf(w, "Note-only file %d of %d ...\n", i+1, len(pending))
			e.exportOne(ctx, key, nil, noteIdx, covered, &summary, w)
		}
	}

	e.printOutcome(w, summary)
	return summary, nil
}

// exportOne processes a single parent key: fetch the item, locate its
// top-level parent's note group, render, and write. Failures are
// appended to the failure list.
func (e *Exporter) exportOne(ctx context.Context, itemKey string, annotations []types.Annotation, noteIdx *Index[types.Note], covered map[string]bool, summary *Summary, w io.Writer) {
	item, err := e.Source.Item(ctx, itemKey)
	if err != nil {
		e.recordFailure(w, summary, Failure{Filename: itemKey, ItemKey: itemKey, Err: fmt.Errorf("fetching item: %w", err)})
		return
	}

	topKey := item.ParentKey
	if topKey == "" {
		topKey = item.Key
	}
	covered[topKey] = true

	filename, warnings, err := e.writeItem(ctx, item, annotations, noteIdx.Group(topKey), w)
	summary.Warnings += warnings
	if err != nil {
		e.recordFailure(w, summary, Failure{Filename: filename, ItemKey: itemKey, Err: err})
		return
	}

	summary.Written++
	fmt.Fprintf(w, "File %q (item key %s) was successfully created.\n", filename, itemKey)
}

// writeItem resolves metadata, renders the document, and writes it to
// the output directory. The returned filename is the intended output
// name even when the write fails.
func (e *Exporter) writeItem(ctx context.Context, item types.Item, annotations []types.Annotation, notes []types.Note, w io.Writer) (string, int, error) {
	meta, err := e.resolveMetadata(ctx, item)
	if err != nil {
		return item.Key, 0, err
	}

	warnings := 0

	var noteEntries []render.Entry
	for _, n := range notes {
		entry, err := render.FormatNote(n, e.Conv, e.Render)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping note: %v\n", err)
			warnings++
			continue
		}
		noteEntries = append(noteEntries, entry)
	}

	var highlightEntries []render.Entry
	for _, a := range annotations {
		entry, err := render.FormatAnnotation(a, e.Render)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping annotation: %v\n", err)
			warnings++
			continue
		}
		highlightEntries = append(highlightEntries, entry)
	}

	doc := render.BuildDocument(meta, e.Render, noteEntries, highlightEntries)

	name := render.SanitizeFilename(meta.Title)
	if name == "" {
		name = item.Key
	}
	filename := name + ".md"

	path := filepath.Join(e.Cfg.OutputDir, filename)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return filename, warnings, &WriteError{Path: path, Err: err}
	}
	return filename, warnings, nil
}

// resolveMetadata derives the document metadata. An item with a parent
// takes title, date, authors, and tags from the parent's record; a
// standalone item contributes only its own title and tags.
func (e *Exporter) resolveMetadata(ctx context.Context, item types.Item) (types.ItemMetadata, error) {
	if item.ParentKey != "" {
		parent, err := e.Source.Item(ctx, item.ParentKey)
		if err != nil {
			return types.ItemMetadata{}, fmt.Errorf("fetching parent %s: %w", item.ParentKey, err)
		}
		if parent.Title == "" {
			return types.ItemMetadata{}, fmt.Errorf("%w (key=%s)", ErrMissingTitle, parent.Key)
		}
		authors := make([]string, len(parent.Creators))
		for i, c := range parent.Creators {
			authors[i] = c.DisplayName()
		}
		return types.ItemMetadata{
			Title:   parent.Title,
			Date:    parent.Date,
			Authors: authors,
			Tags:    parent.Tags,
		}, nil
	}

	if item.Title == "" {
		return types.ItemMetadata{}, fmt.Errorf("%w (key=%s)", ErrMissingTitle, item.Key)
	}
	return types.ItemMetadata{Title: item.Title, Tags: item.Tags}, nil
}

func (e *Exporter) recordFailure(w io.Writer, summary *Summary, f Failure) {
	e.failures = append(e.failures, f)
	summary.Failed++
	fmt.Fprintf(w, "File %q (item key %s) failed: %v\n", f.Filename, f.ItemKey, f.Err)
}

func (e *Exporter) printOutcome(w io.Writer, summary Summary) {
	if len(e.failures) == 0 {
		fmt.Fprintln(w, "\nAll items were successfully created.")
		return
	}
	fmt.Fprintf(w, "\n%d item(s) failed to export:\n", len(e.failures))
	for _, f := range e.failures {
		fmt.Fprintf(w, "  %s | %s\n", f.Filename, f.ItemKey)
	}
}
