// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zotmd/pkg/types"
)

// fakeSource serves canned records; itemErrs injects per-key fetch
// failures.
type fakeSource struct {
	annotations []types.Annotation
	notes       []types.Note
	items       map[string]types.Item
	itemErrs    map[string]error
	annErr      error
}

func (f *fakeSource) Annotations(context.Context) ([]types.Annotation, error) {
	return f.annotations, f.annErr
}

func (f *fakeSource) Notes(context.Context) ([]types.Note, error) {
	return f.notes, nil
}

func (f *fakeSource) Item(_ context.Context, key string) (types.Item, error) {
	if err, ok := f.itemErrs[key]; ok {
		return types.Item{}, err
	}
	it, ok := f.items[key]
	if !ok {
		return types.Item{}, fmt.Errorf("item %s not found", key)
	}
	return it, nil
}

// passthroughConverter returns note HTML unchanged.
type passthroughConverter struct{}

func (passthroughConverter) Convert(html string) (string, error) { return html, nil }

func testExporter(t *testing.T, src Source) *Exporter {
	t.Helper()
	cfg := types.DefaultExportConfig()
	cfg.OutputDir = t.TempDir()
	renderCfg := types.DefaultRenderConfig()
	renderCfg.HideHighlightDateInPreview = false
	return New(src, passthroughConverter{}, renderCfg, cfg)
}

func libraryFixture() *fakeSource {
	return &fakeSource{
		annotations: []types.Annotation{
			{
				Key: "ANN1", ParentKey: "ATT1", Kind: types.KindHighlight,
				Text: "first passage", PageLabel: "3", DateAdded: "2023-01-01T00:00:00Z",
			},
			{
				Key: "ANN2", ParentKey: "ATT1", Kind: types.KindHighlight,
				Text: "second passage", PageLabel: "9", DateAdded: "2023-01-02T00:00:00Z",
			},
		},
		notes: []types.Note{
			{Key: "NOTE1", ParentKey: "ITEM1", HTML: "remember the baseline"},
		},
		items: map[string]types.Item{
			"ATT1": {Key: "ATT1", ParentKey: "ITEM1"},
			"ITEM1": {
				Key: "ITEM1", Title: "My Paper", Date: "2021-03",
				Creators: []types.Creator{{FirstName: "Ada", LastName: "Lovelace"}},
				Tags:     []string{"ml"},
			},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	src := libraryFixture()
	e := testExporter(t, src)

	var out bytes.Buffer
	summary, err := e.Run(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, e.Failures())
	assert.Contains(t, out.String(), "File 1 of 1")
	assert.Contains(t, out.String(), "All items were successfully created.")

	data, err := os.ReadFile(filepath.Join(e.Cfg.OutputDir, "My Paper.md"))
	require.NoError(t, err)
	doc := string(data)

	// Section order: Metadata, then Notes, then Highlights.
	metaIdx := strings.Index(doc, "## Metadata")
	notesIdx := strings.Index(doc, "## Notes")
	hlIdx := strings.Index(doc, "## Highlights")
	require.True(t, metaIdx >= 0 && notesIdx > metaIdx && hlIdx > notesIdx, "bad section order:\n%s", doc)

	assert.Contains(t, doc, "# My Paper")
	assert.Contains(t, doc, "- Author: Ada Lovelace")
	assert.Contains(t, doc, "- Date: 2021-03")
	assert.Equal(t, 1, strings.Count(doc[notesIdx:hlIdx], "\n- "), "notes section should have one entry")
	assert.Equal(t, 2, strings.Count(doc[hlIdx:], "\n- "), "highlights section should have two entries")
	assert.Contains(t, doc, "first passage (Page 3) (Highlighted on 2023-01-01T00:00:00Z)")
}

func TestRunParentFetchFailureDoesNotHaltBatch(t *testing.T) {
	src := libraryFixture()
	// Add a second attachment whose parent record cannot be fetched.
	src.annotations = append(src.annotations, types.Annotation{
		Key: "ANN3", ParentKey: "ATT2", Kind: types.KindHighlight, Text: "x", PageLabel: "1",
	})
	src.items["ATT2"] = types.Item{Key: "ATT2", ParentKey: "GONE"}
	src.itemErrs = map[string]error{"GONE": errors.New("HTTP 500")}

	e := testExporter(t, src)

	var out bytes.Buffer
	summary, err := e.Run(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, e.Failures(), 1)
	assert.Equal(t, "ATT2", e.Failures()[0].ItemKey)

	// The healthy item still produced its file.
	_, statErr := os.Stat(filepath.Join(e.Cfg.OutputDir, "My Paper.md"))
	assert.NoError(t, statErr)
}

func TestRunMissingTitleIsTypedFailure(t *testing.T) {
	src := libraryFixture()
	item := src.items["ITEM1"]
	item.Title = ""
	src.items["ITEM1"] = item

	e := testExporter(t, src)

	summary, err := e.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, e.Failures(), 1)
	assert.ErrorIs(t, e.Failures()[0].Err, ErrMissingTitle)
	// Without a title the filename falls back to the item key.
	assert.Equal(t, "ATT1", e.Failures()[0].Filename)
}

func TestRunWriteFailureIsTypedFailure(t *testing.T) {
	src := libraryFixture()
	e := testExporter(t, src)

	// A directory squatting on the output filename forces a write error.
	require.NoError(t, os.Mkdir(filepath.Join(e.Cfg.OutputDir, "My Paper.md"), 0o755))

	summary, err := e.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, e.Failures(), 1)

	var writeErr *WriteError
	assert.ErrorAs(t, e.Failures()[0].Err, &writeErr)
	assert.Equal(t, "My Paper.md", e.Failures()[0].Filename)
}

func TestRunUnknownAnnotationKindIsWarning(t *testing.T) {
	src := libraryFixture()
	src.annotations = append(src.annotations, types.Annotation{
		Key: "ANNX", ParentKey: "ATT1", Kind: "image",
	})

	e := testExporter(t, src)

	var out bytes.Buffer
	summary, err := e.Run(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Warnings)
	assert.Contains(t, out.String(), "warning: skipping annotation")
	assert.Contains(t, out.String(), "ANNX")
}

func TestRunBulkRetrievalFailureAborts(t *testing.T) {
	src := libraryFixture()
	src.annErr = errors.New("HTTP 403")

	e := testExporter(t, src)

	_, err := e.Run(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving annotations")
}

func TestRunNoteOnlyItems(t *testing.T) {
	src := &fakeSource{
		notes: []types.Note{
			{Key: "NOTE1", ParentKey: "ITEM9", HTML: "standalone thought", Tags: []string{"idea"}},
		},
		items: map[string]types.Item{
			"ITEM9": {Key: "ITEM9", Title: "Lonely Item", Tags: []string{"misc"}},
		},
	}

	// Default behavior skips parents that have no annotations.
	e := testExporter(t, src)
	summary, err := e.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())

	// With the flag on, the note-only parent is exported too.
	e = testExporter(t, src)
	e.Cfg.IncludeNoteOnlyItems = true

	var out bytes.Buffer
	summary, err = e.Run(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Written)
	assert.Contains(t, out.String(), "Note-only file 1 of 1")

	data, err := os.ReadFile(filepath.Join(e.Cfg.OutputDir, "Lonely Item.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Notes")
	assert.Contains(t, string(data), "standalone thought")
	assert.NotContains(t, string(data), "## Highlights")
}

func TestRunNoteOnlyPassSkipsCoveredParents(t *testing.T) {
	src := libraryFixture()
	e := testExporter(t, src)
	e.Cfg.IncludeNoteOnlyItems = true

	summary, err := e.Run(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	// ITEM1's notes already rode along with its annotations; it must not
	// be exported a second time.
	assert.Equal(t, 1, summary.Written)
}
