// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/zotmd/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.SnapshotConfig{Path: filepath.Join(t.TempDir(), "zotmd.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	annotations := []types.Annotation{
		{Key: "A1", ParentKey: "ATT1", Kind: types.KindHighlight, Text: "one", Tags: []string{"ml"}},
		{Key: "A2", ParentKey: "ATT1", Kind: types.KindNote, Comment: "two"},
		{Key: "A3", ParentKey: "ATT2", Kind: types.KindHighlight, Text: "three"},
	}
	notes := []types.Note{
		{Key: "N1", ParentKey: "ITEM1", HTML: "<p>hi</p>"},
	}
	items := []types.Item{
		{Key: "ATT1", ParentKey: "ITEM1"},
		{Key: "ITEM1", Title: "A Title", Creators: []types.Creator{{FirstName: "A", LastName: "B"}}},
	}

	require.NoError(t, s.Replace(ctx, annotations, notes, items))

	gotAnn, err := s.Annotations(ctx)
	require.NoError(t, err)
	assert.Equal(t, annotations, gotAnn)

	gotNotes, err := s.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes, gotNotes)

	item, err := s.Item(ctx, "ITEM1")
	require.NoError(t, err)
	assert.Equal(t, "A Title", item.Title)

	pulledAt, err := s.PulledAt(ctx)
	require.NoError(t, err)
	assert.False(t, pulledAt.IsZero())
}

func TestStoreReplaceOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx,
		[]types.Annotation{{Key: "OLD", ParentKey: "P"}}, nil, nil))
	require.NoError(t, s.Replace(ctx,
		[]types.Annotation{{Key: "NEW", ParentKey: "P"}}, nil, nil))

	got, err := s.Annotations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NEW", got[0].Key)
}

func TestStoreMissingItem(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Item(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestStoreEmptySnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	annotations, err := s.Annotations(ctx)
	require.NoError(t, err)
	assert.Empty(t, annotations)

	pulledAt, err := s.PulledAt(ctx)
	require.NoError(t, err)
	assert.True(t, pulledAt.IsZero())
}

// pullSource serves canned records for Pull tests.
type pullSource struct {
	annotations []types.Annotation
	notes       []types.Note
	items       map[string]types.Item
}

func (p *pullSource) Annotations(context.Context) ([]types.Annotation, error) {
	return p.annotations, nil
}

func (p *pullSource) Notes(context.Context) ([]types.Note, error) {
	return p.notes, nil
}

func (p *pullSource) Item(_ context.Context, key string) (types.Item, error) {
	it, ok := p.items[key]
	if !ok {
		return types.Item{}, errors.New("not found")
	}
	return it, nil
}

func TestPullResolvesParentChain(t *testing.T) {
	src := &pullSource{
		annotations: []types.Annotation{
			{Key: "A1", ParentKey: "ATT1", Kind: types.KindHighlight, Text: "x"},
		},
		notes: []types.Note{
			{Key: "N1", ParentKey: "ITEM1", HTML: "<p>y</p>"},
		},
		items: map[string]types.Item{
			"ATT1":  {Key: "ATT1", ParentKey: "ITEM1"},
			"ITEM1": {Key: "ITEM1", Title: "T"},
		},
	}

	s := openTestStore(t)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := s.Pull(ctx, src, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Annotations)
	assert.Equal(t, 1, summary.Notes)
	// ATT1 plus its top-level parent ITEM1, deduplicated against the
	// note's parent.
	assert.Equal(t, 2, summary.Items)
	assert.Equal(t, 0, summary.Skipped)

	// The offline store can now serve the same records.
	item, err := s.Item(ctx, "ATT1")
	require.NoError(t, err)
	assert.Equal(t, "ITEM1", item.ParentKey)
}

func TestPullSkipsUnfetchableItems(t *testing.T) {
	src := &pullSource{
		annotations: []types.Annotation{
			{Key: "A1", ParentKey: "GONE", Kind: types.KindHighlight},
		},
		items: map[string]types.Item{},
	}

	s := openTestStore(t)

	var out bytes.Buffer
	summary, err := s.Pull(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, out.String(), "warning: skipping item GONE")
}
