// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/zotmd/pkg/types"
)

// Source is the record surface a pull reads from; the live API client
// satisfies it.
type Source interface {
	Annotations(ctx context.Context) ([]types.Annotation, error)
	Notes(ctx context.Context) ([]types.Note, error)
	Item(ctx context.Context, key string) (types.Item, error)
}

// PullSummary holds counts from a snapshot pull.
type PullSummary struct {
	Annotations int
	Notes       int
	Items       int
	Skipped     int
}

// Pull fetches the full record set through src and replaces the snapshot
// contents. Besides the bulk annotation and note lists it resolves every
// referenced item: annotation parents (attachments), their top-level
// parents, and note parents, so a later offline export needs no network.
// Items that fail to fetch are skipped with a warning; bulk retrieval
// failures abort the pull.
func (s *Store) Pull(ctx context.Context, src Source, w io.Writer) (PullSummary, error) {
	annotations, err := src.Annotations(ctx)
	if err != nil {
		return PullSummary{}, fmt.Errorf("retrieving annotations: %w", err)
	}
	notes, err := src.Notes(ctx)
	if err != nil {
		return PullSummary{}, fmt.Errorf("retrieving notes: %w", err)
	}

	var parentKeys []string
	seen := make(map[string]bool)
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			parentKeys = append(parentKeys, key)
		}
	}
	for _, a := range annotations {
		add(a.ParentKey)
	}
	for _, n := range notes {
		add(n.ParentKey)
	}

	summary := PullSummary{Annotations: len(annotations), Notes: len(notes)}

	var items []types.Item
	// parentKeys grows while iterating: fetched attachments append their
	// own top-level parents.
	for i := 0; i < len(parentKeys); i++ {
		key := parentKeys[i]
		item, err := src.Item(ctx, key)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping item %s: %v\n", key, err)
			summary.Skipped++
			continue
		}
		items = append(items, item)
		add(item.ParentKey)
	}
	summary.Items = len(items)

	if err := s.Replace(ctx, annotations, notes, items); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "Snapshot updated: %d annotations, %d notes, %d items (%d skipped).\n",
		summary.Annotations, summary.Notes, summary.Items, summary.Skipped)
	return summary, nil
}
