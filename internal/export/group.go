// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs the batch conversion: it groups fetched records by
// their parent item, renders one Markdown document per item, and
// collects per-item failures for the end-of-run report.
package export

// Index groups records by parent-item key. It preserves both the order
// of records within a group and the order keys were first seen, so a
// run walks items deterministically in retrieval order.
type Index[T any] struct {
	keys   []string
	groups map[string][]T
}

// GroupByParent builds an Index from a flat record sequence. Records are
// not deduplicated; a record appearing twice lands in its group twice.
func GroupByParent[T any](records []T, parentKey func(T) string) *Index[T] {
	idx := &Index[T]{groups: make(map[string][]T, len(records))}
	for _, rec := range records {
		k := parentKey(rec)
		if _, ok := idx.groups[k]; !ok {
			idx.keys = append(idx.keys, k)
		}
		idx.groups[k] = append(idx.groups[k], rec)
	}
	return idx
}

// Keys returns the parent keys in first-seen order.
func (ix *Index[T]) Keys() []string { return ix.keys }

// Group returns the records for key, in input order. Absent keys yield
// an empty group, never an error.
func (ix *Index[T]) Group(key string) []T { return ix.groups[key] }

// Has reports whether key appeared in the input.
func (ix *Index[T]) Has(key string) bool {
	_, ok := ix.groups[key]
	return ok
}

// Len returns the number of distinct parent keys.
func (ix *Index[T]) Len() int { return len(ix.keys) }
