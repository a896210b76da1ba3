// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero implements a read-only client for the Zotero Web API
// (v3): bulk retrieval of annotation and note records plus single-item
// lookup. Pagination and rate-limit handling live here so callers see
// complete record sets.
package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/zotmd/internal/httputil"
	"github.com/pdiddy/zotmd/pkg/types"
)

// baseURL is the Zotero API root. Declared as a var so tests can
// substitute an httptest server.
var baseURL = "https://api.zotero.org"

const (
	apiVersion = "3"
	// pageLimit is the page size for bulk item requests (the API maximum).
	pageLimit = 100
)

// Client retrieves records from one Zotero library.
type Client struct {
	HTTP *http.Client
	Cfg  types.LibraryConfig
}

// NewClient builds a client for the configured library.
func NewClient(cfg types.LibraryConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// Annotations fetches every annotation record in the library, in API
// return order.
func (c *Client) Annotations(ctx context.Context) ([]types.Annotation, error) {
	items, err := c.allItems(ctx, "annotation")
	if err != nil {
		return nil, err
	}
	annotations := make([]types.Annotation, len(items))
	for i, it := range items {
		annotations[i] = it.toAnnotation()
	}
	return annotations, nil
}

// Notes fetches every note record in the library, in API return order.
func (c *Client) Notes(ctx context.Context) ([]types.Note, error) {
	items, err := c.allItems(ctx, "note")
	if err != nil {
		return nil, err
	}
	notes := make([]types.Note, len(items))
	for i, it := range items {
		notes[i] = it.toNote()
	}
	return notes, nil
}

// Item fetches a single item's descriptive record by key.
func (c *Client) Item(ctx context.Context, key string) (types.Item, error) {
	body, _, err := c.get(ctx, "/items/"+url.PathEscape(key), nil)
	if err != nil {
		return types.Item{}, err
	}

	var it wireItem
	if err := json.Unmarshal(body, &it); err != nil {
		return types.Item{}, fmt.Errorf("parsing item %s: %w", key, err)
	}
	return it.toItem(), nil
}

// allItems pages through /items?itemType=... until the Total-Results
// count is exhausted.
func (c *Client) allItems(ctx context.Context, itemType string) ([]wireItem, error) {
	var all []wireItem
	for start := 0; ; {
		params := url.Values{
			"itemType": {itemType},
			"limit":    {strconv.Itoa(pageLimit)},
			"start":    {strconv.Itoa(start)},
		}

		body, header, err := c.get(ctx, "/items", params)
		if err != nil {
			return nil, err
		}

		var page []wireItem
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing %s items: %w", itemType, err)
		}
		all = append(all, page...)

		if len(page) == 0 {
			return all, nil
		}
		start += len(page)
		if total, err := strconv.Atoi(header.Get("Total-Results")); err == nil && start >= total {
			return all, nil
		}
	}
}

// get performs one authenticated GET under the library prefix and
// returns the response body and headers. Any non-200 status is an
// error; nothing here is retried beyond the rate-limit handling in
// httputil.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, http.Header, error) {
	reqURL := baseURL + "/" + c.libraryPrefix() + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Zotero-API-Version", apiVersion)
	if c.Cfg.APIKey != "" {
		req.Header.Set("Zotero-API-Key", c.Cfg.APIKey)
	}
	if c.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.Cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Cfg.MaxRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading Zotero response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("Zotero API returned HTTP %d for %s", resp.StatusCode, path)
	}
	return body, resp.Header, nil
}

func (c *Client) libraryPrefix() string {
	if c.Cfg.LibraryType == "group" {
		return "groups/" + c.Cfg.LibraryID
	}
	return "users/" + c.Cfg.LibraryID
}

// Zotero API JSON structures. Every item type shares one envelope with a
// type-dependent data payload.
type wireItem struct {
	Key  string   `json:"key"`
	Data wireData `json:"data"`
}

type wireData struct {
	Key                 string        `json:"key"`
	ItemType            string        `json:"itemType"`
	ParentItem          string        `json:"parentItem"`
	Title               string        `json:"title"`
	Date                string        `json:"date"`
	Creators            []wireCreator `json:"creators"`
	Tags                []wireTag     `json:"tags"`
	Note                string        `json:"note"`
	AnnotationType      string        `json:"annotationType"`
	AnnotationText      string        `json:"annotationText"`
	AnnotationComment   string        `json:"annotationComment"`
	AnnotationPageLabel string        `json:"annotationPageLabel"`
	DateAdded           string        `json:"dateAdded"`
	DateModified        string        `json:"dateModified"`
}

type wireCreator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
}

type wireTag struct {
	Tag string `json:"tag"`
}

func (w wireItem) toAnnotation() types.Annotation {
	return types.Annotation{
		Key:          w.Key,
		ParentKey:    w.Data.ParentItem,
		Kind:         types.AnnotationKind(w.Data.AnnotationType),
		Text:         w.Data.AnnotationText,
		Comment:      w.Data.AnnotationComment,
		PageLabel:    w.Data.AnnotationPageLabel,
		DateAdded:    w.Data.DateAdded,
		DateModified: w.Data.DateModified,
		Tags:         flattenTags(w.Data.Tags),
	}
}

func (w wireItem) toNote() types.Note {
	return types.Note{
		Key:       w.Key,
		ParentKey: w.Data.ParentItem,
		HTML:      w.Data.Note,
		Tags:      flattenTags(w.Data.Tags),
	}
}

func (w wireItem) toItem() types.Item {
	return types.Item{
		Key:       w.Key,
		ParentKey: w.Data.ParentItem,
		Title:     w.Data.Title,
		Date:      w.Data.Date,
		Creators:  toCreators(w.Data.Creators),
		Tags:      flattenTags(w.Data.Tags),
	}
}

func flattenTags(tags []wireTag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Tag
	}
	return out
}

func toCreators(creators []wireCreator) []types.Creator {
	if len(creators) == 0 {
		return nil
	}
	out := make([]types.Creator, len(creators))
	for i, c := range creators {
		out[i] = types.Creator{FirstName: c.FirstName, LastName: c.LastName, Name: c.Name}
	}
	return out
}
