package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/rmaslov/journal/internal/models"
)

// IndexEntry writes an entry document so it becomes searchable. Callers
// treat failures as best-effort and only log them.
func IndexEntry(ctx context.Context, es *elasticsearch.Client, index string, entry models.JournalEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(payload),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(entry.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index entry: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index entry: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-match over entry titles and content. authorID
// of zero means no author filter (admin callers see everything).
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, authorID uint, from, size int) (int64, []models.JournalEntry, error) {
	match := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query,
			"fields":    []string{"title^2", "content"},
			"fuzziness": "AUTO",
		},
	}

	var q map[string]interface{}
	if authorID == 0 {
		q = match
	} else {
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   match,
				"filter": map[string]interface{}{"term": map[string]interface{}{"author_id": authorID}},
			},
		}
	}

	body := map[string]interface{}{
		"query": q,
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.JournalEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	entries := make([]models.JournalEntry, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		entries[i] = hit.Source
	}
	return r.Hits.Total.Value, entries, nil
}
