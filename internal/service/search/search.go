package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
)

const Index = "crm_records"

// Doc is the shape mirrored into the index on every client/campaign mutation.
type Doc struct {
	Kind  string `json:"kind"`
	OrgID uint   `json:"org_id"`
	RefID uint   `json:"ref_id"`
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

func DocID(kind string, refID uint) string {
	return kind + "-" + strconv.FormatUint(uint64(refID), 10)
}

func IndexDoc(ctx context.Context, es *elasticsearch.Client, doc Doc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search index: marshal: %w", err)
	}

	res, err := es.Index(
		Index,
		bytes.NewReader(body),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(DocID(doc.Kind, doc.RefID)),
	)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search index: %s", res.Status())
	}
	return nil
}

func DeleteDoc(ctx context.Context, es *elasticsearch.Client, kind string, refID uint) error {
	res, err := es.Delete(Index, DocID(kind, refID), es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search delete: %w", err)
	}
	defer res.Body.Close()
	// 404 here just means the record was never mirrored.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search delete: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi_match over one organization's records.
func Search(ctx context.Context, es *elasticsearch.Client, orgID uint, query string, from, size int) (int64, []Doc, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "notes"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"org_id": orgID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(Index),
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
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source Doc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Doc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
