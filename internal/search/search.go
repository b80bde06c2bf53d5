// Package search wraps the Elasticsearch product index. Indexing is
// best-effort: the database is the source of truth and the index is
// rebuilt from it on catalog writes.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/nimra/cashandcarry/internal/models"
)

const ProductIndex = "products"

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: ping: %s: %s", res.Status(), body)
	}
	return client, nil
}

// productDoc is the indexed projection of a product. Prices are indexed
// as strings; search never does numeric aggregation on them.
type productDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	IsFeatured  bool   `json:"is_featured"`
}

// Index keeps the ES document for p in step with the database row.
type Index struct {
	ES *elasticsearch.Client
}

func (i *Index) IndexProduct(ctx context.Context, p models.Product) error {
	doc := productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		IsFeatured:  p.IsFeatured,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search: marshal product doc: %w", err)
	}

	res, err := i.ES.Index(ProductIndex, bytes.NewReader(data),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("search: index product %s: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product %s: %s", doc.ID, res.Status())
	}
	return nil
}

func (i *Index) DeleteProduct(ctx context.Context, id string) error {
	res, err := i.ES.Delete(ProductIndex, id, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete product %s: %w", id, err)
	}
	defer res.Body.Close()
	// 404 means the document was never indexed; nothing to undo.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete product %s: %s", id, res.Status())
	}
	return nil
}

// Result is one page of search hits.
type Result struct {
	Total int64
	IDs   []string
}

// Search runs a fuzzy multi_match over name and description and
// returns matching product ids; callers rehydrate full rows from the
// database so results never show stale prices.
func Search(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (*Result, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(ProductIndex),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: execute: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: execute: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	out := &Result{Total: r.Hits.Total.Value, IDs: make([]string, 0, len(r.Hits.Hits))}
	for _, h := range r.Hits.Hits {
		out.IDs = append(out.IDs, h.ID)
	}
	return out, nil
}
