// Package elastic keeps a product search index in Elasticsearch and queries
// it.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// Config captures the cluster settings.
type Config struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport overrides the HTTP transport, for tests.
	Transport http.RoundTripper
}

// ProductIndex mirrors product events into an index and serves full-text
// queries over it.
type ProductIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProductIndex(cfg Config) (*ProductIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ProductIndex{client: client, index: cfg.Index}, nil
}

func (p *ProductIndex) Name() string { return "elasticsearch" }

// Handle indexes created and updated products and removes deleted ones.
// Other events are ignored.
func (p *ProductIndex) Handle(ctx context.Context, e domain.Event) error {
	switch e.Type {
	case domain.EventProductCreated, domain.EventProductUpdated:
		return p.put(ctx, e.AggregateID, e.Payload)
	case domain.EventProductDeleted:
		return p.remove(ctx, e.AggregateID)
	default:
		return nil
	}
}

type productDoc struct {
	Name        any `json:"name"`
	Description any `json:"description"`
	Price       any `json:"price"`
	Categories  any `json:"categories"`
}

func (p *ProductIndex) put(ctx context.Context, id string, payload map[string]any) error {
	body, err := json.Marshal(productDoc{
		Name:        payload["name"],
		Description: payload["description"],
		Price:       payload["price"],
		Categories:  payload["categories"],
	})
	if err != nil {
		return fmt.Errorf("encode product %s: %w", id, err)
	}

	res, err := p.client.Index(p.index, bytes.NewReader(body),
		p.client.Index.WithContext(ctx),
		p.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", id, res.Status())
	}
	return nil
}

func (p *ProductIndex) remove(ctx context.Context, id string) error {
	res, err := p.client.Delete(p.index, id, p.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product %s: %s", id, res.Status())
	}
	return nil
}

// Search returns the ids of the products matching query, best match first,
// and the total hit count.
func (p *ProductIndex) Search(ctx context.Context, query string, page domain.Page) ([]string, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "categories"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    page.Offset(),
		"size":    page.Size,
	}); err != nil {
		return nil, 0, err
	}

	res, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(p.index),
		p.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, 0, fmt.Errorf("search products: %s: %s", res.Status(), msg)
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
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, len(r.Hits.Hits))
	for i, h := range r.Hits.Hits {
		ids[i] = h.ID
	}
	return ids, r.Hits.Total.Value, nil
}
