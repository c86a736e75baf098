// ABOUTME: Charm-backed document persistence for the record store
// ABOUTME: The whole workspace lives as one JSON value under a fixed key

package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// DocumentKey is the KV key holding the workspace document.
const DocumentKey = "customerNotesData"

// Persister stores the workspace document in charm KV.
type Persister struct {
	client *Client
}

// NewPersister wraps c.
func NewPersister(c *Client) *Persister {
	return &Persister{client: c}
}

// Load decodes the stored document. A never-written key yields an empty document.
func (p *Persister) Load(ctx context.Context) (store.Document, error) {
	data, err := p.client.Get([]byte(DocumentKey))
	if errors.Is(err, ErrNotFound) {
		return store.Document{Customers: []models.CustomerRecord{}}, nil
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return store.Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Customers == nil {
		doc.Customers = []models.CustomerRecord{}
	}
	return doc, nil
}

func (p *Persister) Save(ctx context.Context, doc store.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := p.client.Set([]byte(DocumentKey), data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
