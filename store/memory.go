// ABOUTME: In-memory Persister used by tests and the no-backend mode
// ABOUTME: Keeps the last saved document as JSON so callers observe what a real backend would
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryPersister stores the encoded document in memory.
type MemoryPersister struct {
	mu    sync.Mutex
	data  []byte
	saves int

	// Err, when set, is returned by every Save.
	Err error
}

// Load decodes the last saved document. An empty persister yields an empty document.
func (m *MemoryPersister) Load(ctx context.Context) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) == 0 {
		return Document{}, nil
	}
	var doc Document
	if err := json.Unmarshal(m.data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Save encodes doc, or fails with Err.
func (m *MemoryPersister) Save(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	m.data = data
	m.saves++
	return nil
}

// Saves returns the number of successful writes.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
