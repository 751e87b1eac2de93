// Package docstore provides in-memory document storage for a run.
// Articles are hydrated once after loading; contexts refer back to them by ID.
package docstore

import (
	"sync"
)

// Store holds normalized articles in load order.
// Thread-safe so classification workers can resolve provenance.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]*Document
	order []string
}

// Document is one normalized article.
type Document struct {
	ID     string   // "<source>#<n>"
	Source string   // File path or table the article came from
	Words  []string // Normalized word sequence
}

// New creates an empty document store.
func New() *Store {
	return &Store{
		docs: make(map[string]*Document),
	}
}

// Hydrate bulk-loads documents into the store.
// A document whose ID is already present replaces it in place.
func (s *Store) Hydrate(docs []Document) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if _, exists := s.docs[doc.ID]; !exists {
			s.order = append(s.order, doc.ID)
		}
		s.docs[doc.ID] = &Document{
			ID:     doc.ID,
			Source: doc.Source,
			Words:  doc.Words,
		}
	}
	return len(docs)
}

// Get retrieves a document by ID.
// Returns nil if not found.
func (s *Store) Get(id string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.docs[id]
}

// Count returns the number of documents in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

// All returns the documents in load order.
func (s *Store) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}
