package analysis

import (
	"slices"
	"sync"
)

// Store holds the current Document of every open URI.
//
// Set builds the replacement Document before taking the lock and publishes
// it with a single map write, so a reader sees either the old or the new
// text, tree and environment, never a mix.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Set rebuilds the document for uri from text and publishes it.
func (s *Store) Set(uri, text string) *Document {
	doc := BuildDocument(text)
	s.Put(uri, doc)

	return doc
}

// Put publishes an already built document.
func (s *Store) Put(uri string, doc *Document) {
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
}

// Get returns the current document for uri.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	s.mu.RUnlock()

	return doc, ok
}

// Delete forgets uri.
func (s *Store) Delete(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// URIs returns the stored URIs in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	uris := make([]string, 0, len(s.docs))

	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.RUnlock()

	slices.Sort(uris)

	return uris
}
