// Package document implements the keyed JSON-document services backing the
// projects and templates stores. Documents are opaque to the server: only
// id, name, last_modified, and the layout length are ever inspected, and
// those reads go through JSON paths rather than a schema.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/studiokit/studio/internal/store"
)

// Metadata is the lightweight listing view of a document. It is derived on
// demand and never persisted separately.
type Metadata struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	LastModified   float64 `json:"last_modified"`
	ComponentCount int     `json:"component_count"`
}

// Service handles document operations over one authoritative store instance.
type Service struct {
	store  *store.Store[json.RawMessage]
	logger *slog.Logger
	now    func() float64
}

// NewService creates a document service.
func NewService(st *store.Store[json.RawMessage], logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		now:    func() float64 { return float64(time.Now().UnixMilli()) },
	}
}

// Save stores a document. A missing or empty id is replaced with a fresh
// one; last_modified is stamped when the caller didn't send it. The saved
// document is returned.
func (s *Service) Save(doc json.RawMessage) (json.RawMessage, error) {
	if !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		return nil, ErrInvalidDocument
	}

	id := gjson.GetBytes(doc, "id").String()
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	doc, err := sjson.SetBytes(doc, "id", id)
	if err != nil {
		return nil, fmt.Errorf("stamping id: %w", err)
	}
	if !gjson.GetBytes(doc, "last_modified").Exists() {
		doc, err = sjson.SetBytes(doc, "last_modified", s.now())
		if err != nil {
			return nil, fmt.Errorf("stamping last_modified: %w", err)
		}
	}

	if err := s.store.Put(id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get fetches a document by id.
func (s *Service) Get(id string) (json.RawMessage, error) {
	doc, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// Delete removes a document by id.
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// List returns metadata for every document, newest last_modified first.
// Ties sort by id so the order is stable across calls.
func (s *Service) List() []Metadata {
	docs := s.store.Snapshot()

	metas := make([]Metadata, 0, len(docs))
	for _, doc := range docs {
		metas = append(metas, metadataOf(doc))
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].LastModified != metas[j].LastModified {
			return metas[i].LastModified > metas[j].LastModified
		}
		return metas[i].ID < metas[j].ID
	})
	return metas
}

func metadataOf(doc json.RawMessage) Metadata {
	name := gjson.GetBytes(doc, "name").String()
	if name == "" {
		name = "Untitled"
	}
	return Metadata{
		ID:             gjson.GetBytes(doc, "id").String(),
		Name:           name,
		LastModified:   gjson.GetBytes(doc, "last_modified").Float(),
		ComponentCount: int(gjson.GetBytes(doc, "layout.#").Int()),
	}
}
