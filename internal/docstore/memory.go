package docstore

import (
	"context"
	"sync"
)

// MemoryCollection is an in-process Collection. Documents are copied on the
// way in and out so callers never share state with the store.
type MemoryCollection struct {
	name string

	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryCollection creates an empty in-memory collection.
func NewMemoryCollection(name string) *MemoryCollection {
	return &MemoryCollection{
		name: name,
		docs: make(map[string]*Document),
	}
}

func (m *MemoryCollection) Name() string { return m.name }

func (m *MemoryCollection) FindOne(ctx context.Context, f Filter, opts FindOptions) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if f.ID != "" {
		doc, ok := m.docs[f.ID]
		if !ok || !f.Matches(doc) {
			return nil, ErrNotFound
		}
		return cloneDocument(doc), nil
	}

	var best *Document
	for _, doc := range m.docs {
		if !f.Matches(doc) {
			continue
		}
		if !opts.Newest {
			return cloneDocument(doc), nil
		}
		if best == nil || newer(doc, best) {
			best = doc
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return cloneDocument(best), nil
}

func (m *MemoryCollection) InsertOne(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared, err := PrepareInsert(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[prepared.ID] = cloneDocument(&prepared)
	return prepared.ID, nil
}

func (m *MemoryCollection) UpdateOne(ctx context.Context, f Filter, u Update) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.firstMatchLocked(f)
	if doc == nil {
		return UpdateResult{}, nil
	}

	data, err := MergeData(doc.Data, u.Set)
	if err != nil {
		return UpdateResult{}, err
	}
	doc.Data = data
	doc.UpdatedAt = NextUpdatedAt(doc.UpdatedAt, u.At)
	return UpdateResult{Matched: 1}, nil
}

func (m *MemoryCollection) DeleteOne(ctx context.Context, f Filter) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.firstMatchLocked(f)
	if doc == nil {
		return DeleteResult{}, nil
	}
	delete(m.docs, doc.ID)
	return DeleteResult{Deleted: 1}, nil
}

func (m *MemoryCollection) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryCollection) Close() error { return nil }

// Len returns the number of stored documents.
func (m *MemoryCollection) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// firstMatchLocked must be called with mu held.
func (m *MemoryCollection) firstMatchLocked(f Filter) *Document {
	if f.ID != "" {
		doc, ok := m.docs[f.ID]
		if !ok || !f.Matches(doc) {
			return nil
		}
		return doc
	}
	for _, doc := range m.docs {
		if f.Matches(doc) {
			return doc
		}
	}
	return nil
}

func newer(a, b *Document) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func cloneDocument(doc *Document) *Document {
	out := *doc
	if doc.Data != nil {
		out.Data = append([]byte(nil), doc.Data...)
	}
	return &out
}
