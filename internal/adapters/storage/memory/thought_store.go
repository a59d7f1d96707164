package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/reflection-bot/internal/domain"
)

// ThoughtStore is a simple in-memory implementation of domain.ThoughtStore.
// It is NOT persistent and is only suitable for development / tests.
// Similarity search is token overlap, not real embeddings.
type ThoughtStore struct {
	mu          sync.RWMutex
	collections map[domain.Collection][]*domain.Thought // insertion order
}

func NewThoughtStore() *ThoughtStore {
	return &ThoughtStore{
		collections: map[domain.Collection][]*domain.Thought{
			domain.CollectionThoughts: {},
			domain.CollectionGame:     {},
			domain.CollectionChat:     {},
		},
	}
}

func (s *ThoughtStore) entries(collection domain.Collection) ([]*domain.Thought, error) {
	entries, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	return entries, nil
}

func (s *ThoughtStore) Store(ctx context.Context, collection domain.Collection, t *domain.Thought) (domain.ThoughtID, error) {
	if t == nil || t.Text == "" {
		return "", fmt.Errorf("refusing to store empty text")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.entries(collection); err != nil {
		return "", err
	}

	stored := *t
	if stored.ID == "" {
		stored.ID = domain.ThoughtID(uuid.NewString())
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.collections[collection] = append(s.collections[collection], &stored)
	return stored.ID, nil
}

// SearchSimilar ranks entries by how many distinct lowercase tokens they
// share with the query, newest first on ties.
func (s *ThoughtStore) SearchSimilar(ctx context.Context, collection domain.Collection, queryText string, limit int) ([]*domain.Thought, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.entries(collection)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenSet(queryText)

	type scored struct {
		t     *domain.Thought
		score int
		pos   int
	}
	var matches []scored
	for i, t := range entries {
		score := 0
		for tok := range tokenSet(t.Text) {
			if _, ok := queryTokens[tok]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{t: t, score: score, pos: i})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].pos > matches[j].pos
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]*domain.Thought, len(matches))
	for i, m := range matches {
		out[i] = m.t
	}
	return out, nil
}

func (s *ThoughtStore) SearchByCategory(ctx context.Context, collection domain.Collection, category domain.Category, limit int) ([]*domain.Thought, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.entries(collection)
	if err != nil {
		return nil, err
	}

	var out []*domain.Thought
	for i := len(entries) - 1; i >= 0; i-- {
		for _, c := range entries[i].Categories {
			if c == category {
				out = append(out, entries[i])
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *ThoughtStore) Delete(ctx context.Context, collection domain.Collection, id domain.ThoughtID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries(collection)
	if err != nil {
		return false, err
	}

	for i, t := range entries {
		if t.ID == id {
			s.collections[collection] = append(entries[:i:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// List returns up to pageSize entries, newest first, page 1 being the most
// recent. No ordering is promised across pages if writes happen in between.
func (s *ThoughtStore) List(ctx context.Context, collection domain.Collection, page, pageSize int) ([]*domain.Thought, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.entries(collection)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	skip := (page - 1) * pageSize
	if skip >= len(entries) {
		return []*domain.Thought{}, nil
	}

	out := make([]*domain.Thought, 0, pageSize)
	for i := len(entries) - 1 - skip; i >= 0 && len(out) < pageSize; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = struct{}{}
	}
	return set
}
