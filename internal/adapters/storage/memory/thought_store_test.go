package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/reflection-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/reflection-bot/internal/domain"
)

func seed(t *testing.T, s *memory.ThoughtStore, texts ...string) []domain.ThoughtID {
	t.Helper()
	ids := make([]domain.ThoughtID, len(texts))
	for i, text := range texts {
		id, err := s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{Text: text})
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestStoreAssignsID(t *testing.T) {
	s := memory.NewThoughtStore()

	id, err := s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestStoreRejectsEmptyText(t *testing.T) {
	s := memory.NewThoughtStore()

	_, err := s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{})
	assert.Error(t, err)
}

func TestUnknownCollectionIsAnError(t *testing.T) {
	s := memory.NewThoughtStore()

	_, err := s.Store(context.Background(), domain.Collection("nope"), &domain.Thought{Text: "x"})
	assert.Error(t, err)

	_, err = s.List(context.Background(), domain.Collection("nope"), 1, 10)
	assert.Error(t, err)
}

func TestListPagesNewestFirst(t *testing.T) {
	s := memory.NewThoughtStore()
	seed(t, s, "a", "b", "c", "d", "e")

	page1, err := s.List(context.Background(), domain.CollectionThoughts, 1, 2)
	require.NoError(t, err)
	page2, err := s.List(context.Background(), domain.CollectionThoughts, 2, 2)
	require.NoError(t, err)
	page3, err := s.List(context.Background(), domain.CollectionThoughts, 3, 2)
	require.NoError(t, err)

	texts := func(entries []*domain.Thought) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Text
		}
		return out
	}

	assert.Equal(t, []string{"e", "d"}, texts(page1))
	assert.Equal(t, []string{"c", "b"}, texts(page2))
	assert.Equal(t, []string{"a"}, texts(page3))

	empty, err := s.List(context.Background(), domain.CollectionThoughts, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteRemovesOnlyTheTarget(t *testing.T) {
	s := memory.NewThoughtStore()
	ids := seed(t, s, "one", "two", "three")

	deleted, err := s.Delete(context.Background(), domain.CollectionThoughts, ids[1])
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := s.List(context.Background(), domain.CollectionThoughts, 1, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	for _, r := range remaining {
		assert.NotEqual(t, ids[1], r.ID)
	}

	// Deleting again reports not found without error.
	deleted, err = s.Delete(context.Background(), domain.CollectionThoughts, ids[1])
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSearchByCategoryFilters(t *testing.T) {
	s := memory.NewThoughtStore()
	_, err := s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{
		Text: "gym", Categories: []domain.Category{domain.CategoryHealth},
	})
	require.NoError(t, err)
	_, err = s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{
		Text: "standup", Categories: []domain.Category{domain.CategoryWork},
	})
	require.NoError(t, err)

	found, err := s.SearchByCategory(context.Background(), domain.CollectionThoughts, domain.CategoryHealth, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "gym", found[0].Text)
}

func TestSearchByCategoryHonorsLimit(t *testing.T) {
	s := memory.NewThoughtStore()
	for i := 0; i < 5; i++ {
		_, err := s.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{
			Text: fmt.Sprintf("entry %d", i), Categories: []domain.Category{domain.CategoryPurpose},
		})
		require.NoError(t, err)
	}

	found, err := s.SearchByCategory(context.Background(), domain.CollectionThoughts, domain.CategoryPurpose, 3)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestSearchSimilarRanksByOverlap(t *testing.T) {
	s := memory.NewThoughtStore()
	seed(t, s,
		"the quick brown fox",
		"a quick brown dog jumped",
		"completely unrelated entry",
	)

	found, err := s.SearchSimilar(context.Background(), domain.CollectionThoughts, "quick brown fox", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "the quick brown fox", found[0].Text)
	assert.Equal(t, "a quick brown dog jumped", found[1].Text)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := memory.NewThoughtStore()
	_, err := s.Store(context.Background(), domain.CollectionGame, &domain.Thought{Text: "an answer"})
	require.NoError(t, err)

	thoughts, err := s.List(context.Background(), domain.CollectionThoughts, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, thoughts)
}
