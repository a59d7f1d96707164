package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/reflection-bot/internal/domain"
)

// Store implements domain.ThoughtStore on Firestore. Similarity search uses
// Firestore vector search over embeddings produced by the injected Embedder
// at write time.
type Store struct {
	client   *firestore.Client
	embedder domain.Embedder
}

func NewStore(ctx context.Context, projectID string, embedder domain.Embedder) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, embedder: embedder}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) col(collection domain.Collection) (*firestore.CollectionRef, error) {
	switch collection {
	case domain.CollectionThoughts, domain.CollectionGame, domain.CollectionChat:
		return s.client.Collection(string(collection)), nil
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type thoughtDoc struct {
	UserID         int64              `firestore:"user_id"`
	Text           string             `firestore:"text"`
	Source         string             `firestore:"source"`
	Categories     []string           `firestore:"categories"`
	Question       string             `firestore:"question"`
	QuestionNumber int                `firestore:"question_number"`
	CreatedAt      time.Time          `firestore:"created_at"`
	Embedding      firestore.Vector32 `firestore:"embedding"`
}

func (d *thoughtDoc) toDomain(id string) *domain.Thought {
	categories := make([]domain.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		if cat, ok := domain.ParseCategory(c); ok {
			categories = append(categories, cat)
		}
	}

	return &domain.Thought{
		ID:             domain.ThoughtID(id),
		UserID:         domain.UserID(d.UserID),
		Text:           d.Text,
		Source:         domain.Source(d.Source),
		Categories:     categories,
		CreatedAt:      d.CreatedAt,
		Question:       d.Question,
		QuestionNumber: d.QuestionNumber,
	}
}

// ─────────────────────────────────────────
// ThoughtStore implementation
// ─────────────────────────────────────────

func (s *Store) Store(ctx context.Context, collection domain.Collection, t *domain.Thought) (domain.ThoughtID, error) {
	if t == nil || t.Text == "" {
		return "", fmt.Errorf("refusing to store empty text")
	}

	col, err := s.col(collection)
	if err != nil {
		return "", err
	}

	vec, err := s.embedder.Embed(ctx, t.Text)
	if err != nil {
		return "", fmt.Errorf("embedding text: %w", err)
	}

	id := string(t.ID)
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	doc := thoughtDoc{
		UserID:         int64(t.UserID),
		Text:           t.Text,
		Source:         string(t.Source),
		Categories:     t.CategoryNames(),
		Question:       t.Question,
		QuestionNumber: t.QuestionNumber,
		CreatedAt:      createdAt,
		Embedding:      firestore.Vector32(vec),
	}

	if _, err := col.Doc(id).Create(ctx, doc); err != nil {
		return "", fmt.Errorf("firestore Store: %w", err)
	}
	return domain.ThoughtID(id), nil
}

func (s *Store) SearchSimilar(ctx context.Context, collection domain.Collection, queryText string, limit int) ([]*domain.Thought, error) {
	col, err := s.col(collection)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	q := col.FindNearest("embedding", firestore.Vector32(vec), limit, firestore.DistanceMeasureCosine, nil)
	return s.collect(q.Documents(ctx), "SearchSimilar")
}

func (s *Store) SearchByCategory(ctx context.Context, collection domain.Collection, category domain.Category, limit int) ([]*domain.Thought, error) {
	col, err := s.col(collection)
	if err != nil {
		return nil, err
	}

	q := col.Where("categories", "array-contains", string(category))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.collect(q.Documents(ctx), "SearchByCategory")
}

func (s *Store) Delete(ctx context.Context, collection domain.Collection, id domain.ThoughtID) (bool, error) {
	col, err := s.col(collection)
	if err != nil {
		return false, err
	}

	ref := col.Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("firestore Delete lookup: %w", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return false, fmt.Errorf("firestore Delete: %w", err)
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, collection domain.Collection, page, pageSize int) ([]*domain.Thought, error) {
	col, err := s.col(collection)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	q := col.OrderBy("created_at", firestore.Desc).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
	return s.collect(q.Documents(ctx), "List")
}

func (s *Store) collect(iter *firestore.DocumentIterator, op string) ([]*domain.Thought, error) {
	defer iter.Stop()

	var out []*domain.Thought
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore %s: %w", op, err)
		}

		var doc thoughtDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode thoughtDoc: %w", err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
	}
	return out, nil
}
