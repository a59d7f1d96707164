package classify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/reflection-bot/internal/app/classify"
	"github.com/PabloGalante/reflection-bot/internal/domain"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return s.reply, s.err
}

func TestClassifyParsesCategoriesFromReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []domain.Category
	}{
		{
			name:  "single category",
			reply: "work",
			want:  []domain.Category{domain.CategoryWork},
		},
		{
			name:  "multiple categories",
			reply: "work, health",
			want:  []domain.Category{domain.CategoryWork, domain.CategoryHealth},
		},
		{
			name:  "case insensitive",
			reply: "Relationships, PURPOSE",
			want:  []domain.Category{domain.CategoryRelationships, domain.CategoryPurpose},
		},
		{
			name:  "category named mid-sentence",
			reply: "This text is clearly about health and nothing else.",
			want:  []domain.Category{domain.CategoryHealth},
		},
		{
			name:  "no category applies",
			reply: "none of the categories apply",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := classify.NewClassifier(&stubCompleter{reply: tt.reply})
			got := c.Classify(context.Background(), "some reflection")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyReturnsOnlyKnownCategories(t *testing.T) {
	c := classify.NewClassifier(&stubCompleter{reply: "work, finance, horoscope"})
	got := c.Classify(context.Background(), "budget worries")
	assert.Equal(t, []domain.Category{domain.CategoryWork}, got)
}

func TestClassifyNeverFailsTheCaller(t *testing.T) {
	c := classify.NewClassifier(&stubCompleter{err: fmt.Errorf("timeout")})
	got := c.Classify(context.Background(), "I ran 5k today")
	assert.Empty(t, got)
}
